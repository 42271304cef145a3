package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridian-data/lakestage/config"
)

func NewLsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls PREFIX",
		Short: "List objects under a key prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}
			client, err := newClient(cmd, settings)
			if err != nil {
				return err
			}

			n := 0
			for obj := range client.ListAll(cmd.Context(), args[0]) {
				fmt.Printf("%12d  %s  %s\n",
					obj.Size, obj.LastModified.Format("2006-01-02 15:04:05"), obj.Key)
				n++
			}
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			fmt.Printf("%d objects\n", n)
			return nil
		},
	}
	return cmd
}
