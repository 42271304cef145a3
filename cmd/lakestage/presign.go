package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridian-data/lakestage/config"
)

func NewPresignGetCommand() *cobra.Command {
	var (
		key     string
		expires int
	)

	cmd := &cobra.Command{
		Use:   "presign-get",
		Short: "Generate a presigned download URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}
			client, err := newClient(cmd, settings)
			if err != nil {
				return err
			}

			url, err := client.PresignGet(cmd.Context(), key, time.Duration(expires)*time.Second)
			if err != nil {
				return err
			}
			fmt.Println(url)
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "object key (required)")
	cmd.Flags().IntVar(&expires, "expires", 0, "URL lifetime in seconds (default from PRESIGN_DEFAULT_EXPIRES)")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func NewPresignPutCommand() *cobra.Command {
	var (
		key     string
		expires int
	)

	cmd := &cobra.Command{
		Use:   "presign-put",
		Short: "Generate a presigned upload URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}
			client, err := newClient(cmd, settings)
			if err != nil {
				return err
			}

			url, err := client.PresignPut(cmd.Context(), key, time.Duration(expires)*time.Second)
			if err != nil {
				return err
			}
			fmt.Println(url)
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "object key (required)")
	cmd.Flags().IntVar(&expires, "expires", 0, "URL lifetime in seconds (default from PRESIGN_DEFAULT_EXPIRES)")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}
