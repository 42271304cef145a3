package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridian-data/lakestage/codec"
	"github.com/meridian-data/lakestage/config"
	"github.com/meridian-data/lakestage/dataset"
	"github.com/meridian-data/lakestage/ingest"
)

func NewIngestCommand() *cobra.Command {
	var (
		datasetName  string
		rows         int
		dateStr      string
		formatStr    string
		compressStr  string
		targetPrefix string
		envTag       string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Generate a dataset partition and publish it atomically",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}
			if datasetName == "" {
				datasetName = settings.DatasetName
			}
			if targetPrefix == "" {
				targetPrefix = settings.DefaultPrefix
			}

			if _, err := time.Parse("2006-01-02", dateStr); err != nil {
				return fmt.Errorf("invalid --date %q: %w", dateStr, err)
			}
			format, err := codec.ParseFormat(formatStr)
			if err != nil {
				return err
			}
			compression, err := codec.ParseCompression(compressStr)
			if err != nil {
				return err
			}

			frame, err := dataset.Generate(datasetName, rows, dateStr)
			if err != nil {
				return err
			}

			client, err := newClient(cmd, settings)
			if err != nil {
				return err
			}

			ing := ingest.New(client, slog.Default())
			res, err := ing.Run(cmd.Context(), ingest.Request{
				Dataset:         datasetName,
				Frame:           frame,
				Date:            dateStr,
				Format:          format,
				Compression:     compression,
				Prefix:          targetPrefix,
				EnvTag:          envTag,
				RequiredColumns: dataset.RequiredColumns(datasetName),
			})
			if err != nil {
				return err
			}

			fmt.Printf("%s s3://%s/%s (%d bytes, sha256=%s)\n",
				res.Status, client.Bucket(), res.Key, res.Bytes, res.Digest)
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetName, "dataset", "", "dataset name (default from DATASET_NAME)")
	cmd.Flags().IntVar(&rows, "n", 100000, "number of rows to generate")
	cmd.Flags().StringVar(&dateStr, "date", "", "partition date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&formatStr, "format", "csv", "output format: csv or parquet")
	cmd.Flags().StringVar(&compressStr, "compress", "gzip", "compression: gzip or none (csv only)")
	cmd.Flags().StringVar(&targetPrefix, "target-prefix", "", "destination prefix (default from DEFAULT_PREFIX)")
	cmd.Flags().StringVar(&envTag, "env", "dev", "environment tag applied to the object")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}
