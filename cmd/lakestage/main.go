package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/meridian-data/lakestage/config"
	"github.com/meridian-data/lakestage/objstore"
	"github.com/meridian-data/lakestage/objstore/objtypes"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// A missing .env file is fine; explicit environment always wins.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lakestage",
		Short: "Atomic, idempotent dataset uploads to S3-compatible storage",
		Long: `lakestage generates partitioned dataset files and publishes them to an
S3-compatible bucket using a stage-then-promote flow: objects are written to a
staging key first and promoted to their final partition key with a server-side
copy, so readers never observe partial files. Re-running an ingest with
unchanged content is a no-op.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewIngestCommand())
	rootCmd.AddCommand(NewLsCommand())
	rootCmd.AddCommand(NewPresignGetCommand())
	rootCmd.AddCommand(NewPresignPutCommand())

	return rootCmd
}

// newClient builds an object store client from the loaded settings.
func newClient(cmd *cobra.Command, settings config.Settings) (*objstore.Client, error) {
	options := []objtypes.Option{
		objstore.WithBucket(settings.BucketName),
		objstore.WithRegion(settings.AWSRegion),
		objstore.WithPresignTTL(settings.PresignTTL()),
	}
	if settings.AWSProfile != "" {
		options = append(options, objstore.WithProfile(settings.AWSProfile))
	}
	if settings.EndpointURL != "" {
		options = append(options, objstore.WithEndpoint(settings.EndpointURL))
	}
	if settings.UsePathStyle || settings.StorageBackend == config.BackendMinIO {
		options = append(options, objstore.WithForcePathStyle(true))
	}

	return objstore.New(cmd.Context(), options...)
}
