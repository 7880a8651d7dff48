package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pageroutes/internal/errors"
	"github.com/vango-dev/pageroutes/internal/publish"
	"github.com/vango-dev/pageroutes/pkg/routes"
)

func publishCmd(flags *globalFlags) *cobra.Command {
	var (
		bucket string
		prefix string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the route manifest to S3",
		Long: `Resolve the route table and upload it as a JSON manifest to an
S3-compatible bucket. Credentials are read from AWS_ACCESS_KEY_ID and
AWS_SECRET_ACCESS_KEY.

Examples:
  pageroutes publish
  pageroutes publish --bucket=my-routes --prefix=staging/
  pageroutes publish --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, result, err := resolveProject(cmd.Context(), flags)
			if err != nil {
				return err
			}
			if bucket != "" {
				cfg.Publish.Bucket = bucket
			}
			if cmd.Flags().Changed("prefix") {
				cfg.Publish.Prefix = prefix
			}
			out := cmd.OutOrStdout()

			if dryRun {
				data, err := json.MarshalIndent(publish.NewManifest(result, time.Now()), "", "  ")
				if err != nil {
					return err
				}
				out.Write(append(data, '\n'))
				return nil
			}

			if cfg.Publish.Bucket == "" {
				return errors.New("E121").
					WithSuggestion(`Set "publish.bucket" in pageroutes.json or pass --bucket`)
			}

			p := publish.New(publish.NewS3Client(cfg.Publish), cfg.Publish.Bucket, cfg.ManifestKey())
			receipt, err := p.Publish(cmd.Context(), result)
			if err != nil {
				return errors.New("E120").WithDetail(err.Error()).Wrap(err)
			}

			success(out, "Published %d routes to s3://%s/%s", routes.Count(result.Routes), receipt.Bucket, receipt.Key)
			if receipt.ETag != "" {
				info(out, "ETag: %s", receipt.ETag)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Destination bucket (default from pageroutes.json)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix (default from pageroutes.json)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the manifest instead of uploading it")

	return cmd
}
