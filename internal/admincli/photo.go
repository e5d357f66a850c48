package admincli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/netx"
	"github.com/dmitrijs2005/flatfinder/internal/server/objectstore"
	"github.com/spf13/cobra"
)

var newObjectStore = func(ctx context.Context, cfg objectstore.Config) (objectstore.Store, error) {
	return objectstore.NewS3Store(ctx, cfg)
}

func uploadPhotoCmd(opts *options, open Opener) *cobra.Command {
	cfg := objectstore.Config{URLValidity: 5 * time.Minute}

	cmd := &cobra.Command{
		Use:   "upload-photo <flat-id> <file>",
		Short: "Upload a photo for a flat to object storage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flatID, path := args[0], args[1]

			if cfg.Bucket == "" {
				return errors.New("no bucket: set --s3-bucket or S3_BUCKET")
			}

			rm, err := opts.connect(ctx, open)
			if err != nil {
				return err
			}
			defer rm.Close()

			if _, err := rm.Repos().Flats.GetByID(ctx, flatID); err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return fmt.Errorf("flat %s not found", flatID)
				}
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			store, err := newObjectStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("object storage init error: %w", err)
			}

			key := objectstore.NewPhotoKey(flatID)
			url, err := store.PresignPut(ctx, key)
			if err != nil {
				return err
			}

			if err := netx.PutPresigned(ctx, nil, url, f, mime.TypeByExtension(filepath.Ext(path))); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&cfg.Endpoint, "s3-endpoint", os.Getenv("S3_ENDPOINT"), "S3 endpoint (default $S3_ENDPOINT)")
	fl.StringVar(&cfg.Region, "s3-region", envOr("S3_REGION", "us-east-1"), "S3 region (default $S3_REGION)")
	fl.StringVar(&cfg.AccessKey, "s3-access-key", os.Getenv("S3_ACCESS_KEY"), "S3 access key (default $S3_ACCESS_KEY)")
	fl.StringVar(&cfg.SecretKey, "s3-secret-key", os.Getenv("S3_SECRET_KEY"), "S3 secret key (default $S3_SECRET_KEY)")
	fl.StringVar(&cfg.Bucket, "s3-bucket", os.Getenv("S3_BUCKET"), "S3 bucket (default $S3_BUCKET)")
	return cmd
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
