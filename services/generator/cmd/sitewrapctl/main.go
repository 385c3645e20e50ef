package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	gos3 "sitewrap/pkg/s3"
	"sitewrap/services/generator"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sitewrapctl",
		Short:         "Utility for generating website wrapper app projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newBuildCommand())
	cmd.AddCommand(newPublishCommand())
	return cmd
}

type buildFlags struct {
	url           string
	name          string
	iconFile      string
	notifications bool
	musicControls bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "url", "", "Website URL to wrap")
	cmd.Flags().StringVar(&f.name, "name", "", "Display name of the application")
	cmd.Flags().StringVar(&f.iconFile, "icon-file", "", "Path to the application icon image")
	cmd.Flags().BoolVar(&f.notifications, "notifications", false, "Request the notifications permission")
	cmd.Flags().BoolVar(&f.musicControls, "music-controls", false, "Request the media controls permission")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("icon-file")
}

func (f *buildFlags) config() (generator.Config, error) {
	iconURI, err := iconToDataURI(f.iconFile)
	if err != nil {
		return generator.Config{}, err
	}
	return generator.Config{
		WebsiteURL:          f.url,
		AppName:             f.name,
		IconData:            iconURI,
		EnableNotifications: f.notifications,
		EnableMusicControls: f.musicControls,
	}, nil
}

func newBuildCommand() *cobra.Command {
	var (
		flags  buildFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render a wrapper project and write the archive to a local file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}

			icon, err := generator.DecodeIcon(cfg.IconData)
			if err != nil {
				return err
			}

			id := generator.Identity{
				BuildID:     generator.BuildID(cfg.AppName, time.Now()),
				PackageName: generator.PackageName(cfg.AppName),
			}

			renderer, err := generator.NewRenderer()
			if err != nil {
				return err
			}
			project, err := renderer.RenderProject(cfg, id, icon)
			if err != nil {
				return err
			}
			archive, err := generator.Assemble(project)
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, archive, 0o644); err != nil {
				return fmt.Errorf("write archive: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, package %s)\n", output, len(archive), id.PackageName)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&output, "output", "", "Destination archive file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newPublishCommand() *cobra.Command {
	var (
		flags  buildFlags
		bucket string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Render a wrapper project and publish the archive to object storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, err := flags.config()
			if err != nil {
				return err
			}

			if bucket == "" {
				bucket = strings.TrimSpace(os.Getenv("S3_BUCKET"))
			}

			storage, err := gos3.NewClientFromEnv()
			if err != nil {
				return fmt.Errorf("s3 client: %w", err)
			}

			pipeline, err := generator.NewPipeline(generator.PipelineConfig{
				Storage: storage,
				Bucket:  bucket,
			})
			if err != nil {
				return err
			}

			artifact, err := pipeline.Run(ctx, cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "published build %s\n%s\n", artifact.BuildID, artifact.DownloadURL)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&bucket, "bucket", "", "Destination bucket (defaults to S3_BUCKET)")
	return cmd
}

func iconToDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read icon: %w", err)
	}

	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if !strings.HasPrefix(mediaType, "image/") {
		mediaType = "image/png"
	}

	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
