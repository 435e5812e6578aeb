package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openpaper/papermeta/internal/ingest"
	"github.com/openpaper/papermeta/internal/svcctx"
)

var captionCmd = &cobra.Command{
	Use:   "caption <image-or-pdf>",
	Short: "Extract figure captions from an image or PDF",
	Long: `Extract figure captions using the vision model.

Given an image file, prints its caption. Given a PDF, extracts the embedded
images and prints a caption per image. Images the model judges not to be
standalone figures produce empty captions.

Examples:
  papermeta caption figure3.png
  papermeta caption paper.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, services, err := newServices(cmd.Context())
		if err != nil {
			return err
		}
		logger := svcctx.LoggerFrom(ctx)
		path := args[0]

		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			outDir, err := os.MkdirTemp("", "papermeta-images-*")
			if err != nil {
				return err
			}
			defer os.RemoveAll(outDir)

			pages, err := ingest.PageCount(path)
			if err != nil {
				return err
			}
			logger.Info("extracting images", "file", path, "pages", pages)

			images, err := ingest.ExtractImages(path, outDir)
			if err != nil {
				return err
			}
			if len(images) == 0 {
				logger.Info("no embedded images found", "file", path)
				return nil
			}

			captions := make(map[string]string, len(images))
			for _, img := range images {
				data, err := os.ReadFile(img)
				if err != nil {
					return err
				}
				caption := services.Orchestrator.CaptionImage(ctx, data, ingest.ImageMIMEType(img))
				captions[filepath.Base(img)] = caption
			}
			return printResult(captions)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		caption := services.Orchestrator.CaptionImage(ctx, data, ingest.ImageMIMEType(path))
		fmt.Println(caption)
		return nil
	},
}
