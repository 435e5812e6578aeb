package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/openpaper/papermeta/internal/ingest"
	"github.com/openpaper/papermeta/internal/svcctx"
)

var extractJobID string

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract structured metadata from a paper",
	Long: `Extract structured metadata from a paper.

Reads a PDF, text, or markdown file, runs the five metadata extractions
concurrently against the configured model service, and prints the merged
record. Individual extraction failures degrade to empty fields; the
failed_targets list names any that did.

Examples:
  papermeta extract paper.pdf
  papermeta extract notes.md -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, services, err := newServices(cmd.Context())
		if err != nil {
			return err
		}
		logger := svcctx.LoggerFrom(ctx)

		content, err := ingest.ReadDocument(args[0])
		if err != nil {
			return err
		}

		jobID := extractJobID
		if jobID == "" {
			jobID = uuid.New().String()
		}
		logger.Info("starting metadata extraction",
			"file", args[0],
			"job_id", jobID)

		md := services.Orchestrator.ExtractAll(ctx, content, jobID, nil)

		return printResult(md)
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractJobID, "job-id", "", "job identifier for log correlation (default: random)")
}

// printResult writes a value to stdout in the selected output format.
func printResult(v any) error {
	return writeResult(os.Stdout, v)
}

func writeResult(w io.Writer, v any) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(v); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format: %s", outputFormat)
	}
}
