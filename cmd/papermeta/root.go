package main

import (
	"github.com/spf13/cobra"

	"github.com/openpaper/papermeta/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "papermeta",
	Short: "LLM-powered metadata extraction for academic papers",
	Long: `Papermeta extracts structured bibliographic and semantic metadata from
academic papers using a language model service.

Five independent extractions run concurrently over the same document:
  - Title, authors, abstract and publish date
  - Institutions and keywords
  - Summary with supporting citations
  - Starter questions
  - Highlights

Failed extractions degrade to typed defaults instead of failing the run.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.papermeta/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(captionCmd)
	rootCmd.AddCommand(initCmd)
}
