package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/project-tktt/empleos-bot/internal/config"
	"github.com/project-tktt/empleos-bot/internal/module/report"
	"github.com/spf13/cobra"
)

var (
	dataPath string
	outDir   string
)

var rootCmd = &cobra.Command{
	Use:   "report",
	Short: "report renders statistics and charts from the listing export.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	},
}

func init() {
	cfg := config.Load()
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", cfg.Paths.ExportCSV, "CSV export to read")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", ".", "directory for generated files")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func load() (*report.Report, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return report.Load(dataPath, outDir)
}

// chartCmd builds a subcommand that draws one file
func chartCmd(use, short string, draw func(*report.Report) error, file string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := load()
			if err != nil {
				return err
			}
			if err := draw(r); err != nil {
				return err
			}
			log.Printf("[Report] Wrote %s", file)
			return nil
		},
	}
}
