// Package main provides the CLI entry point for jpsuicide.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/output"
)

// Environment variables supplying flag defaults. A .env file in the
// working directory is read first.
const (
	envDB  = "JPSUICIDE_DB"
	envOut = "JPSUICIDE_OUT"
	envRaw = "JPSUICIDE_RAW"
)

var verbose bool

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jpsuicide",
		Short: "Normalize Japanese suicide statistics spreadsheets",
		Long: `jpsuicide converts MHLW vital statistics and NPA-based regional suicide
releases into long-format CSV tables, loads them into SQLite and fetches
new releases.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.LevelDebug)
			} else {
				log.SetLevel(log.LevelInfo)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newParseMHLWCmd(),
		newParseNPACmd(),
		newInspectCmd(),
		newLoadMHLWCmd(),
		newLoadNPACmd(),
		newExportCmd(),
		newDownloadMHLWCmd(),
		newDownloadNPACmd(),
	)
	return rootCmd
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// batchFlags are the flags shared by the parse commands.
type batchFlags struct {
	outDir string
	opts   suicidedata.Options
}

func addBatchFlags(cmd *cobra.Command, defaultOut string) *batchFlags {
	f := &batchFlags{opts: suicidedata.DefaultOptions()}
	cmd.Flags().StringVarP(&f.outDir, "out", "o", defaultOut, "Output directory")
	cmd.Flags().BoolVar(&f.opts.SkipErrors, "skip-errors", false, "Log failing files and continue")
	cmd.Flags().BoolVarP(&f.opts.Recursive, "recursive", "r", false, "Search input directories recursively")
	return f
}

func newParseMHLWCmd() *cobra.Command {
	var f *batchFlags
	cmd := &cobra.Command{
		Use:   "parse-mhlw [files or dirs...]",
		Short: "Parse MHLW prompt files into CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := suicidedata.CollectFiles(args, f.opts.FileExtensions(suicidedata.SourceMHLW), f.opts.Recursive)
			if err != nil {
				return err
			}
			written, err := suicidedata.ParseMortalityFiles(files, f.outDir, f.opts)
			log.Infof("%d files written to '%s'", len(written), f.outDir)
			return err
		},
	}
	f = addBatchFlags(cmd, filepath.Join(envDefault(envOut, "out"), "mhlw"))
	return cmd
}

func newParseNPACmd() *cobra.Command {
	var f *batchFlags
	cmd := &cobra.Command{
		Use:   "parse-npa [zips or dirs...]",
		Short: "Parse NPA-based ZIP archives into per-table CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := suicidedata.CollectFiles(args, f.opts.FileExtensions(suicidedata.SourceNPA), f.opts.Recursive)
			if err != nil {
				return err
			}
			written, err := suicidedata.ParseArchives(files, f.outDir, f.opts)
			log.Infof("%d files written to '%s'", len(written), f.outDir)
			return err
		},
	}
	f = addBatchFlags(cmd, filepath.Join(envDefault(envOut, "out"), "npa"))
	return cmd
}

func newInspectCmd() *cobra.Command {
	var (
		pretty     bool
		source     string
		outputPath string
	)
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the detected layout anchors of a file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", args[0])
			}
			var src suicidedata.Source
			switch source {
			case string(suicidedata.SourceMHLW), string(suicidedata.SourceNPA):
				src = suicidedata.Source(source)
			default:
				return fmt.Errorf("invalid source: %s (must be mhlw or npa)", source)
			}

			report, err := suicidedata.Inspect(args[0], src)
			if err != nil {
				return fmt.Errorf("inspection failed: %w", err)
			}
			jsonData, err := output.ToJSON(report, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			if outputPath != "" {
				if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				return nil
			}
			fmt.Println(string(jsonData))
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", string(suicidedata.SourceMHLW), "Layout to detect: mhlw, npa")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}
