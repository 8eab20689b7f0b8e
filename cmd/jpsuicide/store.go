package main

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/store"
)

func addDBFlag(cmd *cobra.Command, dbPath *string) {
	cmd.Flags().StringVar(dbPath, "db", envDefault(envDB, "jpsuicide.db"), "SQLite database file")
}

func newLoadMHLWCmd() *cobra.Command {
	var dbPath, tableName string
	cmd := &cobra.Command{
		Use:   "load-mhlw [csv dir]",
		Short: "Load parsed MHLW CSV files into SQLite",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			csvDir := filepath.Join(envDefault(envOut, "out"), "mhlw")
			if len(args) > 0 {
				csvDir = args[0]
			}
			n, err := store.LoadMortality(dbPath, csvDir, tableName)
			if err != nil {
				return err
			}
			log.Infof("%d rows loaded into %s.%s", n, dbPath, tableName)
			return nil
		},
	}
	addDBFlag(cmd, &dbPath)
	cmd.Flags().StringVar(&tableName, "table", store.DefaultMortalityTable, "Destination table")
	return cmd
}

func newLoadNPACmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "load-npa [csv dir]",
		Short: "Load parsed NPA tables into a fresh SQLite database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			csvDir := filepath.Join(envDefault(envOut, "out"), "npa")
			if len(args) > 0 {
				csvDir = args[0]
			}
			tables, err := store.LoadSuicide(dbPath, csvDir)
			if err != nil {
				return err
			}
			log.Infof("Tables loaded into %s: %v", dbPath, tables)
			return nil
		},
	}
	addDBFlag(cmd, &dbPath)
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		dbPath   string
		skipped  []string
		compress bool
	)
	cmd := &cobra.Command{
		Use:   "export [out dir]",
		Short: "Export every table of a SQLite database to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := store.ExportCSVs(dbPath, args[0], skipped, compress)
			if err != nil {
				return err
			}
			log.Infof("%d tables exported to '%s'", len(written), args[0])
			return nil
		},
	}
	addDBFlag(cmd, &dbPath)
	cmd.Flags().StringSliceVar(&skipped, "skip", nil, "Tables to leave out")
	cmd.Flags().BoolVar(&compress, "gzip", false, "Write gzip-compressed files")
	return cmd
}
