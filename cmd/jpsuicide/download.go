package main

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/download"
)

// downloadFlags are the flags shared by the download commands.
type downloadFlags struct {
	from, to string
	replace  bool
	saveDir  string
	rootURL  string
}

func (f *downloadFlags) period() (download.Period, error) {
	return download.ParsePeriod(f.from, f.to)
}

func addDownloadFlags(cmd *cobra.Command, sub, root string) *downloadFlags {
	f := &downloadFlags{}
	cmd.Flags().StringVar(&f.saveDir, "dir", filepath.Join(envDefault(envRaw, "raw"), sub), "Directory to save files to")
	cmd.Flags().StringVar(&f.from, "from", "", "First month to fetch (YYYY-MM)")
	cmd.Flags().StringVar(&f.to, "to", "", "Last month to fetch (YYYY-MM)")
	cmd.Flags().BoolVar(&f.replace, "replace", false, "Fetch again files that already exist")
	cmd.Flags().StringVar(&f.rootURL, "root-url", root, "Index page to start from")
	return f
}

func newDownloadMHLWCmd() *cobra.Command {
	var f *downloadFlags
	cmd := &cobra.Command{
		Use:   "download-mhlw",
		Short: "Download MHLW prompt files from e-Stat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := f.period()
			if err != nil {
				return err
			}
			got, err := download.NewClient().DownloadMHLW(cmd.Context(), f.rootURL, f.saveDir, period, f.replace)
			log.Infof("%d files downloaded to '%s'", len(got), f.saveDir)
			return err
		},
	}
	f = addDownloadFlags(cmd, "mhlw", download.MHLWRootURL)
	return cmd
}

func newDownloadNPACmd() *cobra.Command {
	var f *downloadFlags
	cmd := &cobra.Command{
		Use:   "download-npa",
		Short: "Download regional suicide data archives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := f.period()
			if err != nil {
				return err
			}
			got, err := download.NewClient().DownloadNPA(cmd.Context(), f.rootURL, f.saveDir, period, f.replace)
			log.Infof("%d files downloaded to '%s'", len(got), f.saveDir)
			return err
		},
	}
	f = addDownloadFlags(cmd, "npa", download.NPARootURL)
	return cmd
}
