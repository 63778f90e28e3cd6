package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/spreport/internal/report"
	"github.com/tonimelisma/spreport/internal/tree"
)

func newReportCmd() *cobra.Command {
	tf := &targetFlags{}

	cmd := &cobra.Command{
		Use:   "report <url>",
		Short: "Write a report of every file below a library folder",
		Long: `Signs in, walks the folder depth-first and writes one row per file.

URL is a site, library or folder address such as
https://yourdomain.sharepoint.com/sites/siteName/libraryName/folderName.
A site address uses the "Shared Documents" library.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args[0], tf)
		},
	}

	addTargetFlags(cmd, tf, true)
	cmd.Flags().VarP(newDepthValue(tree.UnlimitedDepth), "max-depth", "d",
		"maximal traversal depth, >= 0 or -1/unlimited")
	cmd.Flags().StringP("output", "o", "", "output file, - for stdout (csv only)")
	cmd.Flags().StringP("format", "f", "", "report format: xlsx, csv or sqlite")

	return cmd
}

func runReport(cmd *cobra.Command, arg string, tf *targetFlags) error {
	cc := mustCLIContext(cmd.Context())
	ctx, cancel := commandContext(cmd.Context(), cc.Logger)
	defer cancel()
	rc := cc.Cfg.Report

	format, err := report.ParseFormat(rc.Format)
	if err != nil {
		return err
	}

	writer, err := report.NewWriter(format, rc.Output, cc.Logger)
	if err != nil {
		return err
	}

	target, err := openTarget(ctx, cc, arg, tf)
	if err != nil {
		return err
	}

	collector, err := report.NewCollector(target.Provider, report.CollectorOptions{
		OfficeExtensions: rc.OfficeExtensions,
		SkipPatterns:     rc.SkipFiles,
	}, cc.Logger)
	if err != nil {
		return err
	}

	cc.Logger.Info("walking",
		slog.String("root", target.Root),
		slog.Int("max_depth", rc.MaxDepth),
	)

	started := time.Now()

	if err := tree.Walk(ctx, target.Provider, target.Root, rc.MaxDepth, collector); err != nil {
		return fmt.Errorf("walking %s: %w", target.Root, err)
	}

	r := &report.Report{
		Root:     target.Root,
		MaxDepth: rc.MaxDepth,
		Started:  started,
		Finished: time.Now(),
		Rows:     collector.Rows(),
		Stats:    collector.Stats(),
	}

	if err := writer.Write(ctx, r); err != nil {
		return err
	}

	output := rc.Output
	if output == "" {
		output = format.DefaultOutput()
	}

	cc.Logger.Info("report finished",
		slog.Int("folders", r.Stats.Folders),
		slog.Int("files", r.Stats.Files),
		slog.Int("skipped", r.Stats.Skipped),
		slog.Duration("elapsed", r.Finished.Sub(started)),
	)

	if output != "-" {
		cc.Statusf("Reported %d files in %d folders to %s\n", len(r.Rows), r.Stats.Folders, output)
	}

	return nil
}
