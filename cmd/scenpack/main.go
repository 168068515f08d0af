// Package main provides the CLI entry point for scenpack.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/svandenberg/scenpack/pkg/scenpack"
	"github.com/svandenberg/scenpack/pkg/scenpack/scenario"
)

var (
	sessionPath string
	outPath     string
	curvesDir   string
	quiet       bool
	verbose     bool

	withSortables bool
	withCurves    bool
	withQueries   bool
	withDefaults  bool
	withBounds    bool
	carriers      []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scenpack",
		Short: "Exchange scenario sets with multi-sheet workbooks",
		Long: `scenpack packs a set of scenarios into a multi-sheet xlsx workbook
and unpacks such workbooks back into scenarios.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&sessionPath, "session", "s", "session.yml", "Session file describing the scenarios")
	rootCmd.PersistentFlags().StringVar(&curvesDir, "curves-dir", "", "Directory holding per-scenario curve csv files")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress log output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug log output")

	exportCmd := &cobra.Command{
		Use:   "export [workbook.xlsx]",
		Short: "Write the session's scenarios to a workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().BoolVar(&withSortables, "sortables", false, "Include per-scenario sortables sheets")
	exportCmd.Flags().BoolVar(&withCurves, "custom-curves", false, "Include per-scenario custom curve sheets")
	exportCmd.Flags().BoolVar(&withQueries, "gqueries", false, "Include the gquery sheets")
	exportCmd.Flags().BoolVar(&withDefaults, "defaults", false, "Add default value columns to the inputs sheet")
	exportCmd.Flags().BoolVar(&withBounds, "bounds", false, "Add the min/max block to the inputs sheet")
	exportCmd.Flags().StringSliceVar(&carriers, "carriers", nil, "Output curve carriers for the companion workbook")

	importCmd := &cobra.Command{
		Use:   "import [workbook.xlsx]",
		Short: "Read a workbook back into the session's scenarios",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
	importCmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the updated session here (default: in place)")

	rootCmd.AddCommand(exportCmd, importCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

func exportOptions(cmd *cobra.Command) *scenpack.ExportOptions {
	opts := &scenpack.ExportOptions{}
	if cmd.Flags().Changed("sortables") {
		opts.Sortables = scenario.Bool(withSortables)
	}
	if cmd.Flags().Changed("custom-curves") {
		opts.CustomCurves = scenario.Bool(withCurves)
	}
	if cmd.Flags().Changed("gqueries") {
		opts.Queries = scenario.Bool(withQueries)
	}
	if cmd.Flags().Changed("defaults") {
		opts.Defaults = scenario.Bool(withDefaults)
	}
	if cmd.Flags().Changed("bounds") {
		opts.Bounds = scenario.Bool(withBounds)
	}
	if cmd.Flags().Changed("carriers") {
		opts.Carriers = carriers
	}
	return opts
}

func runExport(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	session, err := loadSession(sessionPath)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	scenarios, err := session.scenarios(curvesDir)
	if err != nil {
		return err
	}

	p := scenpack.NewPacker(log)
	p.Add(scenarios...)
	if err := p.Export(args[0], exportOptions(cmd)); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	log.Info("workbook written", zap.String("path", args[0]), zap.Int("scenarios", p.Len()))
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	session, err := loadSession(sessionPath)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	scenarios, err := session.scenarios(curvesDir)
	if err != nil {
		return err
	}
	svc := scenario.NewMemoryService(scenarios...)

	p, err := scenpack.Import(context.Background(), args[0], svc, nil, log)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	log.Info("workbook read", zap.String("path", args[0]), zap.Int("scenarios", p.Len()))

	target := outPath
	if target == "" {
		target = sessionPath
	}
	if err := sessionFromScenarios(svc.All()).save(target); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	log.Info("session written", zap.String("path", target))
	return nil
}
