package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sheetlens/adapters/excel"
	"sheetlens/adapters/insight"
	"sheetlens/adapters/memory"
	"sheetlens/app"
	"sheetlens/internal/analysis"
	"sheetlens/internal/config"
	"sheetlens/internal/logx"
	"sheetlens/ui"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetlens",
		Short: "Tabular dataset profiling, quality scoring, and correlation analysis",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newAggregateCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var withInsights bool

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a spreadsheet or CSV file and print the report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logx.NewDefaultLogger()
			reader := excel.NewReader(logger)

			ds, err := reader.Read(args[0])
			if err != nil {
				return err
			}

			svc := app.NewAnalysisService(logger)
			result, err := svc.Analyze(context.Background(), ds)
			if err != nil {
				return err
			}

			out := struct {
				*app.AnalysisResult
				Insights string `json:"insights,omitempty"`
			}{AnalysisResult: result}

			if withInsights {
				fallback := insight.NewHeuristicGenerator()
				insightSvc := app.NewInsightService(nil, fallback, 0, logger)
				out.Insights, _ = insightSvc.Summarize(context.Background(), result)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().BoolVar(&withInsights, "insights", false, "append deterministic insight text to the report")
	return cmd
}

func newAggregateCmd() *cobra.Command {
	var op string

	cmd := &cobra.Command{
		Use:   "aggregate [file] [group-by] [value-column]",
		Short: "Group rows by a column and reduce a numeric column",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logx.NewDefaultLogger()
			reader := excel.NewReader(logger)

			ds, err := reader.Read(args[0])
			if err != nil {
				return err
			}

			svc := app.NewAnalysisService(logger)
			buckets, err := svc.Aggregate(ds, args[1], args[2], analysis.AggregateOp(op))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(buckets)
		},
	}

	cmd.Flags().StringVar(&op, "op", string(analysis.OpSum), "aggregation op: sum, avg, count, min, max")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API with an in-memory dashboard store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logx.NewDefaultLogger()

			analysisSvc := app.NewAnalysisService(logger)
			insightSvc := app.NewInsightService(nil, insight.NewHeuristicGenerator(), cfg.Insight.Timeout, logger)

			httpApp := ui.NewApp(ui.Config{
				Port:           cfg.Server.Port,
				MaxUploadBytes: cfg.Data.MaxUploadBytes,
			}, analysisSvc, insightSvc, memory.NewDashboardStore(), excel.NewReader(logger), logger)

			return httpApp.Run(cfg.Server.Port)
		},
	}
}
