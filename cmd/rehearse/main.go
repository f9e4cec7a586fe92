package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rehearse/internal/bootstrap"
	analyzerdto "rehearse/internal/modules/analyzer/dto"
	"rehearse/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var homePath string

	root := &cobra.Command{
		Use:           "rehearse",
		Short:         "Audio-reactive interview rehearsal coach",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	defaultHome, err := os.UserHomeDir()
	if err != nil {
		defaultHome = "."
	}
	root.PersistentFlags().StringVar(&homePath, "home", defaultHome, "directory holding .rehearse state")

	root.AddCommand(newTUICmd(&homePath))
	root.AddCommand(newSessionCmd(&homePath))
	root.AddCommand(newStatsCmd(&homePath))
	root.AddCommand(newAnalyzeCmd(&homePath))
	return root
}

func loadApp(homePath string) (*bootstrap.App, error) {
	cfg, err := config.New(homePath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(homePath *string) *cobra.Command {
	var seed int64
	tui := &cobra.Command{
		Use:   "tui",
		Short: "Run the rehearsal terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.New(*homePath)
			if err != nil {
				return err
			}
			if seed != 0 {
				cfg.Seed = seed
			}
			app, err := bootstrap.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(app)
		},
	}
	tui.Flags().Int64Var(&seed, "seed", 0, "fix the glyph field seed for reproducible rain")
	return tui
}

func newSessionCmd(homePath *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Inspect and manage recorded sessions"}

	session.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recorded sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*homePath)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			sessions, err := app.Session.List(context.Background())
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range sessions {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\tscore=%.0f\tq=%d\n",
					s.ID, s.Company, s.Mode, s.Status, s.Score, s.QuestionCount)
			}
			return nil
		},
	})

	var sessionID string
	show := &cobra.Command{
		Use:   "show --id <id>",
		Short: "Show one session in full",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(sessionID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(*homePath)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			s, err := app.Session.Get(context.Background(), sessionID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "id: %s\ncompany: %s\ndifficulty: %s\nmode: %s\nstatus: %s\n", s.ID, s.Company, s.Difficulty, s.Mode, s.Status)
			_, _ = fmt.Fprintf(out, "started: %s\n", s.StartedAt.Format(time.RFC3339))
			if !s.EndedAt.IsZero() {
				_, _ = fmt.Fprintf(out, "ended: %s\nduration: %s\n", s.EndedAt.Format(time.RFC3339), s.Duration.Round(time.Second))
			}
			_, _ = fmt.Fprintf(out, "score: %.1f\nreadiness gain: %.1f\n", s.Score, s.ReadinessGain)
			for _, q := range s.Questions {
				_, _ = fmt.Fprintf(out, "Q%d: %s\n", q.Index+1, q.Text)
			}
			for i, a := range s.Answers {
				_, _ = fmt.Fprintf(out, "A%d (quality %.2f): %s\n", i+1, a.Quality, a.Text)
			}
			return nil
		},
	}
	show.Flags().StringVar(&sessionID, "id", "", "session id")
	session.AddCommand(show)

	var deleteID string
	deleteCmd := &cobra.Command{
		Use:   "delete --id <id>",
		Short: "Delete a recorded session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(deleteID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(*homePath)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if err := app.Session.Delete(context.Background(), deleteID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", deleteID)
			return nil
		},
	}
	deleteCmd.Flags().StringVar(&deleteID, "id", "", "session id")
	session.AddCommand(deleteCmd)

	var exportPath string
	export := &cobra.Command{
		Use:   "export [--out <file>]",
		Short: "Export all sessions and readiness as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*homePath)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			blob, err := app.Session.Export(context.Background())
			if err != nil {
				return err
			}
			if exportPath == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(blob))
				return nil
			}
			if err := os.WriteFile(exportPath, blob, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", exportPath)
			return nil
		},
	}
	export.Flags().StringVar(&exportPath, "out", "", "destination file (stdout when omitted)")
	session.AddCommand(export)

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import sessions from an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			app, err := loadApp(*homePath)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			added, err := app.Session.Import(context.Background(), blob)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d new sessions\n", added)
			return nil
		},
	}
	session.AddCommand(importCmd)

	return session
}

func newStatsCmd(homePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate practice statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*homePath)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			stats, err := app.Session.Stats(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "completed: %d\naverage score: %.1f\nbest score: %.1f\n", stats.TotalInterviews, stats.AverageScore, stats.BestScore)
			_, _ = fmt.Fprintf(out, "practice time: %s\nreadiness: %.1f\nreadiness gained: %.1f\n", stats.TotalDuration.Round(time.Minute), stats.Readiness, stats.ReadinessGainSum)
			if len(stats.Companies) > 0 {
				_, _ = fmt.Fprintf(out, "companies: %s\n", strings.Join(stats.Companies, ", "))
			}
			if len(stats.RecentTrend) > 0 {
				parts := make([]string, len(stats.RecentTrend))
				for i, score := range stats.RecentTrend {
					parts[i] = fmt.Sprintf("%.0f", score)
				}
				_, _ = fmt.Fprintf(out, "recent trend: %s\n", strings.Join(parts, " "))
			}
			return nil
		},
	}
}

func newAnalyzeCmd(homePath *string) *cobra.Command {
	var durationMS int
	analyze := &cobra.Command{
		Use:   "analyze <answer text>",
		Short: "Score one answer without a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*homePath)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			result, err := app.Analyzer.AnalyzeAnswer(context.Background(), analyzerdto.AnalyzeInput{
				Text:       args[0],
				DurationMS: durationMS,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "score: %.0f\n", result.Score)
			_, _ = fmt.Fprintf(out, "metrics: confidence=%.2f clarity=%.2f structure=%.2f hesitation=%.2f pace=%.0fwpm\n",
				result.Metrics.Confidence, result.Metrics.Clarity, result.Metrics.Structure, result.Metrics.Hesitation, result.Metrics.PaceWPM)
			for _, item := range result.Feedback {
				_, _ = fmt.Fprintf(out, "[%s/%d] %s", item.Type, item.Severity, item.Message)
				if item.Suggestion != "" {
					_, _ = fmt.Fprintf(out, " (%s)", item.Suggestion)
				}
				_, _ = fmt.Fprintln(out)
			}
			return nil
		},
	}
	analyze.Flags().IntVar(&durationMS, "duration-ms", 0, "spoken duration in milliseconds, for pace")
	return analyze
}
