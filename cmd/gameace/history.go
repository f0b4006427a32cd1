package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chlorine05/GameAceSelection/internal/config"
	"github.com/chlorine05/GameAceSelection/internal/logging"
	"github.com/chlorine05/GameAceSelection/internal/model"
	"github.com/chlorine05/GameAceSelection/internal/quiz"
	"github.com/chlorine05/GameAceSelection/internal/stats"
	"github.com/chlorine05/GameAceSelection/internal/statsui"
	"github.com/chlorine05/GameAceSelection/internal/store"
)

// historyFlags are the filters shared by stats and export.
type historyFlags struct {
	mode        string
	since       string
	last        int
	curveWindow int
}

func (f *historyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", "", "mode filter")
	cmd.Flags().StringVar(&f.since, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.last, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&f.curveWindow, "curve-window", defaultCurveWindow, "moving average window")
}

func (f *historyFlags) statsConfig() (model.StatsConfig, error) {
	cfg := model.StatsConfig{
		Last:        f.last,
		CurveWindow: f.curveWindow,
	}
	if f.mode != "" {
		mode, err := quiz.ParseMode(f.mode)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --mode: %w", err)
		}
		cfg.Mode = string(mode)
	}
	since, err := parseSince(f.since)
	if err != nil {
		return model.StatsConfig{}, err
	}
	cfg.Since = since
	if cfg.Last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if cfg.CurveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	return cfg, nil
}

func parseSince(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --since value: %w", err)
	}
	return &parsed, nil
}

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List difficulty modes",
		Args:  cobra.NoArgs,
		RunE:  runModesCmd,
	}
}

func runModesCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	rules, err := config.BuildRules(model.Config{}, fileCfg)
	if err != nil {
		return err
	}
	return renderModes(cmd.OutOrStdout(), rules)
}

func renderModes(w io.Writer, rules quiz.Rules) error {
	headers := []string{"Mode", "Questions", "Reward", "A", "B", "C"}
	rows := make([][]string, 0, len(quiz.Modes()))
	for _, mode := range quiz.Modes() {
		round, ok := rules.Round(mode)
		if !ok {
			continue
		}
		rows = append(rows, []string{
			string(mode),
			fmt.Sprintf("%d", round.QuestionCount),
			fmt.Sprintf("%d", round.RewardPerCorrect),
			formatRange(round.A),
			formatRange(round.B),
			formatRange(round.C),
		})
	}
	if err := stats.RenderTable(w, headers, rows, map[int]bool{1: true, 2: true}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func formatRange(r quiz.Range) string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

func newStatsCmd() *cobra.Command {
	var (
		flags historyFlags
		plain bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.statsConfig()
			if err != nil {
				return err
			}
			if plain {
				return runPlainStats(cmd.Context(), cmd.OutOrStdout(), cfg)
			}
			return runStatsUI(cfg)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runPlainStats(ctx context.Context, w io.Writer, cfg model.StatsConfig) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return err
	}
	if err := stats.RenderReport(w, report, cfg.CurveWindow); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runStatsUI(cfg model.StatsConfig) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	restore, err := logging.ToFile(config.DefaultLogPath(), logLevel)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer restore()

	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	var (
		flags  historyFlags
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export session history as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.statsConfig()
			if err != nil {
				return err
			}
			return runExport(cmd.Context(), cmd.OutOrStdout(), cfg, format, out)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "json", "output format (json, yaml)")
	cmd.Flags().StringVar(&out, "out", "", "output file (default: stdout)")
	return cmd
}

func runExport(ctx context.Context, stdout io.Writer, cfg model.StatsConfig, format, out string) error {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "json", "yaml", "yml":
	default:
		return fmt.Errorf("unsupported --format %q (use json or yaml)", format)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	export, err := stats.BuildExport(ctx, st, cfg, time.Now())
	if err != nil {
		return err
	}

	if out == "" {
		return stats.WriteExport(stdout, export, format)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := stats.WriteExport(f, export, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", out, err)
	}
	log.Info().Str("path", out).Int("sessions", len(export.Sessions)).Msg("exported history")
	return nil
}
