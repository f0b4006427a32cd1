// Package main provides the CLI entrypoint for gameace.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chlorine05/GameAceSelection/internal/config"
	"github.com/chlorine05/GameAceSelection/internal/cue"
	"github.com/chlorine05/GameAceSelection/internal/logging"
	"github.com/chlorine05/GameAceSelection/internal/model"
	"github.com/chlorine05/GameAceSelection/internal/quiz"
	"github.com/chlorine05/GameAceSelection/internal/store"
	"github.com/chlorine05/GameAceSelection/internal/tui"
)

const (
	defaultMode            = string(quiz.Easy)
	defaultSessionMinutes  = 10
	defaultQuestionSeconds = 60
	defaultCurveWindow     = 10
)

var (
	playMode            string
	playSessionMinutes  int
	playQuestionSeconds int
	playSound           bool
	playSeed            int64

	logLevel = zerolog.InfoLevel
)

func main() {
	setupLogging()
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	envErr := config.LoadEnv()
	level, levelErr := logging.ParseLevel(os.Getenv(config.EnvLogLevel))
	logLevel = level
	logging.Console(os.Stderr, logLevel)
	if envErr != nil {
		log.Warn().Err(envErr).Msg("failed to load .env")
	}
	if levelErr != nil {
		log.Warn().Err(levelErr).Msg("falling back to info level")
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gameace",
		Short:         "TUI arithmetic quiz",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playMode, "mode", defaultMode, "difficulty mode (easy, medium, hard)")
	rootCmd.Flags().IntVar(&playSessionMinutes, "session-minutes", defaultSessionMinutes, "session time budget in minutes")
	rootCmd.Flags().IntVar(&playQuestionSeconds, "question-seconds", defaultQuestionSeconds, "per-question time budget in seconds")
	rootCmd.Flags().BoolVar(&playSound, "sound", true, "ring the terminal bell on cues")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "question generator seed (0 = random)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newModesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyPlayConfig(cmd, fileCfg.Play)

	cfg := model.Config{
		Mode:            playMode,
		SessionMinutes:  playSessionMinutes,
		QuestionSeconds: playQuestionSeconds,
		Sound:           playSound,
		Seed:            playSeed,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	mode, err := quiz.ParseMode(cfg.Mode)
	if err != nil {
		return fmt.Errorf("invalid --mode: %w", err)
	}
	rules, err := config.BuildRules(cfg, fileCfg)
	if err != nil {
		return err
	}

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
	log.Info().Str("mode", string(mode)).Int64("seed", cfg.Seed).Msg("starting quiz")

	m := tui.NewModel(rules, mode, newSource(cfg.Seed), cue.New(cfg.Sound, os.Stderr), st, tui.WithLogger(log.Logger))
	program := tea.NewProgram(m, tea.WithAltScreen())
	m.Attach(program.Send)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newSource(seed int64) quiz.QuestionSource {
	if seed != 0 {
		return quiz.NewSeededGenerator(seed)
	}
	return quiz.NewGenerator()
}

func applyPlayConfig(cmd *cobra.Command, file config.PlayConfig) {
	applyConfig(cmd, "mode", &playMode, file.Mode)
	applyConfig(cmd, "session-minutes", &playSessionMinutes, file.SessionMinutes)
	applyConfig(cmd, "question-seconds", &playQuestionSeconds, file.QuestionSeconds)
	applyConfig(cmd, "sound", &playSound, file.Sound)
	applyConfig(cmd, "seed", &playSeed, file.Seed)
}

// applyConfig copies a file value into target unless the flag was set.
func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config) error {
	if cfg.SessionMinutes <= 0 {
		return fmt.Errorf("--session-minutes must be > 0")
	}
	if cfg.QuestionSeconds <= 0 {
		return fmt.Errorf("--question-seconds must be > 0")
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the template unless a config already exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	log.Info().Str("path", path).Msg("created config")
	return nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close db")
	}
}
