package cmd

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"escola/internal/db"
	"escola/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the resolved file locations.
type Config struct {
	DBPath     string
	ConfigDir  string
	UploadsDir string
	PrefsPath  string
	LogPath    string
}

type app struct {
	dbPath     string
	uploadsDir string
	verbose    bool

	config *Config
	logger *zap.Logger
}

// Execute runs the escola command line.
func Execute(version string) error {
	// Load .env files first so env-based defaults work with flag parsing.
	loadDotEnv(".env")
	loadDotEnv(".env.local")

	root, a := newRoot(version)
	return a.finish(root.Execute())
}

// finish records a failed run and flushes the logger whatever the outcome.
func (a *app) finish(err error) error {
	if a.logger == nil {
		return err
	}
	if err != nil {
		a.logger.Error("command failed", zap.Error(err))
	}
	_ = a.logger.Sync()
	return err
}

func newRootCmd(version string) *cobra.Command {
	root, _ := newRoot(version)
	return root
}

func newRoot(version string) (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "escola",
		Short:   "Escola Colaço - administração escolar no terminal",
		Version: version,
		Long: `escola manages students, professors, subjects and news of Escola Colaço
from a keyboard-driven terminal interface backed by a local SQLite database.

Run without arguments to log in.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := resolveConfig(a.dbPath, a.uploadsDir)
			if err != nil {
				return err
			}
			a.config = config

			a.logger, err = newLogger(config.LogPath, a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", os.Getenv("ESCOLA_DB"), "Path to SQLite database file (default: ~/.escola/escola.db, or ESCOLA_DB)")
	rootCmd.PersistentFlags().StringVar(&a.uploadsDir, "uploads", os.Getenv("ESCOLA_UPLOADS"), "Directory with news images (default: <config dir>/uploads)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newSeedCmd(a))
	rootCmd.AddCommand(newStatsCmd(a))

	return rootCmd, a
}

func newSeedCmd(a *app) *cobra.Command {
	var adminPassword string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo school data into an empty database",
		Long: `Inserts the demo data: the admin account, two professors, three students,
four subjects with enrollments and three news items. Does nothing when the
database already has users.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := a.openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			inserted, err := db.Seed(database, adminPassword, a.logger)
			if err != nil {
				return err
			}
			if inserted {
				fmt.Fprintln(cmd.OutOrStdout(), "Dados de demonstração inseridos.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "O banco já possui usuários; nada foi inserido.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "Password for the admin account (default: admin123)")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print school statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := a.openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			stats, err := db.GetStats(database)
			if err != nil {
				return err
			}
			a.logger.Debug("stats computed", zap.Any("stats", stats))
			return json.NewEncoder(cmd.OutOrStdout()).Encode(stats)
		},
	}
}

func (a *app) openDB() (*sql.DB, error) {
	database, err := db.Open(a.config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func (a *app) runTUI() error {
	database, err := a.openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := a.ensureSetup(database); err != nil {
		return err
	}

	a.logger.Info("starting ui", zap.String("db", a.config.DBPath))
	p := tea.NewProgram(ui.New(database, a.logger, ui.Options{
		UploadsDir: a.config.UploadsDir,
		PrefsPath:  a.config.PrefsPath,
	}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

// ensureSetup runs the first-run setup when it has not completed yet and a
// terminal is attached.
func (a *app) ensureSetup(database *sql.DB) error {
	settings, err := loadSetupSettings(a.config.ConfigDir)
	if err != nil {
		return fmt.Errorf("failed to load setup settings: %w", err)
	}
	if !shouldRunSetup(settings) {
		return nil
	}

	result, err := runSetup()
	if err != nil {
		return fmt.Errorf("failed to run setup: %w", err)
	}
	if !result.settings.Completed {
		return nil
	}
	if err := applySetup(database, result, a.logger); err != nil {
		return err
	}
	return saveSetupSettings(a.config.ConfigDir, result.settings)
}

func resolveConfig(dbPath, uploadsDir string) (*Config, error) {
	config := &Config{DBPath: dbPath}

	if config.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		config.ConfigDir = filepath.Join(home, ".escola")
		config.DBPath = filepath.Join(config.ConfigDir, "escola.db")
	} else {
		config.ConfigDir = filepath.Dir(config.DBPath)
	}

	if err := os.MkdirAll(config.ConfigDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config.UploadsDir = uploadsDir
	if config.UploadsDir == "" {
		config.UploadsDir = filepath.Join(config.ConfigDir, "uploads")
	}
	config.PrefsPath = filepath.Join(config.ConfigDir, "ui_prefs.json")
	config.LogPath = filepath.Join(config.ConfigDir, "escola.log")
	return config, nil
}

// newLogger writes JSON lines to logPath. The terminal belongs to the UI.
func newLogger(logPath string, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = []string{logPath}
	config.ErrorOutputPaths = []string{logPath}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}

func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}
