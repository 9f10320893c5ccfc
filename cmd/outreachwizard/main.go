package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/leadpilot/outreachwizard/internal/api"
	"github.com/leadpilot/outreachwizard/internal/classify"
	"github.com/leadpilot/outreachwizard/internal/store"
	"github.com/leadpilot/outreachwizard/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for wizard state data
	DefaultStateDir = "/var/lib/outreachwizard"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "outreachwizard.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()

	flags := parseCommandLineFlags(config)

	if err := ensureDirectoriesExist(flags); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	storeOpts := buildStoreOptions(flags)
	classifyOpts := buildClassifierOptions(flags)
	apiOpts := buildAPIOptions(flags)

	slog.Info("Bootstrapping onboarding wizard with configured modules")
	slog.Debug("Module options counts", "store", len(storeOpts), "classify", len(classifyOpts), "api", len(apiOpts))
	slog.Debug("Final configuration", "state_dir", *flags.stateDir, "dsn_set", *flags.dbDSN != "", "api_addr", *flags.apiAddr)
	if err := api.Run(storeOpts, classifyOpts, apiOpts); err != nil {
		slog.Error("Onboarding wizard failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("Onboarding wizard exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL       string
	StateDir          string
	OpenAIKey         string
	ClassifierModel   string
	ClassifierTimeout time.Duration
	APIAddr           string
}

// Flags holds command line flag values
type Flags struct {
	stateDir          *string
	dbDSN             *string
	openaiKey         *string
	classifierModel   *string
	apiAddr           *string
	classifierTimeout time.Duration
}

// initializeLogger sets up structured logging; debug level is opt-in.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("WIZARD_DEBUG_LOGS", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		StateDir:          os.Getenv("WIZARD_STATE_DIR"),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		ClassifierModel:   os.Getenv("CLASSIFIER_MODEL"),
		ClassifierTimeout: util.ParseDurationEnv("CLASSIFIER_TIMEOUT", classify.DefaultTimeout),
		APIAddr:           os.Getenv("API_ADDR"),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No WIZARD_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}

	// Without a database URL, default to SQLite in the state directory.
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"WIZARD_STATE_DIR", config.StateDir,
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"CLASSIFIER_MODEL", config.ClassifierModel,
		"CLASSIFIER_TIMEOUT", config.ClassifierTimeout,
		"API_ADDR", config.APIAddr)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:          flag.String("state-dir", config.StateDir, "state directory for wizard data (overrides $WIZARD_STATE_DIR)"),
		dbDSN:             flag.String("db-dsn", config.DatabaseURL, "database DSN for the conversation store (overrides $DATABASE_URL)"),
		openaiKey:         flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		classifierModel:   flag.String("classifier-model", config.ClassifierModel, "chat model for answer classification (overrides $CLASSIFIER_MODEL)"),
		apiAddr:           flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		classifierTimeout: config.ClassifierTimeout,
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"openaiKeySet", *flags.openaiKey != "",
		"classifierModel", *flags.classifierModel,
		"apiAddr", *flags.apiAddr)

	// Follow a moved state directory when the DSN was the derived default.
	if *flags.dbDSN == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated dbDSN based on state directory", "new_state_dir", *flags.stateDir)
	}

	return flags
}

// ensureDirectoriesExist creates necessary directories for file-based storage
func ensureDirectoriesExist(flags Flags) error {
	if store.DetectDSNType(*flags.dbDSN) != "postgres" {
		stateDir := filepath.Dir(*flags.dbDSN)
		slog.Debug("Creating state directory for file-based database", "state_dir", stateDir)
		if err := os.MkdirAll(stateDir, 0755); err != nil {
			slog.Error("Failed to create state directory", "error", err, "state_dir", stateDir)
			return err
		}
	}
	return nil
}

// buildStoreOptions constructs store configuration options
func buildStoreOptions(flags Flags) []store.Option {
	var storeOpts []store.Option
	if *flags.dbDSN != "" {
		if store.DetectDSNType(*flags.dbDSN) == "postgres" {
			slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store")
			storeOpts = append(storeOpts, store.WithPostgresDSN(*flags.dbDSN))
		} else {
			slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", *flags.dbDSN)
			storeOpts = append(storeOpts, store.WithSQLiteDSN(*flags.dbDSN))
		}
	} else {
		slog.Debug("No database DSN provided, will use in-memory store")
	}
	return storeOpts
}

// buildClassifierOptions constructs classifier configuration options
func buildClassifierOptions(flags Flags) []classify.Option {
	var classifyOpts []classify.Option
	if *flags.openaiKey != "" {
		classifyOpts = append(classifyOpts, classify.WithAPIKey(*flags.openaiKey))
	}
	if *flags.classifierModel != "" {
		classifyOpts = append(classifyOpts, classify.WithModel(*flags.classifierModel))
	}
	if flags.classifierTimeout > 0 {
		classifyOpts = append(classifyOpts, classify.WithTimeout(flags.classifierTimeout))
	}
	return classifyOpts
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	return apiOpts
}
