package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath      string
	LogLevel        string
	LogFormat       string
	Input           string
	Normalize       string
	Serve           bool
	Validate        bool
	ShutdownTimeout time.Duration
	ShowVersion     bool
	ShowHelp        bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("RUBRO_CONFIG", ""),
		"Path to configuration file, empty for defaults (env: RUBRO_CONFIG)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("RUBRO_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: RUBRO_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("RUBRO_LOG_FORMAT", "json"),
		"Log format: json, text (env: RUBRO_LOG_FORMAT)")

	flag.StringVar(&cfg.Input, "input", "",
		"Records file (JSON lines) to resolve and aggregate")

	flag.StringVar(&cfg.Normalize, "normalize", "",
		"Normalize a single raw identifier and exit (backfill helper)")

	flag.BoolVar(&cfg.Serve, "serve", false,
		"Run as a service exposing health and metrics endpoints")

	flag.BoolVar(&cfg.Validate, "validate", false,
		"Validate configuration and taxonomy dataset, then exit")

	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("RUBRO_SHUTDOWN_TIMEOUT", 30*time.Second),
		"Graceful shutdown timeout (env: RUBRO_SHUTDOWN_TIMEOUT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version and exit")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help and exit")

	flag.Parse()
	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	if cfg.Serve && cfg.Input != "" {
		return fmt.Errorf("-serve and -input are mutually exclusive")
	}
	return nil
}

func printHelp() {
	fmt.Printf("%s - canonical rubro taxonomy resolution\n\n", appName)
	fmt.Printf("Usage:\n")
	fmt.Printf("  %s [flags]                      resolve stdin records, print resolutions\n", appName)
	fmt.Printf("  %s -input records.jsonl         resolve a records file and print totals\n", appName)
	fmt.Printf("  %s -normalize 'A#B#MOD-LEAD'    print the normalized lookup token\n", appName)
	fmt.Printf("  %s -serve                       run with health and metrics endpoints\n\n", appName)
	fmt.Printf("Flags:\n")
	flag.PrintDefaults()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
