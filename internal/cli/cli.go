package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/vectorgrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Flags given explicitly win over values from the -config file, which win
// over the defaults.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("vectorgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
vectorgrid - Computes vector embeddings for JSON records from a declarative graph.

Usage:
  vectorgrid [options] [GRAPH_PATH]

Arguments:
  GRAPH_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	defaults := app.DefaultConfig()
	var (
		flags      app.Config
		indexes    string
		configPath string
	)
	flagSet.StringVar(&flags.GraphPath, "graph", "", "Path to the graph definition file or directory.")
	flagSet.StringVar(&flags.GraphPath, "g", "", "Path to the graph definition file or directory (shorthand).")
	flagSet.StringVar(&flags.RecordsPath, "records", defaults.RecordsPath, "JSON-lines records to evaluate. '-' reads stdin.")
	flagSet.StringVar(&indexes, "index", "", "Comma-separated indexes to evaluate. Empty evaluates all.")
	flagSet.IntVar(&flags.BatchSize, "batch-size", defaults.BatchSize, "Records evaluated per call.")
	flagSet.StringVar(&flags.Store, "store", defaults.Store, "Result store. Options: 'memory' or 'sqlite'.")
	flagSet.StringVar(&flags.StorePath, "store-path", "", "Database file of the sqlite store.")
	flagSet.StringVar(&flags.StorePrecision, "store-precision", "float64", "Stored vector precision. Options: 'float64' or 'float16'.")
	flagSet.StringVar(&configPath, "config", "", "Optional YAML configuration file.")
	flagSet.StringVar(&flags.LogFormat, "log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	flagSet.StringVar(&flags.LogLevel, "log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flagSet.IntVar(&flags.MetricsPort, "metrics-port", 0, "Port for the /health and /metrics HTTP server. 0 is disabled.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	cfg := defaults
	if configPath != "" {
		if err := app.LoadConfigFile(configPath, &cfg); err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		slog.Debug("Config file loaded.", "path", configPath)
	}

	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "graph", "g":
			cfg.GraphPath = flags.GraphPath
		case "records":
			cfg.RecordsPath = flags.RecordsPath
		case "index":
			cfg.Indexes = splitList(indexes)
		case "batch-size":
			cfg.BatchSize = flags.BatchSize
		case "store":
			cfg.Store = flags.Store
		case "store-path":
			cfg.StorePath = flags.StorePath
		case "store-precision":
			cfg.StorePrecision = flags.StorePrecision
		case "log-format":
			cfg.LogFormat = strings.ToLower(flags.LogFormat)
		case "log-level":
			cfg.LogLevel = strings.ToLower(flags.LogLevel)
		case "metrics-port":
			cfg.MetricsPort = flags.MetricsPort
		}
	})
	if cfg.GraphPath == "" && flagSet.NArg() > 0 {
		cfg.GraphPath = flagSet.Arg(0)
	}
	slog.Debug("Graph path determined.", "path", cfg.GraphPath)

	if cfg.GraphPath == "" {
		slog.Debug("No graph path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
