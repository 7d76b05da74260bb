// ============================================================================
// logfreq CLI - Command Line Interface
// ============================================================================
//
// Package: internal/cli
// File: cli.go
// Purpose: User-facing command line surface built on the Cobra framework.
//
// Command Structure:
//   logfreq                       # Root command
//   ├── run                       # Run the pipeline, print the report
//   │   ├── --producers, -p      # Override producer count
//   │   └── --events, -n         # Override events per producer
//   ├── tokenize <text>           # Tokenize a message and print tokens
//   ├── --config, -c              # Config file path (persistent)
//   ├── --version                 # Display version information
//   └── --help                    # Display help information
//
// Configuration:
//   YAML config file (default: configs/default.yaml) covering the pipeline
//   workload, the sink path, the report size, and the metrics endpoint.
//   A missing config file falls back to built-in defaults.
//
// Signal Handling:
//   run captures SIGINT and SIGTERM. A signal begins the same
//   drain-to-completion shutdown as a normal run: producers stop on the
//   next rejected enqueue, already-queued events are still processed, and
//   the report is printed.
//
// ============================================================================

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/logfreq/logfreq/internal/controller"
	"github.com/logfreq/logfreq/internal/metrics"
	"github.com/logfreq/logfreq/internal/tokenizer"
	"github.com/logfreq/logfreq/pkg/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var log = slog.Default()

// Config maps the YAML config file.
type Config struct {
	Pipeline struct {
		Producers         int      `yaml:"producers"`
		EventsPerProducer int      `yaml:"events_per_producer"`
		Messages          []string `yaml:"messages"`
		Delimiters        string   `yaml:"delimiters"`
	} `yaml:"pipeline"`

	Sink struct {
		Path string `yaml:"path"`
	} `yaml:"sink"`

	Report struct {
		TopN int `yaml:"top_n"`
	} `yaml:"report"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"metrics"`
}

var configFile string

// BuildCLI assembles the root command.
func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logfreq",
		Short: "logfreq: a concurrent log-processing pipeline",
		Long: `logfreq runs N concurrent producers through a shared FIFO into a single
processor that tokenizes every event, maintains a word-frequency table, and
appends one durable record per event to a log sink.`,
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "configs/default.yaml", "config file path")

	rootCmd.AddCommand(buildRunCommand())
	rootCmd.AddCommand(buildTokenizeCommand())

	return rootCmd
}

func buildRunCommand() *cobra.Command {
	var producers int
	var events int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the pipeline and print the word-frequency report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(producers, events)
		},
	}

	cmd.Flags().IntVarP(&producers, "producers", "p", 0, "override producer count")
	cmd.Flags().IntVarP(&events, "events", "n", 0, "override events per producer")

	return cmd
}

func buildTokenizeCommand() *cobra.Command {
	var delims string

	cmd := &cobra.Command{
		Use:   "tokenize <text>",
		Short: "Tokenize a message and print its tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens := tokenizer.Split(args[0], delims)
			for _, token := range tokens {
				fmt.Fprintln(cmd.OutOrStdout(), token)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&delims, "delimiters", "d", tokenizer.DefaultDelimiters, "delimiter character set")

	return cmd
}

func runPipeline(producerOverride, eventsOverride int) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if producerOverride > 0 {
		cfg.Pipeline.Producers = producerOverride
	}
	if eventsOverride > 0 {
		cfg.Pipeline.EventsPerProducer = eventsOverride
	}

	collector := metrics.NewCollector()
	if cfg.Metrics.Enabled {
		go func() {
			log.Info("Starting metrics server", "port", cfg.Metrics.Port)
			if err := metrics.StartServer(cfg.Metrics.Port); err != nil {
				log.Error("Metrics server error", "error", err)
			}
		}()
	}

	ctrl, err := controller.New(controller.Config{
		Producers:         cfg.Pipeline.Producers,
		EventsPerProducer: cfg.Pipeline.EventsPerProducer,
		Messages:          cfg.Pipeline.Messages,
		Delimiters:        cfg.Pipeline.Delimiters,
		SinkPath:          cfg.Sink.Path,
	}, collector)
	if err != nil {
		return fmt.Errorf("failed to create controller: %w", err)
	}

	if err := ctrl.Start(); err != nil {
		return fmt.Errorf("failed to start pipeline: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		log.Info("Signal received, draining", "signal", sig.String())
		ctrl.BeginShutdown()
	}()

	ctrl.Stop()
	signal.Stop(sigCh)
	close(sigCh)

	writeReport(os.Stdout, ctrl.Report(cfg.Report.TopN))
	fmt.Printf("\naccepted=%d processed=%d sink=%s\n",
		ctrl.Accepted(), ctrl.Processed(), cfg.Sink.Path)
	return nil
}

// loadConfig reads the YAML config, falling back to defaults when the file
// does not exist. Defaults keep a bare `logfreq run` useful.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Pipeline.Producers < 1 {
		cfg.Pipeline.Producers = 1
	}
	if len(cfg.Pipeline.Messages) == 0 {
		cfg.Pipeline.Messages = defaultConfig().Pipeline.Messages
	}
	return cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Pipeline.Producers = 3
	cfg.Pipeline.EventsPerProducer = 5
	cfg.Pipeline.Messages = []string{
		"error error warning",
		"request served in time",
		"cache miss for key session",
	}
	cfg.Pipeline.Delimiters = tokenizer.DefaultDelimiters
	cfg.Sink.Path = "logfreq.log"
	cfg.Report.TopN = 10
	cfg.Metrics.Port = 9090
	return cfg
}

// writeReport renders the frequency snapshot as an aligned word/count table.
func writeReport(w io.Writer, counts types.WordCounts) {
	fmt.Fprintln(w, "word frequency report")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	for _, wc := range counts {
		fmt.Fprintf(w, "%-20s %10d\n", wc.Word, wc.Count)
	}
}
