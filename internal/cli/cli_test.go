package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logfreq/logfreq/pkg/types"
)

func TestBuildCLI(t *testing.T) {
	cmd := BuildCLI()

	assert.NotNil(t, cmd, "BuildCLI should return a non-nil command")
	assert.Equal(t, "logfreq", cmd.Use, "Root command should be 'logfreq'")
	assert.Equal(t, "1.0.0", cmd.Version, "Version should be 1.0.0")

	commands := cmd.Commands()
	assert.Len(t, commands, 2, "Should have 2 subcommands")

	commandNames := make(map[string]bool)
	for _, c := range commands {
		commandNames[c.Use] = true
	}
	assert.True(t, commandNames["run"], "Should have 'run' command")
	assert.True(t, commandNames["tokenize <text>"], "Should have 'tokenize' command")

	configFlag := cmd.PersistentFlags().Lookup("config")
	assert.NotNil(t, configFlag, "Should have --config flag")
	assert.Equal(t, "configs/default.yaml", configFlag.DefValue, "Default config path should be configs/default.yaml")
}

func TestBuildRunCommand(t *testing.T) {
	cmd := buildRunCommand()

	assert.NotNil(t, cmd, "buildRunCommand should return a non-nil command")
	assert.Equal(t, "run", cmd.Use, "Command should be 'run'")
	assert.Contains(t, cmd.Short, "Start", "Short description should mention 'Start'")
	assert.NotNil(t, cmd.RunE, "RunE function should be set")

	producersFlag := cmd.Flags().Lookup("producers")
	assert.NotNil(t, producersFlag, "Should have --producers flag")
	assert.Equal(t, "p", producersFlag.Shorthand, "Should have -p shorthand")

	eventsFlag := cmd.Flags().Lookup("events")
	assert.NotNil(t, eventsFlag, "Should have --events flag")
	assert.Equal(t, "n", eventsFlag.Shorthand, "Should have -n shorthand")
}

func TestTokenizeCommand(t *testing.T) {
	cmd := buildTokenizeCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"error: disk full!"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "error\ndisk\nfull\n", out.String())
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.yaml")

	configContent := `
pipeline:
  producers: 7
  events_per_producer: 11
  messages:
    - "custom message"
  delimiters: " ,"

sink:
  path: "custom.log"

report:
  top_n: 3

metrics:
  enabled: true
  port: 9191
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := loadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Pipeline.Producers)
	assert.Equal(t, 11, cfg.Pipeline.EventsPerProducer)
	assert.Equal(t, []string{"custom message"}, cfg.Pipeline.Messages)
	assert.Equal(t, " ,", cfg.Pipeline.Delimiters)
	assert.Equal(t, "custom.log", cfg.Sink.Path)
	assert.Equal(t, 3, cfg.Report.TopN)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9191, cfg.Metrics.Port)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Pipeline.Producers)
	assert.Equal(t, 5, cfg.Pipeline.EventsPerProducer)
	assert.NotEmpty(t, cfg.Pipeline.Messages)
	assert.Equal(t, "logfreq.log", cfg.Sink.Path)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("pipeline: ["), 0644))

	_, err := loadConfig(configPath)
	assert.Error(t, err)
}

func TestLoadConfig_SanitizesValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "partial.yaml")
	configContent := `
pipeline:
  producers: 0
  messages: []
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := loadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Pipeline.Producers, "producer count should be raised to 1")
	assert.NotEmpty(t, cfg.Pipeline.Messages, "empty message pool should fall back to defaults")
}

func TestWriteReport(t *testing.T) {
	var out bytes.Buffer
	writeReport(&out, types.WordCounts{
		{Word: "error", Count: 30},
		{Word: "warning", Count: 15},
	})

	report := out.String()
	assert.Contains(t, report, "word frequency report")
	assert.Contains(t, report, "error")
	assert.Contains(t, report, "30")
	assert.Contains(t, report, "warning")
	assert.Contains(t, report, "15")

	// Ordering is preserved as given.
	assert.Less(t, bytes.Index(out.Bytes(), []byte("error")), bytes.Index(out.Bytes(), []byte("warning")))
}
