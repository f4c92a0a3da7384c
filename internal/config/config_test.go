package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edgard/chatlens/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadConfig_DefaultsWhenFileMissing(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if len(cfg.Parser.Grammars) != 3 || cfg.Parser.Sentinel != "group_notification" {
		t.Errorf("Parser = %+v", cfg.Parser)
	}
	if cfg.Analysis.OverallLabel != "Overall" || cfg.Analysis.MediaPlaceholder != "<Media omitted>" {
		t.Errorf("Analysis = %+v", cfg.Analysis)
	}
	if cfg.Analysis.TopWords != 20 || cfg.Analysis.TopUsers != 5 || cfg.Analysis.MinWordLength != 2 {
		t.Errorf("Analysis limits = %+v", cfg.Analysis)
	}
	if cfg.WordCloud.Width != 500 || cfg.WordCloud.Height != 500 || cfg.WordCloud.MinFontSize != 10 {
		t.Errorf("WordCloud = %+v", cfg.WordCloud)
	}
	if cfg.Session.IdleTTL != 2*time.Hour {
		t.Errorf("Session.IdleTTL = %v", cfg.Session.IdleTTL)
	}
	if task, ok := cfg.Scheduler.Tasks["session_cleanup"]; !ok || !task.Enabled || task.Schedule == "" {
		t.Errorf("session_cleanup task = %+v, %v", task, ok)
	}
	if err := cfg.ValidateBot(); !errors.Is(err, config.ErrConfiguration) {
		t.Errorf("ValidateBot() without token error = %v, want ErrConfiguration", err)
	}
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
log:
  level: debug
  json: true
parser:
  grammars: [ios]
  sentinel: system
  custom_grammars:
    - name: iso
      pattern: '(?m)^(?P<date>\d{4}-\d{2}-\d{2}) (?P<time>\d{2}:\d{2}) \| '
      date_layouts: ["2006-01-02"]
      time_layouts: ["15:04"]
analysis:
  top_words: 10
wordcloud:
  width: 800
  max_font_size: 120
telegram:
  token: "123:abc"
session:
  idle_ttl: 30m
`)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if len(cfg.Parser.Grammars) != 1 || cfg.Parser.Grammars[0] != "ios" || cfg.Parser.Sentinel != "system" {
		t.Errorf("Parser = %+v", cfg.Parser)
	}
	if len(cfg.Parser.CustomGrammars) != 1 || cfg.Parser.CustomGrammars[0].Name != "iso" {
		t.Errorf("CustomGrammars = %+v", cfg.Parser.CustomGrammars)
	}
	if cfg.Analysis.TopWords != 10 || cfg.Analysis.TopUsers != 5 {
		t.Errorf("Analysis = %+v", cfg.Analysis)
	}
	if cfg.WordCloud.Width != 800 || cfg.WordCloud.Height != 500 || cfg.WordCloud.MaxFontSize != 120 {
		t.Errorf("WordCloud = %+v", cfg.WordCloud)
	}
	if cfg.Session.IdleTTL != 30*time.Minute {
		t.Errorf("Session.IdleTTL = %v", cfg.Session.IdleTTL)
	}
	if err := cfg.ValidateBot(); err != nil {
		t.Errorf("ValidateBot() error = %v", err)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CHATLENS_TELEGRAM_TOKEN", "env-token")
	t.Setenv("CHATLENS_LOG_LEVEL", "warn")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Telegram.Token != "env-token" || cfg.Log.Level != "warn" {
		t.Errorf("env overrides not applied: token %q level %q", cfg.Telegram.Token, cfg.Log.Level)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "log level", body: "log:\n  level: loud\n"},
		{name: "unknown grammar", body: "parser:\n  grammars: [klingon]\n"},
		{name: "custom grammar without groups", body: "parser:\n  custom_grammars:\n    - name: x\n      pattern: 'abc'\n      date_layouts: ['2006']\n      time_layouts: ['15']\n"},
		{name: "font sizes", body: "wordcloud:\n  min_font_size: 40\n  max_font_size: 20\n"},
		{name: "background color", body: "wordcloud:\n  background: white\n"},
		{name: "enabled task without schedule", body: "scheduler:\n  tasks:\n    session_cleanup:\n      enabled: true\n      schedule: ''\n"},
		{name: "malformed yaml", body: "log: [\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := config.LoadConfig(writeConfig(t, tt.body)); !errors.Is(err, config.ErrConfiguration) {
				t.Errorf("LoadConfig() error = %v, want ErrConfiguration", err)
			}
		})
	}
}
