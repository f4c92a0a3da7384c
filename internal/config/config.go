// Package config loads chatlens settings from defaults, an optional YAML file
// and CHATLENS_* environment variables, and validates them.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/chatlens/internal/chatexport"
)

// Config is the complete application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Parser    ParserConfig    `mapstructure:"parser"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	WordCloud WordCloudConfig `mapstructure:"wordcloud"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Session   SessionConfig   `mapstructure:"session"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// ParserConfig selects the anchor grammars and the system sender name.
type ParserConfig struct {
	Grammars       []string                   `mapstructure:"grammars"`
	CustomGrammars []chatexport.GrammarConfig `mapstructure:"custom_grammars" validate:"dive"`
	Sentinel       string                     `mapstructure:"sentinel"        validate:"required"`
}

// AnalysisConfig holds the aggregation parameters.
type AnalysisConfig struct {
	OverallLabel     string `mapstructure:"overall_label"     validate:"required"`
	MediaPlaceholder string `mapstructure:"media_placeholder" validate:"required"`
	StopWordsFile    string `mapstructure:"stop_words_file"   validate:"omitempty,file"`
	MinWordLength    int    `mapstructure:"min_word_length"   validate:"min=1,max=64"`
	TopWords         int    `mapstructure:"top_words"         validate:"min=1,max=1000"`
	TopUsers         int    `mapstructure:"top_users"         validate:"min=1,max=1000"`
	TopEmojis        int    `mapstructure:"top_emojis"        validate:"min=1,max=100"`
}

// WordCloudConfig controls the word-cloud canvas.
type WordCloudConfig struct {
	Width           int      `mapstructure:"width"            validate:"min=50,max=4096"`
	Height          int      `mapstructure:"height"           validate:"min=50,max=4096"`
	MinFontSize     int      `mapstructure:"min_font_size"    validate:"min=4"`
	MaxFontSize     int      `mapstructure:"max_font_size"    validate:"gtefield=MinFontSize"`
	MaxWords        int      `mapstructure:"max_words"        validate:"min=1,max=2000"`
	RelativeScaling float64  `mapstructure:"relative_scaling" validate:"gt=0,lte=1"`
	Background      string   `mapstructure:"background"       validate:"hexcolor"`
	Palette         []string `mapstructure:"palette"          validate:"min=1,dive,hexcolor"`
}

// TelegramConfig holds the bot connection settings. BotInfo is filled at
// runtime from GetMe.
type TelegramConfig struct {
	Token             string        `mapstructure:"token"`
	MaxUploadBytes    int64         `mapstructure:"max_upload_bytes"    validate:"min=1"`
	DownloadTimeout   time.Duration `mapstructure:"download_timeout"    validate:"min=1s"`
	DailyTimelineDays int           `mapstructure:"daily_timeline_days" validate:"min=1"`
	KeyboardColumns   int           `mapstructure:"keyboard_columns"    validate:"min=1,max=8"`
	BotInfo           *models.User  `mapstructure:"-"`
}

// MessagesConfig holds the user-facing bot replies.
type MessagesConfig struct {
	Welcome         string `mapstructure:"welcome"           validate:"required"`
	Help            string `mapstructure:"help"              validate:"required"`
	NoExport        string `mapstructure:"no_export"         validate:"required"`
	ExportLoaded    string `mapstructure:"export_loaded"     validate:"required"`
	ExportEmpty     string `mapstructure:"export_empty"      validate:"required"`
	NotText         string `mapstructure:"not_text"          validate:"required"`
	UploadTooLarge  string `mapstructure:"upload_too_large"  validate:"required"`
	ChooseUser      string `mapstructure:"choose_user"       validate:"required"`
	UserSelected    string `mapstructure:"user_selected"     validate:"required"`
	UnknownUser     string `mapstructure:"unknown_user"      validate:"required"`
	ProvideUser     string `mapstructure:"provide_user"      validate:"required"`
	BusyOverallOnly string `mapstructure:"busy_overall_only" validate:"required"`
	SessionExpired  string `mapstructure:"session_expired"   validate:"required"`
	Reset           string `mapstructure:"reset"             validate:"required"`
	GeneralError    string `mapstructure:"general_error"     validate:"required"`
}

// SessionConfig bounds how long an uploaded export is kept in memory.
type SessionConfig struct {
	IdleTTL time.Duration `mapstructure:"idle_ttl" validate:"min=1m"`
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a scheduled task with a cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// DatabaseConfig locates the SQLite file used by exports.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"             validate:"required,hostname_port"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes" validate:"min=1"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"min=1s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"min=1s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s"`
}

// MetricsConfig exposes Prometheus metrics from the bot process.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr" validate:"required_if=Enabled true,omitempty,hostname_port"`
}
