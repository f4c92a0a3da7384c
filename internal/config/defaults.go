package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/edgard/chatlens/internal/analysis"
	"github.com/edgard/chatlens/internal/chatexport"
	"github.com/edgard/chatlens/internal/wordcloud"
)

const (
	DefaultConfigPath     = "./config.yaml"
	DefaultMaxUploadBytes = 20 << 20
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetDefault("parser.grammars", chatexport.DefaultGrammarNames)
	v.SetDefault("parser.custom_grammars", []chatexport.GrammarConfig{})
	v.SetDefault("parser.sentinel", chatexport.DefaultSentinelSender)

	v.SetDefault("analysis.overall_label", analysis.DefaultOverallLabel)
	v.SetDefault("analysis.media_placeholder", analysis.DefaultMediaPlaceholder)
	v.SetDefault("analysis.stop_words_file", "")
	v.SetDefault("analysis.min_word_length", analysis.DefaultMinWordLength)
	v.SetDefault("analysis.top_words", analysis.DefaultTopWords)
	v.SetDefault("analysis.top_users", analysis.DefaultTopUsers)
	v.SetDefault("analysis.top_emojis", analysis.DefaultTopEmojis)

	wc := wordcloud.DefaultOptions()
	v.SetDefault("wordcloud.width", wc.Width)
	v.SetDefault("wordcloud.height", wc.Height)
	v.SetDefault("wordcloud.min_font_size", wc.MinFontSize)
	v.SetDefault("wordcloud.max_font_size", wc.MaxFontSize)
	v.SetDefault("wordcloud.max_words", wc.MaxWords)
	v.SetDefault("wordcloud.relative_scaling", wc.RelativeScaling)
	v.SetDefault("wordcloud.background", wc.Background)
	v.SetDefault("wordcloud.palette", wc.Palette)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("telegram.download_timeout", 30*time.Second)
	v.SetDefault("telegram.daily_timeline_days", 31)
	v.SetDefault("telegram.keyboard_columns", 2)

	v.SetDefault("messages.welcome", "Hi! Send me an exported chat (.txt) as a document and I will analyze it. /help lists the commands.")
	v.SetDefault("messages.help", "Upload a chat export as a document, then:\n"+
		"/users - choose whose messages to analyze\n"+
		"/user <name> - choose a user by name\n"+
		"/stats - message, word, media and link counts\n"+
		"/timeline - monthly and daily timelines\n"+
		"/activity - busiest days, months and the weekly heatmap\n"+
		"/busy - most active users (Overall only)\n"+
		"/words - most common words\n"+
		"/emoji - emoji usage\n"+
		"/wordcloud - word cloud image\n"+
		"/report - everything at once\n"+
		"/export - download the parsed chat as a SQLite file\n"+
		"/reset - forget the uploaded chat")
	v.SetDefault("messages.no_export", "No chat loaded yet. Send an exported chat .txt file as a document first.")
	v.SetDefault("messages.export_loaded", "Loaded %d messages from %d users. Analyzing: Overall. Use /users to pick someone.")
	v.SetDefault("messages.export_empty", "I could not find any chat messages in that file.")
	v.SetDefault("messages.not_text", "Please send the chat export as a .txt document.")
	v.SetDefault("messages.upload_too_large", "That file is too large to analyze.")
	v.SetDefault("messages.choose_user", "Show analysis with respect to:")
	v.SetDefault("messages.user_selected", "Analyzing: %s")
	v.SetDefault("messages.unknown_user", "No such user in this chat. Use /users to see the list.")
	v.SetDefault("messages.provide_user", "Usage: /user <name>")
	v.SetDefault("messages.busy_overall_only", "Most busy users is only shown for Overall. Use /user Overall first.")
	v.SetDefault("messages.session_expired", "This list is out of date. Use /users again.")
	v.SetDefault("messages.reset", "The uploaded chat has been forgotten.")
	v.SetDefault("messages.general_error", "Something went wrong. Please try again later.")

	v.SetDefault("session.idle_ttl", 2*time.Hour)
	v.SetDefault("scheduler.tasks", map[string]any{
		"session_cleanup": map[string]any{"enabled": true, "schedule": "0 */10 * * * *"},
	})

	v.SetDefault("database.path", "chatlens.db")

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", "127.0.0.1:9090")
}
