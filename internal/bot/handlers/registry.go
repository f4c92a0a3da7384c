package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its description and middleware.
// It encapsulates all information needed to register and document a command.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
	// MatchFunc, when set, replaces the pattern match.
	MatchFunc tgbot.MatchFunc
	// Description is published in the bot command menu; empty hides the entry.
	Description string
}

// RegisterAllCommands initializes and returns a map of all available bot commands.
// It configures each command with appropriate handlers and middleware.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	command := func(name, description string, handler tgbot.HandlerFunc, mw ...tgbot.Middleware) {
		handlers["/"+name] = RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     name,
			Handler:     handler,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  append([]tgbot.Middleware{CountCommand(name)}, mw...),
			Description: description,
		}
	}

	command("start", "Introduction", NewStartHandler(deps))
	command("help", "List the commands", NewHelpHandler(deps))
	command("reset", "Forget the uploaded chat", NewResetHandler(deps))

	sessionMiddleware := RequireSession(deps)

	command("users", "Pick the user to analyze", NewUsersHandler(deps), sessionMiddleware)
	command("user", "Pick a user by name", NewUserHandler(deps), sessionMiddleware)
	command("stats", "Message, word, media and link counts", NewStatsHandler(deps), sessionMiddleware)
	command("timeline", "Monthly and daily timelines", NewTimelineHandler(deps), sessionMiddleware)
	command("activity", "Busiest days, months and hours", NewActivityHandler(deps), sessionMiddleware)
	command("busy", "Most active users", NewBusyHandler(deps), sessionMiddleware)
	command("words", "Most common words", NewWordsHandler(deps), sessionMiddleware)
	command("emoji", "Emoji usage", NewEmojiHandler(deps), sessionMiddleware)
	command("wordcloud", "Word cloud image", NewWordCloudHandler(deps), sessionMiddleware)
	command("report", "Full analysis", NewReportHandler(deps), sessionMiddleware)
	command("export", "Download the chat as SQLite", NewExportHandler(deps), sessionMiddleware)

	handlers["select_user"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     selectUserPrefix,
		Handler:     NewSelectUserHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["upload"] = RegisteredHandler{
		Handler:    NewUploadHandler(deps),
		MatchFunc:  IsDocumentUpload,
		Middleware: []tgbot.Middleware{CountCommand("upload")},
	}

	return handlers
}
