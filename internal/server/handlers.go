package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/edgard/chatlens/internal/analysis"
	"github.com/edgard/chatlens/internal/chatexport"
	"github.com/edgard/chatlens/internal/report"
	"github.com/edgard/chatlens/internal/wordcloud"
)

const (
	httpSource    = "http"
	uploadField   = "file"
	formatText    = "text"
	queryUser     = "user"
	queryFormat   = "format"
	pngMediaType  = "image/png"
	textMediaType = "text/plain; charset=utf-8"
)

var errMissingFile = errors.New(`multipart body has no "file" field`)

// UsersResponse lists the selectable users of an export.
type UsersResponse struct {
	Users    []string `json:"users"`
	Messages int      `json:"messages"`
	Grammar  string   `json:"grammar"`
	Dropped  int      `json:"dropped"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) users(w http.ResponseWriter, r *http.Request) {
	table, ok := s.readExport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, UsersResponse{
		Users:    s.pipeline.Analyzer.UserOptions(table),
		Messages: table.Len(),
		Grammar:  table.Grammar(),
		Dropped:  table.Dropped(),
	})
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	table, ok := s.readExport(w, r)
	if !ok {
		return
	}
	user, ok := s.selectedUser(w, r, table)
	if !ok {
		return
	}

	rep, err := s.pipeline.Analyzer.Report(r.Context(), user, table, analysis.ReportOptions{})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to build report", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	if r.URL.Query().Get(queryFormat) == formatText {
		w.Header().Set("Content-Type", textMediaType)
		_, _ = io.WriteString(w, report.Text(rep))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) wordCloud(w http.ResponseWriter, r *http.Request) {
	table, ok := s.readExport(w, r)
	if !ok {
		return
	}
	user, ok := s.selectedUser(w, r, table)
	if !ok {
		return
	}

	layout, err := s.pipeline.Analyzer.WordCloud(user, table)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to build word cloud", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build word cloud")
		return
	}
	w.Header().Set("Content-Type", pngMediaType)
	if err := wordcloud.EncodePNG(w, layout); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to write word cloud", "error", err)
	}
}

// readExport parses the export from the raw body or the multipart "file"
// field and writes the error response itself on failure.
func (s *Server) readExport(w http.ResponseWriter, r *http.Request) (*chatexport.Table, bool) {
	body, err := exportBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	table, err := s.pipeline.Parse(body, httpSource)
	switch {
	case errors.Is(err, chatexport.ErrInputTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "chat export too large")
		return nil, false
	case err != nil:
		s.logger.WarnContext(r.Context(), "Failed to read chat export", "error", err)
		writeError(w, http.StatusBadRequest, "failed to read chat export")
		return nil, false
	}
	return table, true
}

func exportBody(r *http.Request) (io.Reader, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart body: %w", err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, errMissingFile
		}
		if err != nil {
			return nil, fmt.Errorf("invalid multipart body: %w", err)
		}
		if part.FormName() == uploadField {
			return part, nil
		}
	}
}

// selectedUser resolves the user query parameter, defaulting to the overall
// label. Unknown users get 404.
func (s *Server) selectedUser(w http.ResponseWriter, r *http.Request, table *chatexport.Table) (string, bool) {
	analyzer := s.pipeline.Analyzer
	user := strings.TrimSpace(r.URL.Query().Get(queryUser))
	if user == "" {
		return analyzer.OverallLabel(), true
	}
	if !analyzer.HasUser(user, table) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown user %q", user))
		return "", false
	}
	return user, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
