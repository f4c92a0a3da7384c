package bot_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/edgard/chatlens/internal/bot"
	"github.com/edgard/chatlens/internal/bot/tasks"
	"github.com/edgard/chatlens/internal/config"
)

func TestScheduler_SchedulesEnabledTasks(t *testing.T) {
	t.Parallel()

	noop := func(context.Context) error { return nil }
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"session_cleanup": noop,
		"disabled":        noop,
	}
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"session_cleanup": {Enabled: true, Schedule: "0 */10 * * * *"},
		"disabled":        {Enabled: false, Schedule: "0 * * * * *"},
		"unknown":         {Enabled: true, Schedule: "0 * * * * *"},
		"no_schedule":     {Enabled: true},
	}}

	s, err := bot.NewScheduler(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg, taskMap)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		if err := s.Stop(); err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	})

	jobs := s.Jobs()
	if len(jobs) != 1 || jobs[0] != "session_cleanup" {
		t.Errorf("Jobs() = %v, want [session_cleanup]", jobs)
	}
	if err := s.Start(); err == nil {
		t.Error("second Start() returned nil error")
	}
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	t.Parallel()

	s, err := bot.NewScheduler(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
