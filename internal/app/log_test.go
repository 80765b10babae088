package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNovelHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		opID    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			opID:    "op-123",
			level:   slog.LevelInfo,
			message: "commit created",
			want:    "2024-06-15T14:30:45Z\tINFO\top-123\tcommit created\n",
		},
		{
			name:    "debug level",
			opID:    "op-456",
			level:   slog.LevelDebug,
			message: "computing status",
			want:    "2024-06-15T14:30:45Z\tDEBUG\top-456\tcomputing status\n",
		},
		{
			name:    "with record attrs",
			opID:    "op-789",
			level:   slog.LevelInfo,
			message: "checked out",
			attrs:   []slog.Attr{slog.String("id", "abc"), slog.Int("written", 42)},
			want:    "2024-06-15T14:30:45Z\tINFO\top-789\tchecked out\tid=abc\twritten=42\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &novelHandler{w: &buf, opID: tt.opID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestNovelHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &novelHandler{w: &buf, opID: "op-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "archive")}).(*novelHandler)
	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}

	r := slog.NewRecord(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), slog.LevelInfo, "push", 0)
	r.AddAttrs(slog.String("key", "abc"))
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "\ta=1\tcomponent=archive\tkey=abc\n") {
		t.Errorf("attrs out of order or missing: %q", got)
	}
}

func TestNovelHandler_Enabled(t *testing.T) {
	all := &novelHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if !all.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = false without a level, want true", level)
		}
	}

	warn := &novelHandler{level: slog.LevelWarn}
	if warn.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Enabled(INFO) = true at WARN")
	}
	if !warn.Enabled(context.Background(), slog.LevelError) {
		t.Error("Enabled(ERROR) = false at WARN")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"chatty", 0, true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	logger, f, err := newLogger(dir, "test-op", "error")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	logger.Info("filtered out")
	logger.Error("kept")

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if strings.Contains(string(data), "filtered out") {
		t.Error("info record written at error level")
	}
	if !strings.Contains(string(data), "\ttest-op\tkept") {
		t.Errorf("log file = %q, want the error record", data)
	}
}
