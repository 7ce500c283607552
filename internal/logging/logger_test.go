package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cddarip/internal/config"
	"cddarip/internal/logging"
)

func TestNewFromConfigWritesJSONLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("extraction started", logging.String(logging.FieldJobID, "job-1"))

	content, err := os.ReadFile(cfg.LogFilePath())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("log file is not JSON lines: %v (%q)", err, content)
	}
	if entry["msg"] != "extraction started" || entry[logging.FieldJobID] != "job-1" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestConsoleLinePrefix(t *testing.T) {
	tests := []struct {
		name  string
		log   func(*slog.Logger)
		want  string
		avoid string
	}{
		{
			name: "component only",
			log: func(l *slog.Logger) {
				logging.NewComponentLogger(l, "reader").Info("message without caller")
			},
			want:  "INFO reader: message without caller",
			avoid: ".go:",
		},
		{
			name: "job and track",
			log: func(l *slog.Logger) {
				l.Warn("sectors reconstructed",
					logging.String(logging.FieldJobID, "0123456789abcdef"),
					logging.Int(logging.FieldTrack, 3),
					logging.Int("fixed", 2),
				)
			},
			want:  "WARN [job 01234567 track 3] sectors reconstructed fixed=2",
			avoid: "job_id=",
		},
		{
			name: "quoted values and groups",
			log: func(l *slog.Logger) {
				l.With(slog.Group("tags", slog.String("album", "Kind of Blue"))).Info("tagged")
			},
			want: `tagged tags.album="Kind of Blue"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := logging.New(logging.Options{Level: "info", Console: &buf})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			tt.log(logger)
			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Fatalf("expected %q in %q", tt.want, out)
			}
			if tt.avoid != "" && strings.Contains(out, tt.avoid) {
				t.Fatalf("did not expect %q in %q", tt.avoid, out)
			}
		})
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	if !strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestLevelFiltersBothOutputs(t *testing.T) {
	var buf bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "cddarip.log")
	logger, err := logging.New(logging.Options{Level: "warn", Console: &buf, FilePath: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	for name, out := range map[string]string{"console": buf.String(), "file": string(content)} {
		if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
			t.Fatalf("%s output not filtered: %q", name, out)
		}
	}
}

func TestDerivedLoggerFieldsReachBothOutputs(t *testing.T) {
	var buf bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "cddarip.log")
	logger, err := logging.New(logging.Options{Level: "info", Console: &buf, FilePath: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.With(logging.String("device", "/dev/sr0")).Info("drive ready")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("log file is not JSON lines: %v (%q)", err, content)
	}
	if entry["device"] != "/dev/sr0" {
		t.Fatalf("file entry missing derived field: %v", entry)
	}
	if !strings.Contains(buf.String(), "/dev/sr0") {
		t.Fatalf("console missing derived field: %q", buf.String())
	}
}

func TestFileOnlyLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "cddarip.log")
	logger, err := logging.New(logging.Options{Level: "info", FilePath: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("quiet console")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "quiet console") {
		t.Fatalf("file output missing record: %q", content)
	}
}

func TestJSONConsoleRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("json message", logging.Int(logging.FieldTrack, 3))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry["level"] != "warn" || entry["msg"] != "json message" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
	if entry["track"] != float64(3) {
		t.Fatalf("expected track field, got %v", entry["track"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := context.Background()
	ctx = logging.WithJobID(ctx, "job-42")
	ctx = logging.WithTrack(ctx, 7)
	ctx = logging.WithWorker(ctx, "encode")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WithContext(ctx, logger).Info("contextual log")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry[logging.FieldJobID] != "job-42" {
		t.Fatalf("job_id = %v", entry[logging.FieldJobID])
	}
	if entry[logging.FieldTrack] != float64(7) {
		t.Fatalf("track = %v", entry[logging.FieldTrack])
	}
	if entry[logging.FieldWorker] != "encode" {
		t.Fatalf("worker = %v", entry[logging.FieldWorker])
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WarnWithContext(logger, "tag write failed", "tag_write_failed", logging.String(logging.FieldErrorHint, "check file permissions"))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry[logging.FieldEventType] != "tag_write_failed" {
		t.Fatalf("event_type = %v", entry[logging.FieldEventType])
	}
	if entry[logging.FieldErrorHint] != "check file permissions" {
		t.Fatalf("error_hint overridden: %v", entry[logging.FieldErrorHint])
	}
	if entry[logging.FieldImpact] == nil {
		t.Fatal("expected impact default")
	}
}
