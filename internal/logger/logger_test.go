package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPrepareLogFileUsesWorkdirLogs(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	got, err := prepareLogFile(Options{})
	if err != nil {
		t.Fatalf("resolve default log path failed: %v", err)
	}
	if filepath.Base(got) != defaultLogFilename {
		t.Fatalf("unexpected log filename: %s", filepath.Base(got))
	}
	if filepath.Base(filepath.Dir(got)) != defaultLogDirName {
		t.Fatalf("unexpected log dir: %s", filepath.Dir(got))
	}
	if _, err := os.Stat(got); err != nil {
		t.Fatalf("expected log file to be created: %v", err)
	}
}

func TestNewReleaseWritesRotatedFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "pizza.log"})
	log.Info("retrieval_recorded")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "pizza.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	if !strings.Contains(string(content), "retrieval_recorded") {
		t.Fatalf("expected log content to contain message, got=%s", string(content))
	}
}

func TestNewDebugSkipsFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New(" DEBUG ", Options{Dir: tmpDir, Filename: "debug.log"})
	log.Info("debug-log-test")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestPositiveOr(t *testing.T) {
	if got := positiveOr(0, 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	if got := positiveOr(3, 7); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestResolveLevel(t *testing.T) {
	if lvl := resolveLevel("", true); lvl.Level().String() != "debug" {
		t.Fatalf("debug mode default should be debug, got %s", lvl.Level())
	}
	if lvl := resolveLevel("", false); lvl.Level().String() != "info" {
		t.Fatalf("release default should be info, got %s", lvl.Level())
	}
	if lvl := resolveLevel(" warn ", true); lvl.Level().String() != "warn" {
		t.Fatalf("explicit level should win, got %s", lvl.Level())
	}
	if lvl := resolveLevel("verbose", false); lvl.Level().String() != "info" {
		t.Fatalf("invalid level should fall back, got %s", lvl.Level())
	}
}

func TestReleaseLogCarriesAppField(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "app.log"})
	log.Info("order_created")
	_ = log.Sync()
	content, err := os.ReadFile(filepath.Join(tmpDir, "app.log"))
	if err != nil {
		t.Fatalf("read log failed: %v", err)
	}
	if !strings.Contains(string(content), `"app":"desbrava-pizza"`) {
		t.Fatalf("expected app field, got=%s", string(content))
	}
}
