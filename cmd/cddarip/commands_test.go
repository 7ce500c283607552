package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTOCFromImage(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"toc", "--image", env.imagePath}, env.configPath)
	if err != nil {
		t.Fatalf("toc: %v", err)
	}
	requireContains(t, out, "Song 2")
	requireContains(t, out, "3 tracks")
	requireContains(t, out, "00:00.30")
}

func TestExtractImageToLibrary(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"extract", "--image", env.imagePath, "--tracks", "1-2", "--library"}, env.configPath)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	requireContains(t, out, "Album peak")

	files := findFiles(t, env.cfg.Paths.OutputDir, ".wav")
	if len(files) != 2 {
		t.Fatalf("expected 2 wav files, got %v", files)
	}
	for _, f := range files {
		rel, _ := filepath.Rel(env.cfg.Paths.OutputDir, f)
		if !strings.HasPrefix(rel, filepath.Join("Artist", "Album")) {
			t.Fatalf("unexpected output path %s", rel)
		}
	}

	out, _, err = runCLI(t, []string{"library", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	requireContains(t, out, "completed")
	requireContains(t, out, "Album")

	lines := strings.Split(out, "\n")
	var id string
	for _, line := range lines {
		if strings.Contains(line, "completed") {
			id = strings.TrimSpace(strings.Split(line, "│")[1])
		}
	}
	if id == "" {
		t.Fatalf("no job id in %q", out)
	}

	out, _, err = runCLI(t, []string{"library", "show", id}, env.configPath)
	if err != nil {
		t.Fatalf("library show: %v", err)
	}
	requireContains(t, out, "Song 1")
	requireContains(t, out, "Song 2")
}

func TestExtractJoinedImage(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"extract", "--image", env.imagePath, "--join", "--album", "Joined"}, env.configPath)
	if err != nil {
		t.Fatalf("extract --join: %v", err)
	}
	files := findFiles(t, env.cfg.Paths.OutputDir, ".wav")
	if len(files) != 1 {
		t.Fatalf("expected one joined file, got %v", files)
	}
	if base := filepath.Base(files[0]); base != "Artist - Joined.wav" {
		t.Fatalf("unexpected joined name %q", base)
	}
}

func TestExtractRejectsUnknownTrack(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"extract", "--image", env.imagePath, "--tracks", "9"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "track 9") {
		t.Fatalf("expected unknown track error, got %v", err)
	}
	if files := findFiles(t, env.cfg.Paths.OutputDir, ".wav"); len(files) != 0 {
		t.Fatalf("expected no output, got %v", files)
	}
}

func TestLibraryListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"library", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	requireContains(t, out, "No extractions recorded")

	if _, _, err := runCLI(t, []string{"library", "show", "deadbeef"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown job")
	}
}

func TestInspectMissingFile(t *testing.T) {
	_, _, err := runCLI(t, []string{"inspect", filepath.Join(t.TempDir(), "missing.mp3")}, "")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDoctorPassesWithoutDrive(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Output directory")
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "All checks passed")
}

func TestLogsShowsTrailingLines(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.MkdirAll(env.cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "first job_id=aaa\nsecond job_id=bbb\nthird job_id=aaa\n"
	if err := os.WriteFile(env.cfg.LogFilePath(), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"logs", "-n", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if strings.TrimSpace(out) != "third job_id=aaa" {
		t.Fatalf("unexpected output %q", out)
	}

	out, _, err = runCLI(t, []string{"logs", "--job", "bbb"}, env.configPath)
	if err != nil {
		t.Fatalf("logs --job: %v", err)
	}
	if strings.TrimSpace(out) != "second job_id=bbb" {
		t.Fatalf("unexpected filtered output %q", out)
	}
}
