package files

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("content of "+name), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestList_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "c.flac")
	touch(t, dir, "a.mp3")
	touch(t, dir, "b.txt")
	touch(t, dir, "B.WAV")
	touch(t, dir, "notes.md")
	if err := os.Mkdir(filepath.Join(dir, "sub.mp3"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	want := []string{"B.WAV", "a.mp3", "c.flac"}
	if len(got) != len(want) {
		t.Fatalf("List returned %d files, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("files[%d].Name = %q, want %q", i, got[i].Name, name)
		}
		if got[i].Path != filepath.Join(dir, name) {
			t.Errorf("files[%d].Path = %q, want %q", i, got[i].Path, filepath.Join(dir, name))
		}
	}
}

func TestList_UnknownDurationIsNil(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mp3") // not real audio, probe fails

	got, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("List returned %d files, want 1", len(got))
	}
	if got[0].DurationSeconds != nil {
		t.Errorf("DurationSeconds = %v, want nil", *got[0].DurationSeconds)
	}
}

func TestList_EmptyDir(t *testing.T) {
	got, err := List(t.TempDir())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List returned %d files, want 0", len(got))
	}
}

func TestList_InvalidTargets(t *testing.T) {
	if _, err := List("/nonexistent/music"); !errors.Is(err, ErrInvalidDir) {
		t.Errorf("missing dir: error = %v, want ErrInvalidDir", err)
	}

	file := touch(t, t.TempDir(), "a.mp3")
	if _, err := List(file); !errors.Is(err, ErrInvalidDir) {
		t.Errorf("file target: error = %v, want ErrInvalidDir", err)
	}
}

func TestRename(t *testing.T) {
	dir := t.TempDir()
	old := touch(t, dir, "old.mp3")

	newPath, err := Rename(old, "new.mp3")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}

	if newPath != filepath.Join(dir, "new.mp3") {
		t.Errorf("new path = %q, want %q", newPath, filepath.Join(dir, "new.mp3"))
	}
	if _, err := os.Stat(old); !errors.Is(err, os.ErrNotExist) {
		t.Error("old path still exists")
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Errorf("new path missing: %v", err)
	}
}

func TestRename_MissingSource(t *testing.T) {
	if _, err := Rename("/nonexistent/a.mp3", "b.mp3"); err == nil {
		t.Error("Rename on a missing file succeeded")
	}
}

func TestCopy_CreatesDestination(t *testing.T) {
	src := t.TempDir()
	a := touch(t, src, "a.mp3")
	b := touch(t, src, "b.flac")
	dest := filepath.Join(t.TempDir(), "nested", "backup")

	copied, err := Copy([]string{a, b}, dest)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}

	want := []string{filepath.Join(dest, "a.mp3"), filepath.Join(dest, "b.flac")}
	if len(copied) != 2 || copied[0] != want[0] || copied[1] != want[1] {
		t.Errorf("copied = %v, want %v", copied, want)
	}
	for i, path := range want {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read copy: %v", err)
		}
		if i == 0 && string(data) != "content of a.mp3" {
			t.Errorf("copied content = %q", data)
		}
	}
}

func TestCopy_MissingSource(t *testing.T) {
	dest := t.TempDir()
	if _, err := Copy([]string{"/nonexistent/a.mp3"}, dest); err == nil {
		t.Error("Copy of a missing file succeeded")
	}
}
