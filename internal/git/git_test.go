package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func initRepo(t *testing.T) (string, func(args ...string)) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, string(out))
		}
	}
	run("init", ".")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "tester")
	return dir, run
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestIsRepo(t *testing.T) {
	dir, _ := initRepo(t)
	if !IsRepo(dir) {
		t.Fatalf("expected %s to be a repo", dir)
	}
	if IsRepo(t.TempDir()) {
		t.Fatalf("plain directory reported as repo")
	}
	if IsRepo("bad\x00path") {
		t.Fatalf("null byte path reported as repo")
	}
}

func TestTrackedFiles(t *testing.T) {
	dir, run := initRepo(t)
	write(t, dir, "a.txt", "hello")
	write(t, dir, "sub/b.txt", "world")
	write(t, dir, "untracked.txt", "nope")
	run("add", "a.txt", "sub/b.txt")
	run("commit", "-m", "init")

	files, err := TrackedFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"a.txt": true, filepath.Join("sub", "b.txt"): true}
	if len(files) != len(want) {
		t.Fatalf("expected %d tracked files, got %v", len(want), files)
	}
	for _, f := range files {
		if !want[f] {
			t.Fatalf("unexpected tracked file %q", f)
		}
	}
}

func TestStagedFiles(t *testing.T) {
	dir, run := initRepo(t)
	write(t, dir, "base.txt", "base")
	run("add", "base.txt")
	run("commit", "-m", "base")

	write(t, dir, "b.txt", "staged content")
	run("add", "b.txt")
	// the working tree diverges from the index after staging
	write(t, dir, "b.txt", "unstaged content")

	files, data, err := StagedFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0] != "b.txt" {
		t.Fatalf("expected only b.txt staged, got %v", files)
	}
	if string(data[0]) != "staged content" {
		t.Fatalf("expected staged content, got %q", data[0])
	}
}

func TestStagedFiles_UnreadableBlobFails(t *testing.T) {
	dir, run := initRepo(t)
	write(t, dir, "base.txt", "base")
	run("add", "base.txt")
	run("commit", "-m", "base")

	write(t, dir, "b.txt", "staged content")
	run("add", "b.txt")

	cmd := exec.Command("git", "rev-parse", ":b.txt")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		t.Fatal(err)
	}
	oid := strings.TrimSpace(string(out))
	// drop the loose blob so the index entry points at a missing object
	if err := os.Remove(filepath.Join(dir, ".git", "objects", oid[:2], oid[2:])); err != nil {
		t.Fatal(err)
	}

	if _, _, err := StagedFiles(dir); err == nil {
		t.Fatalf("expected an error for a staged file whose content cannot be read")
	}
}
