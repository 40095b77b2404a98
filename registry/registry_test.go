package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/loglens/loglens/errkind"
	"github.com/loglens/loglens/index"
	"github.com/loglens/loglens/registry"
)

func openFixture(t *testing.T, content string) *index.Index {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	idx, _, err := index.Open(path, "", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return idx
}

func TestAcquire_BeforeInstallReturnsNoIndex(t *testing.T) {
	r := registry.New()

	if _, err := r.Acquire(); !errkind.Is(err, errkind.ErrNoIndex) {
		t.Fatalf("Acquire before Install = %v, want ErrNoIndex", err)
	}
}

func TestInstallThenAcquire_ReturnsUsableHandle(t *testing.T) {
	r := registry.New()
	idx := openFixture(t, "a\nb\n")

	r.Install(idx)

	handle, err := r.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer handle.Release()

	if handle.LineContent(0, true) != "a" {
		t.Fatalf("line 0 = %q, want \"a\"", handle.LineContent(0, true))
	}
}

func TestInstall_ReplacesPreviousIndex(t *testing.T) {
	r := registry.New()
	first := openFixture(t, "first\n")
	second := openFixture(t, "second\n")

	r.Install(first)
	r.Install(second)

	handle, err := r.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer handle.Release()

	if handle.LineContent(0, true) != "second" {
		t.Fatalf("line 0 = %q, want \"second\" after replace", handle.LineContent(0, true))
	}
}

func TestInstall_ReleasesPreviousIndexButLeavesOutstandingHandlesUsable(t *testing.T) {
	r := registry.New()
	first := openFixture(t, "first\n")
	r.Install(first)

	handle, err := r.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	second := openFixture(t, "second\n")
	r.Install(second)

	// The handle acquired before the replace keeps the old buffer alive.
	if handle.LineContent(0, true) != "first" {
		t.Fatalf("line 0 = %q, want \"first\" (outstanding handle must stay valid)", handle.LineContent(0, true))
	}
	handle.Release()
}
