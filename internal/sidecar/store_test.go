package sidecar_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"airsync/internal/sidecar"
)

func TestPaths(t *testing.T) {
	store := sidecar.NewStore("/data")
	if got, want := store.Path("morning-mix"), filepath.Join("/data", "morning-mix", "morning-mix.json"); got != want {
		t.Fatalf("expected sidecar path %q, got %q", want, got)
	}
	if got, want := store.AudioPath("morning-mix"), filepath.Join("/data", "morning-mix", "morning-mix-newest.mp3"); got != want {
		t.Fatalf("expected audio path %q, got %q", want, got)
	}
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	store := sidecar.NewStore(t.TempDir())
	if _, err := store.EnsureDir("morning-mix"); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}

	at := time.Date(2024, 3, 1, 9, 20, 0, 0, time.FixedZone("EST", -5*3600))
	rec := sidecar.NewRecord("https://cdn/ep5.mp3", 1048576, at)
	if err := store.Write("morning-mix", rec); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}

	loaded, err := store.Load("morning-mix")
	if err != nil {
		t.Fatalf("load sidecar: %v", err)
	}
	if loaded.URL != "https://cdn/ep5.mp3" {
		t.Fatalf("expected stored URL, got %q", loaded.URL)
	}
	if loaded.Filesize != 1048576 {
		t.Fatalf("expected filesize 1048576, got %d", loaded.Filesize)
	}
	if loaded.DownloadTime != "2024-03-01T09:20:00-05:00" {
		t.Fatalf("unexpected download time %q", loaded.DownloadTime)
	}

	downloadedAt, err := loaded.DownloadedAt()
	if err != nil {
		t.Fatalf("parse download time: %v", err)
	}
	if !downloadedAt.Equal(at) {
		t.Fatalf("expected %v, got %v", at, downloadedAt)
	}
}

func TestLoadMissingRecord(t *testing.T) {
	store := sidecar.NewStore(t.TempDir())
	if _, err := store.Load("never-downloaded"); !errors.Is(err, sidecar.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadAcceptsStringFilesize(t *testing.T) {
	root := t.TempDir()
	store := sidecar.NewStore(root)
	if _, err := store.EnsureDir("legacy"); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}

	legacy := `{"url": "https://cdn/old.mp3", "download_time": "2023-11-05T08:50:00-05:00", "filesize": "2048"}`
	if err := os.WriteFile(store.Path("legacy"), []byte(legacy), 0o644); err != nil {
		t.Fatalf("write legacy sidecar: %v", err)
	}

	rec, err := store.Load("legacy")
	if err != nil {
		t.Fatalf("load legacy sidecar: %v", err)
	}
	if rec.Filesize != 2048 {
		t.Fatalf("expected filesize 2048, got %d", rec.Filesize)
	}
}

func TestEnsureDirReportsCreation(t *testing.T) {
	store := sidecar.NewStore(t.TempDir())

	created, err := store.EnsureDir("brand-new")
	if err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	if !created {
		t.Fatal("expected first EnsureDir to report creation")
	}

	created, err = store.EnsureDir("brand-new")
	if err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	if created {
		t.Fatal("expected second EnsureDir to report no creation")
	}
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	root := t.TempDir()
	store := sidecar.NewStore(root)
	if _, err := store.EnsureDir("show"); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	if err := store.Write("show", sidecar.NewRecord("https://cdn/a.mp3", 1, time.Now())); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}
	if _, err := os.Stat(store.Path("show") + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected temp file to be gone, got %v", err)
	}
}
