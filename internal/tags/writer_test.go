package tags_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bogem/id3v2"

	"airsync/internal/tags"
)

func writeAudioFixture(t *testing.T, contents []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "show-newest.mp3")
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestWriteSetsDescriptiveFields(t *testing.T) {
	path := writeAudioFixture(t, []byte("fake mpeg frames"))

	err := tags.Write(path, tags.Tags{
		Title:  "Episode 5",
		Album:  "Morning Mix",
		Artist: "Ana,Lee",
	})
	if err != nil {
		t.Fatalf("write tags: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen tag: %v", err)
	}
	defer tag.Close()

	if got := tag.Title(); got != "Episode 5" {
		t.Fatalf("expected title %q, got %q", "Episode 5", got)
	}
	if got := tag.Album(); got != "Morning Mix" {
		t.Fatalf("expected album %q, got %q", "Morning Mix", got)
	}
	if got := tag.Artist(); got != "Ana,Lee" {
		t.Fatalf("expected artist %q, got %q", "Ana,Lee", got)
	}
}

func TestWriteReplacesExistingTags(t *testing.T) {
	path := writeAudioFixture(t, []byte("fake mpeg frames"))

	if err := tags.Write(path, tags.Tags{Title: "Old Episode", Album: "Old Show", Artist: "Old Host"}); err != nil {
		t.Fatalf("write initial tags: %v", err)
	}
	if err := tags.Write(path, tags.Tags{Title: "New Episode", Album: "New Show", Artist: "New Host"}); err != nil {
		t.Fatalf("rewrite tags: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen tag: %v", err)
	}
	defer tag.Close()

	if got := tag.Title(); got != "New Episode" {
		t.Fatalf("expected rewritten title, got %q", got)
	}
	if got := tag.Artist(); got != "New Host" {
		t.Fatalf("expected rewritten artist, got %q", got)
	}
}

func TestWriteAppendsSingleV1Trailer(t *testing.T) {
	path := writeAudioFixture(t, []byte("fake mpeg frames"))

	fields := tags.Tags{Title: "Episode 5", Album: "Morning Mix", Artist: "Ana,Lee"}
	if err := tags.Write(path, fields); err != nil {
		t.Fatalf("write tags: %v", err)
	}
	sizeAfterFirst := fileSize(t, path)

	// A second write must overwrite the trailer, not stack another one.
	if err := tags.Write(path, fields); err != nil {
		t.Fatalf("rewrite tags: %v", err)
	}
	if got := fileSize(t, path); got != sizeAfterFirst {
		t.Fatalf("expected stable file size %d, got %d", sizeAfterFirst, got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if len(data) < 128 {
		t.Fatalf("file too small for a v1 trailer: %d bytes", len(data))
	}
	trailer := data[len(data)-128:]
	if string(trailer[:3]) != "TAG" {
		t.Fatalf("expected TAG marker, got %q", trailer[:3])
	}
	if got := strings.TrimRight(string(trailer[3:33]), "\x00"); got != "Episode 5" {
		t.Fatalf("expected v1 title %q, got %q", "Episode 5", got)
	}
	if got := strings.TrimRight(string(trailer[33:63]), "\x00"); got != "Ana,Lee" {
		t.Fatalf("expected v1 artist %q, got %q", "Ana,Lee", got)
	}
	if got := strings.TrimRight(string(trailer[63:93]), "\x00"); got != "Morning Mix" {
		t.Fatalf("expected v1 album %q, got %q", "Morning Mix", got)
	}
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	return info.Size()
}
