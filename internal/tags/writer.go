package tags

import (
	"fmt"
	"os"

	"github.com/bogem/id3v2"
)

// Tags holds the descriptive fields embedded into a recording.
type Tags struct {
	Title  string
	Album  string
	Artist string
}

// Write replaces all descriptive metadata in the audio file at path. A
// file without an existing tag header starts from an empty tag set.
func Write(path string, t Tags) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open id3 tag: %w", err)
	}
	tag.DeleteAllFrames()
	tag.SetVersion(3)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(t.Title)
	tag.SetAlbum(t.Album)
	tag.SetArtist(t.Artist)

	if err := tag.Save(); err != nil {
		tag.Close()
		return fmt.Errorf("save id3 tag: %w", err)
	}
	if err := tag.Close(); err != nil {
		return fmt.Errorf("close tagged file: %w", err)
	}

	if err := writeV1Trailer(path, t); err != nil {
		return fmt.Errorf("write id3v1 trailer: %w", err)
	}
	return nil
}

// writeV1Trailer appends (or overwrites) the fixed 128-byte ID3v1 record
// at the end of the file.
func writeV1Trailer(path string, t Tags) error {
	file, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	offset := info.Size()
	if offset >= 128 {
		existing := make([]byte, 3)
		if _, err := file.ReadAt(existing, offset-128); err != nil {
			return err
		}
		if string(existing) == "TAG" {
			offset -= 128
		}
	}

	trailer := make([]byte, 128)
	copy(trailer[0:3], "TAG")
	copyPadded(trailer[3:33], t.Title)
	copyPadded(trailer[33:63], t.Artist)
	copyPadded(trailer[63:93], t.Album)
	// year, comment: unused
	trailer[127] = 0xFF // no genre

	if _, err := file.WriteAt(trailer, offset); err != nil {
		return err
	}
	return file.Truncate(offset + 128)
}

func copyPadded(dst []byte, value string) {
	copy(dst, value)
}
