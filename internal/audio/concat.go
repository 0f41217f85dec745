package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tcolgate/mp3"
)

// Concat splices the MP3 clips at paths into a single episode file, in
// input order. Clips are joined at the frame level: ID3v2 tags are
// stripped and the frame data appended, so the episode keeps each clip's
// encoding untouched. An empty clip list is a hard error; a single clip is
// a valid one-segment episode.
func Concat(paths []string, outPath string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no segments to combine")
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("create episode directory: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create episode file: %w", err)
	}
	defer out.Close()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read segment %s: %w", path, err)
		}
		if _, err := out.Write(stripID3v2(data)); err != nil {
			return fmt.Errorf("write episode: %w", err)
		}
	}

	return nil
}

// Duration sums the frame durations of the MP3 at path.
func Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d := mp3.NewDecoder(f)

	var total time.Duration
	var frame mp3.Frame
	skipped := 0
	for {
		if err := d.Decode(&frame, &skipped); err != nil {
			if err == io.EOF {
				break
			}
			// Trailing garbage after the last frame is common; keep what
			// decoded so far.
			break
		}
		total += frame.Duration()
	}

	if total == 0 {
		return 0, fmt.Errorf("no decodable frames in %s", path)
	}
	return total, nil
}

// stripID3v2 removes a leading ID3v2 tag if present. The tag header is ten
// bytes: "ID3", version, flags, then a four-byte syncsafe length.
func stripID3v2(data []byte) []byte {
	if len(data) < 10 || !bytes.HasPrefix(data, []byte("ID3")) {
		return data
	}

	size := int(data[6])<<21 | int(data[7])<<14 | int(data[8])<<7 | int(data[9])
	total := 10 + size
	if total > len(data) {
		return data
	}
	return data[total:]
}
