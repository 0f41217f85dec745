// Package sources reads the local source directory: hand-maintained URL
// lists plus loose text documents dropped next to them.
package sources

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/abelbrown/newsreel/internal/logging"
)

// Listing is the result of scanning a source directory.
type Listing struct {
	URLs        []string
	YouTubeURLs []string
	TextFiles   []string
	OtherFiles  []string
}

// ReadURLList reads one URL per line from path. Blank lines and lines
// starting with '#' are ignored. A read failure logs a warning and returns
// an empty list; a missing file never stops a run.
func ReadURLList(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		logging.Warn("failed to read url list", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		logging.Warn("failed to read url list", "path", path, "error", err)
	}
	return urls
}

// ReadTextFile returns the content of a text file, or "" on failure.
func ReadTextFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		logging.Warn("failed to read text file", "path", path, "error", err)
		return ""
	}
	return string(data)
}

// Scan inspects dir for urls.txt, youtube_urls.txt, and loose documents.
// A missing directory yields an empty listing.
func Scan(dir string) Listing {
	var l Listing

	if _, err := os.Stat(dir); err != nil {
		return l
	}

	if path := filepath.Join(dir, "urls.txt"); exists(path) {
		l.URLs = ReadURLList(path)
	}
	if path := filepath.Join(dir, "youtube_urls.txt"); exists(path) {
		l.YouTubeURLs = ReadURLList(path)
	}

	txts, _ := filepath.Glob(filepath.Join(dir, "*.txt"))
	for _, path := range txts {
		name := filepath.Base(path)
		if name == "urls.txt" || name == "youtube_urls.txt" {
			continue
		}
		l.TextFiles = append(l.TextFiles, path)
	}

	for _, ext := range []string{"*.md", "*.pdf", "*.docx"} {
		matches, _ := filepath.Glob(filepath.Join(dir, ext))
		l.OtherFiles = append(l.OtherFiles, matches...)
	}

	return l
}

// ExtractPDFText is a stub until PDF extraction lands.
func ExtractPDFText(path string) string {
	logging.Warn("pdf extraction not yet implemented", "path", path)
	return ""
}

// ExtractDOCXText is a stub until DOCX extraction lands.
func ExtractDOCXText(path string) string {
	logging.Warn("docx extraction not yet implemented", "path", path)
	return ""
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
