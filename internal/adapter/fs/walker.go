package fs

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"jumanpp/internal/port"
)

var (
	_ port.FileWalker     = (*Walker)(nil)
	_ port.SentenceReader = (*Walker)(nil)
)

// maxLineBytes bounds one corpus line.
const maxLineBytes = 1024 * 1024

// Walker selects corpus files under a root with doublestar patterns and
// reads them as one sentence per line.
type Walker struct {
	includes []string
	excludes []string
}

func NewWalker(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*.txt"}
	}
	return &Walker{
		includes: includes,
		excludes: excludes,
	}
}

// Walk returns the matching files under root in lexical order. A root that
// is a regular file is returned as is.
func (w *Walker) Walk(root string) ([]port.FileInfo, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []port.FileInfo{toFileInfo(root, info)}, nil
	}

	var files []port.FileInfo
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && w.shouldExclude(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if w.shouldInclude(relPath) && !w.shouldExclude(relPath) {
			files = append(files, toFileInfo(path, info))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ReadSentences returns the non-blank lines of path with 1-based line
// numbers. A leading UTF-8 BOM is dropped.
func (w *Walker) ReadSentences(path string) ([]port.Sentence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sentences []port.Sentence
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		sentences = append(sentences, port.Sentence{Line: line, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sentences, nil
}

func (w *Walker) shouldInclude(path string) bool {
	for _, pattern := range w.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Walker) shouldExclude(path string) bool {
	for _, pattern := range w.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func toFileInfo(path string, info os.FileInfo) port.FileInfo {
	return port.FileInfo{
		Path:    path,
		ModTime: info.ModTime().Unix(),
		Size:    info.Size(),
	}
}
