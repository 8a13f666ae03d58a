package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/palemoky/smart-text-analyzer/internal/logger"
)

// DefaultExtensions are the file extensions picked up from directories
var DefaultExtensions = []string{".txt", ".md"}

// ErrTooLarge is returned when a document exceeds the configured size limit
var ErrTooLarge = errors.New("document exceeds size limit")

// Document is one text read in full
type Document struct {
	Name string
	Text string
}

// Options controls which files a TextLoader picks up
type Options struct {
	// Extensions filters directory entries, case-insensitive. Empty means DefaultExtensions.
	Extensions []string
	// Excludes are base-name glob patterns skipped in directories
	Excludes []string
	// MaxBytes rejects larger documents. Zero disables the check.
	MaxBytes int64
}

// TextLoader reads plain text documents from files and directories
type TextLoader struct {
	extensions map[string]bool
	excludes   []string
	maxBytes   int64
}

// NewTextLoader creates a new text loader
func NewTextLoader(opts Options) *TextLoader {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	extensions := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[ext] = true
	}

	return &TextLoader{
		extensions: extensions,
		excludes:   opts.Excludes,
		maxBytes:   opts.MaxBytes,
	}
}

// Load reads every path in order. Files named explicitly are always read;
// directories contribute their matching top-level files in name order.
func (l *TextLoader) Load(paths ...string) ([]Document, error) {
	var docs []Document

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path %s: %w", path, err)
		}

		if !info.IsDir() {
			doc, err := l.loadFile(path)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
			continue
		}

		dirDocs, err := l.loadDir(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, dirDocs...)
	}

	return docs, nil
}

// LoadReader reads a single document from r, e.g. standard input
func (l *TextLoader) LoadReader(name string, r io.Reader) (Document, error) {
	if l.maxBytes > 0 {
		r = io.LimitReader(r, l.maxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if l.maxBytes > 0 && int64(len(data)) > l.maxBytes {
		return Document{}, fmt.Errorf("%s: %w (%d bytes)", name, ErrTooLarge, l.maxBytes)
	}

	return Document{Name: name, Text: string(data)}, nil
}

func (l *TextLoader) loadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if l.excluded(name) {
			continue
		}
		if !l.extensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		path := filepath.Join(dir, name)
		doc, err := l.loadFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable file", zap.String("path", path), zap.Error(err))
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func (l *TextLoader) loadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return l.LoadReader(path, f)
}

func (l *TextLoader) excluded(name string) bool {
	for _, pattern := range l.excludes {
		if pattern == name {
			return true
		}
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
