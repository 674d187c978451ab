// Package corpus reads a directory of text files into the id → text mapping
// consumed by the detection pipeline.
package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Options controls which files are read and how they are decoded.
type Options struct {
	// Extensions limits the scan to files with these suffixes (".txt"). Empty means all files.
	Extensions []string
	// Excludes are glob patterns matched against the relative path and the base name.
	Excludes []string
	// Encoding is one of the Encoding* constants. Empty means auto.
	Encoding string
	// Recursive descends into subdirectories. Otherwise only root's own files are read.
	Recursive bool
}

// Document is one file of the corpus.
type Document struct {
	ID     string // slash-separated path relative to the corpus root
	Path   string
	Text   string
	Digest string // sha256 of the raw file bytes, hex
}

// Discover reads every matching file under root and returns them sorted by ID.
func Discover(root string, opts Options) ([]Document, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot stat corpus directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus path is not a directory: %s", root)
	}

	var out []Document
	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if matchesExclude(rel, opts.Excludes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !opts.Recursive || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !hasExtension(d.Name(), opts.Extensions) {
			return nil
		}

		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
		text, err := Decode(b, opts.Encoding)
		if err != nil {
			return fmt.Errorf("cannot decode %s: %w", path, err)
		}
		sum := sha256.Sum256(b)
		out = append(out, Document{
			ID:     filepath.ToSlash(rel),
			Path:   path,
			Text:   text,
			Digest: hex.EncodeToString(sum[:]),
		})
		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, fmt.Errorf("cannot scan corpus: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Texts returns the id → text mapping of docs.
func Texts(docs []Document) map[string]string {
	m := make(map[string]string, len(docs))
	for _, d := range docs {
		m[d.ID] = d.Text
	}
	return m
}

func hasExtension(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if ext == e {
			return true
		}
	}
	return false
}

// matchesExclude reports whether relPath matches any of the given glob patterns.
func matchesExclude(relPath string, patterns []string) bool {
	name := filepath.Base(relPath)
	slashed := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, slashed); matched {
			return true
		}
	}
	return false
}
