package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	manifestFile  = "report.json"
	documentsFile = "documents.jsonl"
	pairsFile     = "pairs.jsonl"
)

// Write writes report artifacts to dir.
func Write(dir string, manifest Manifest, docs []DocumentEntry, pairs []PairEntry) error {
	if len(docs) == 0 {
		return fmt.Errorf("no documents to write")
	}
	manifest.ReportVersion = Version
	if manifest.CreatedAt == "" {
		manifest.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	manifest.Flagged = len(pairs)
	manifest.DocumentsFile = documentsFile
	manifest.PairsFile = pairsFile

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create report dir %s: %w", dir, err)
	}

	mb, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), mb, 0o644); err != nil {
		return fmt.Errorf("cannot write manifest: %w", err)
	}

	if err := writeJSONL(filepath.Join(dir, documentsFile), docs); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(dir, pairsFile), pairs)
}

func writeJSONL[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Base(path), err)
	}
	bw := bufio.NewWriter(f)
	for _, r := range rows {
		line, err := json.Marshal(r)
		if err != nil {
			_ = f.Close()
			return err
		}
		if _, err := bw.Write(line); err != nil {
			_ = f.Close()
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
