package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads a report from dir.
func Load(dir string) (*Report, error) {
	manifestPath := filepath.Join(dir, manifestFile)
	b, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read manifest %s: %w", manifestPath, err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest JSON %s: %w", manifestPath, err)
	}
	if m.ReportVersion != Version {
		return nil, fmt.Errorf("%w %d in %s", ErrUnsupportedVersion, m.ReportVersion, manifestPath)
	}
	if m.DocumentsFile == "" {
		m.DocumentsFile = documentsFile
	}
	if m.PairsFile == "" {
		m.PairsFile = pairsFile
	}

	docs, err := loadJSONL[DocumentEntry](filepath.Join(dir, m.DocumentsFile))
	if err != nil {
		return nil, err
	}
	pairs, err := loadJSONL[PairEntry](filepath.Join(dir, m.PairsFile))
	if err != nil {
		return nil, err
	}

	return &Report{Manifest: m, Documents: docs, Pairs: pairs}, nil
}

func loadJSONL[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	var out []T
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e T
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("invalid JSONL %s: %w", path, err)
		}
		out = append(out, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return out, nil
}
