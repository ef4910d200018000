package jsonl

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// readLines reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped. A missing file reads as
// empty.
func readLines(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// maxLineSize bounds a single record; a blueprint with many fields is one line.
const maxLineSize = 4 * 1024 * 1024

// stagedFile is a fully written and fsynced temp file waiting to be
// renamed over its target.
type stagedFile struct {
	tmp    string
	target string
}

// stage writes one record per line to a temp file next to path and fsyncs
// it. Nothing visible changes until the returned file is renamed.
var stage = func(path string, records []json.RawMessage) (stagedFile, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return stagedFile{}, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(step string, err error) (stagedFile, error) {
		tmp.Close()
		os.Remove(tmpName)
		return stagedFile{}, fmt.Errorf("%s: %w", step, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return stagedFile{}, fmt.Errorf("closing temp file: %w", err)
	}
	return stagedFile{tmp: tmpName, target: path}, nil
}

// discard removes staged temp files that will not be renamed.
func discard(files []stagedFile) {
	for _, f := range files {
		os.Remove(f.tmp)
	}
}

// encodeAll marshals each record to a single JSON line.
func encodeAll[T any](records []T) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}
