// Package source reads and writes the JSON document holding the park's
// buildings, leases, payments and budget book.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/rentroll/internal/model"
)

// FileName is the data file's name inside the data directory.
const FileName = "rentroll.json"

// Decode reads a document from r, merged over the default document for
// now: absent collections stay empty and absent yearly targets keep their
// defaults. Computed dashboard fields stored by older writers are ignored.
func Decode(r io.Reader, now time.Time) (model.Document, error) {
	doc := model.DefaultDocument(now)
	data, err := io.ReadAll(r)
	if err != nil {
		return doc, fmt.Errorf("reading document: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return doc, nil
	}

	// Some stores hand the document back as a JSON string holding the
	// object. Unwrap one level.
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return doc, fmt.Errorf("decoding document string: %w", err)
		}
		data = []byte(inner)
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("decoding document: %w", err)
	}
	doc.NormalizeCollections()
	return doc, nil
}

// ReadDocument loads the document at path. A missing file yields the
// default document.
func ReadDocument(path string, now time.Time) (model.Document, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.DefaultDocument(now), nil
	}
	if err != nil {
		return model.Document{}, err
	}
	defer func() { _ = f.Close() }()

	doc, err := Decode(f, now)
	if err != nil {
		return doc, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc model.Document) error {
	doc.NormalizeCollections()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteDocument replaces the file at path with doc. The document is
// written to a temporary file in the same directory and renamed over the
// target, so readers never see a partial write. When keepBackup is set
// the previous file is copied into the backups directory first.
func WriteDocument(path string, doc model.Document, keepBackup bool) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if keepBackup {
		if err := backup(path, time.Now()); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, ".rentroll-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := Encode(tmp, doc); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
