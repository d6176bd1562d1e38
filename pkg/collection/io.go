package collection

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/synclab/postsync/pkg/errors"
)

// Read loads and decodes a collection document from disk.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Decode(data)
}

// Decode parses a collection document from raw JSON.
func Decode(data []byte) (*Document, error) {
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	return doc, nil
}

// Encode renders the document exactly as Write persists it: two-space
// indentation and a trailing newline.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write atomically replaces the file at path with the encoded document.
// The bytes land in a temp file in the target directory first and are
// renamed into place, so a crash mid-write never leaves a torn document.
func (d *Document) Write(path string) error {
	data, err := d.Encode()
	if err != nil {
		return errors.WrapIO("encode", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapIO("close", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return errors.WrapIO("chmod", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
