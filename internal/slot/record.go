package slot

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Record schema versioning for forward-compatibility.
const recordVersion = 1

// RecordFileName is the record's name inside the user data directory.
const RecordFileName = "backend.json"

type recordFile struct {
	Version int    `json:"version"`
	Backend Record `json:"backend"`
}

// LoadRecord reads a record written by a running launcher. A missing file
// returns os.ErrNotExist.
func LoadRecord(path string) (Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	var f recordFile
	if err := json.Unmarshal(b, &f); err != nil {
		return Record{}, err
	}
	return f.Backend, nil
}

func saveRecord(path string, rec Record) error {
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(recordFile{Version: recordVersion, Backend: rec}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// RemoveRecord deletes a record left behind by a launcher that could not
// clean up. A missing file is not an error.
func RemoveRecord(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
