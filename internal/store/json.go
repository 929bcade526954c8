package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ykvlv/routine-bot/internal/domain"
)

// JSONFile implements Persistence on a single JSON document of the form
// {"users": {"<chat_id>": {...}}}. Saves write a temp file and rename it over
// the target, so readers see either the old or the new snapshot.
type JSONFile struct {
	path string
}

type jsonDoc struct {
	Users map[string]domain.User `json:"users"`
}

// OpenJSONFile prepares a JSON-file persistence at path.
func OpenJSONFile(path string) (*JSONFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &JSONFile{path: path}, nil
}

// Load reads the document; a missing file is an empty snapshot.
func (j *JSONFile) Load(_ context.Context) (domain.Snapshot, error) {
	b, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Snapshot{}, nil
	}
	if err != nil {
		return nil, err
	}

	var doc jsonDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", j.path, err)
	}
	snap := make(domain.Snapshot, len(doc.Users))
	for key, u := range doc.Users {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		u.ChatID = id
		u.Normalize()
		snap[id] = u
	}
	return snap, nil
}

// Save writes snap to a temp file in the same directory, then renames it.
func (j *JSONFile) Save(_ context.Context, snap domain.Snapshot) error {
	doc := jsonDoc{Users: make(map[string]domain.User, len(snap))}
	for id, u := range snap {
		doc.Users[strconv.FormatInt(id, 10)] = u
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(j.path), filepath.Base(j.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, j.path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func (j *JSONFile) Close() error { return nil }
