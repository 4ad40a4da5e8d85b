package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source produces session snapshots.
type Source interface {
	Sessions(ctx context.Context) ([]TerminalSession, error)
}

// FileSource reads the snapshot the agent backend writes to disk. Files
// ending in .json are decoded as JSON, anything else as YAML. Both accept
// either a bare list or a document with a top-level "sessions" list.
type FileSource struct {
	Path string
}

type document struct {
	Sessions []TerminalSession `yaml:"sessions" json:"sessions"`
}

// Sessions loads the file. A missing file (or an empty Path) is an empty
// snapshot, not an error.
func (s FileSource) Sessions(ctx context.Context) ([]TerminalSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sessions file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	if strings.EqualFold(filepath.Ext(s.Path), ".json") {
		return decodeJSON(data)
	}
	return decodeYAML(data)
}

func decodeJSON(data []byte) ([]TerminalSession, error) {
	var list []TerminalSession
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode sessions json: %w", err)
	}
	return doc.Sessions, nil
}

func decodeYAML(data []byte) ([]TerminalSession, error) {
	var list []TerminalSession
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode sessions yaml: %w", err)
	}
	return doc.Sessions, nil
}

// StaticSource always returns the same snapshot.
type StaticSource []TerminalSession

// Sessions returns the snapshot.
func (s StaticSource) Sessions(context.Context) ([]TerminalSession, error) {
	return append([]TerminalSession(nil), s...), nil
}
