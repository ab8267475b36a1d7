// Package storage persists the task and workspace collections as indented
// JSON documents under the data directory. A missing or damaged file is
// never fatal; only real filesystem failures are.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"taskman/internal/apperr"
)

// BackupSuffix is appended to a file's path before each overwrite.
// Backups are advisory: no read path consumes them automatically.
const BackupSuffix = ".backup"

// Gateway is the file-backed JSON persistence primitive the concrete
// stores are composed from. Each store owns a gateway rooted at its own
// directory.
type Gateway struct {
	dir string
	log *zap.Logger
}

// NewGateway creates the backing directory (and parents) if absent.
func NewGateway(dir string, log *zap.Logger) (*Gateway, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data directory %s: %v", apperr.ErrStorage, dir, err)
	}
	return &Gateway{dir: dir, log: log}, nil
}

// Dir returns the backing directory.
func (g *Gateway) Dir() string {
	return g.dir
}

// Path returns the full path of a file inside the backing directory.
func (g *Gateway) Path(name string) string {
	return filepath.Join(g.dir, name)
}

// ReadJSON decodes the file at path into v. It returns false when the file
// is absent, zero-length, or not valid JSON; a damaged file is logged and
// treated as "start fresh", never as a hard failure. Other read errors are
// storage failures.
func (g *Gateway) ReadJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: read %s: %v", apperr.ErrStorage, path, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		g.log.Warn("malformed JSON file treated as empty",
			zap.String("path", path), zap.Error(err))
		return false, nil
	}
	return true, nil
}

// WriteJSON overwrites the file at path with v serialized as indented
// JSON. HTML escaping is off so multilingual content stays readable.
func (g *Gateway) WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: encode %s: %v", apperr.ErrStorage, path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", apperr.ErrStorage, path, err)
	}
	return nil
}

// CreateBackup copies the file at path to its backup sibling. Best effort:
// a missing source is ignored and copy failures are logged and swallowed so
// they never block the primary write.
func (g *Gateway) CreateBackup(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			g.log.Warn("backup read failed", zap.String("path", path), zap.Error(err))
		}
		return
	}
	backupPath := path + BackupSuffix
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		g.log.Warn("backup write failed", zap.String("path", backupPath), zap.Error(err))
		return
	}
	g.log.Debug("backup created", zap.String("path", backupPath))
}

// DeleteFile removes the file at path. It returns false when the file was
// already absent; other failures are storage errors.
func (g *Gateway) DeleteFile(path string) (bool, error) {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: delete %s: %v", apperr.ErrStorage, path, err)
	}
	return true, nil
}

// FileExists reports whether the named file exists inside the backing
// directory.
func (g *Gateway) FileExists(name string) bool {
	_, err := os.Stat(g.Path(name))
	return err == nil
}
