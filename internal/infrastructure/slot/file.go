package slot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
)

var _ Storage = (*File)(nil)

var unsafeKeyRe = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// File guarda cada clave en <dir>/<clave>.json. La escritura va a un temporal y se
// renombra, de modo que un lector nunca ve un documento a medio escribir.
type File struct {
	dir string
}

// NewFile construye el almacén creando dir si no existe.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("slot: crear directorio %s: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, unsafeKeyRe.ReplaceAllString(key, "_")+".json")
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("slot: leer %s: %w", key, err)
	}
	return b, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(f.dir, ".slot-*")
	if err != nil {
		return fmt.Errorf("slot: temporal: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("slot: escribir %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("slot: cerrar %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("slot: renombrar %s: %w", key, err)
	}
	return nil
}

func (f *File) Delete(_ context.Context, key string) error {
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("slot: borrar %s: %w", key, err)
	}
	return nil
}
