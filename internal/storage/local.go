package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the path stored files are served under.
const URLPrefix = "/files/"

// Local is a durable file store backed by a directory on disk. Stored files
// are addressed by uuid-derived names and exposed as URL paths.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{dir: dir}, nil
}

// Store moves a staged file into the store and returns its public URL path.
// The staged copy is gone afterwards.
func (l *Local) Store(ctx context.Context, stagedPath string) (string, error) {
	name := uuid.NewString() + filepath.Ext(stagedPath)
	dst := filepath.Join(l.dir, name)

	if err := os.Rename(stagedPath, dst); err != nil {
		// Staging and storage may live on different filesystems.
		if err := copyFile(stagedPath, dst); err != nil {
			return "", err
		}
		if err := os.Remove(stagedPath); err != nil {
			return "", err
		}
	}

	return URLPrefix + name, nil
}

// Path resolves a stored file name to its on-disk path for serving.
func (l *Local) Path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	path := filepath.Join(l.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
