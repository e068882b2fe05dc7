package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidKey = errors.New("local: invalid object key")

// Uploader writes photos into a directory served under PublicPrefix.
type Uploader struct {
	dir          string
	publicPrefix string
	logger       *slog.Logger
}

func NewUploader(dir, publicPrefix string, logger *slog.Logger) (*Uploader, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("local: upload dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local: create upload dir: %w", err)
	}
	if publicPrefix == "" {
		publicPrefix = "/uploads"
	}
	return &Uploader{
		dir:          dir,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
		logger:       logger,
	}, nil
}

// Upload stores reader under key. Keys are flat file names.
func (u *Uploader) Upload(ctx context.Context, key string, reader io.Reader, _ string) (string, error) {
	if reader == nil {
		return "", errors.New("local: reader is required")
	}
	key = strings.TrimSpace(key)
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(u.dir, key)
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("local: create %s: %w", key, err)
	}
	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("local: write %s: %w", key, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("local: close %s: %w", key, err)
	}

	publicURL := u.publicPrefix + "/" + key
	if u.logger != nil {
		u.logger.InfoContext(ctx, "photo stored", "path", target, "url", publicURL)
	}
	return publicURL, nil
}
