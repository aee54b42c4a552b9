package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"
)

// FileWriter archives rendered statements to a local directory. The worker
// overwrites the previous statement on every export, so the directory always
// holds the latest version per participant.
type FileWriter struct {
	dir string
}

func NewFileWriter(dir string) (*FileWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &FileWriter{dir: dir}, nil
}

func (w *FileWriter) WriteStatement(ctx context.Context, s core.Statement) error {
	path := filepath.Join(w.dir, FileName(s.Name)+".txt")
	if err := os.WriteFile(path, []byte(RenderText(s)), 0o644); err != nil {
		return fmt.Errorf("write statement file: %w", err)
	}

	slog.InfoContext(ctx, "Statement exported",
		"participant", s.Name,
		"path", path,
		"months", len(s.Entries))
	return nil
}
