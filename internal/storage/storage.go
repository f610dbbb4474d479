// Package storage writes converted documents to their destination.
package storage

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Content types of the artifacts the converter produces
const (
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeZIP  = "application/zip"
	ContentTypeJSON = "application/json"
)

// Sink stores named artifacts and returns where each one went.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// ContentType returns the content type for a file name.
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".docx":
		return ContentTypeDOCX
	case ".xlsx":
		return ContentTypeXLSX
	case ".zip":
		return ContentTypeZIP
	case ".json":
		return ContentTypeJSON
	default:
		return "application/octet-stream"
	}
}

// LocalSink writes artifacts into a directory.
type LocalSink struct {
	Dir string
}

// NewLocalSink creates dir if needed.
func NewLocalSink(dir string) (*LocalSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create output directory %s", dir)
	}
	return &LocalSink{Dir: dir}, nil
}

// Put writes data to Dir/name. name must be a bare file name.
func (s *LocalSink) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || filepath.Base(name) != name {
		return "", errors.Errorf("invalid output name %q", name)
	}
	target := filepath.Join(s.Dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "write %s", target)
	}
	return target, nil
}
