package pipeline

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultBundleName is the archive name used for batch downloads.
const DefaultBundleName = "formation_bio_cvs.zip"

// Bundle packs the documents of successful results into a ZIP archive.
// Entries that would share a name get a numeric suffix.
func Bundle(results []*Result) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	used := make(map[string]int)
	for _, r := range results {
		if r == nil || r.Err != nil || len(r.Output) == 0 {
			continue
		}
		name := uniqueName(r.OutputName, used)
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: time.Now()})
		if err != nil {
			return nil, errors.Wrapf(err, "add %s to archive", name)
		}
		if _, err := w.Write(r.Output); err != nil {
			return nil, errors.Wrapf(err, "write %s to archive", name)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "close archive")
	}
	return buf.Bytes(), nil
}

func uniqueName(name string, used map[string]int) string {
	key := strings.ToLower(name)
	used[key]++
	if used[key] == 1 {
		return name
	}
	base := strings.TrimSuffix(name, ".docx")
	candidate := fmt.Sprintf("%s_%d.docx", base, used[key])
	// a generated name can itself collide with a later real one
	for used[strings.ToLower(candidate)] > 0 {
		used[key]++
		candidate = fmt.Sprintf("%s_%d.docx", base, used[key])
	}
	used[strings.ToLower(candidate)]++
	return candidate
}
