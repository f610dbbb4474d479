package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSink_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink, err := NewLocalSink(dir)
	require.NoError(t, err)

	loc, err := sink.Put(context.Background(), "Jane_Doe_Formatted.docx", []byte("docx"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Jane_Doe_Formatted.docx"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "docx", string(data))
}

func TestLocalSink_RejectsPaths(t *testing.T) {
	sink, err := NewLocalSink(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../escape.docx", "sub/dir.docx"} {
		_, err := sink.Put(context.Background(), name, []byte("x"))
		assert.Error(t, err, name)
	}
}

func TestLocalSink_CancelledContext(t *testing.T) {
	sink, err := NewLocalSink(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sink.Put(ctx, "a.docx", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, ContentTypeDOCX, ContentType("a.DOCX"))
	assert.Equal(t, ContentTypeXLSX, ContentType("report.xlsx"))
	assert.Equal(t, ContentTypeZIP, ContentType("formation_bio_cvs.zip"))
	assert.Equal(t, ContentTypeJSON, ContentType("record.json"))
	assert.Equal(t, "application/octet-stream", ContentType("notes"))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "converted/a.docx", ObjectKey("converted", "a.docx"))
	assert.Equal(t, "converted/run/a.docx", ObjectKey("/converted/run/", "/a.docx"))
	assert.Equal(t, "a.docx", ObjectKey("", "a.docx"))
}

func TestNewS3Sink(t *testing.T) {
	_, err := NewS3Sink(S3Options{BucketName: "cvs"}, nil)
	assert.Error(t, err)

	sink, err := NewS3Sink(S3Options{Endpoint: "localhost:9000", BucketName: "cvs", AccessKeyID: "k", SecretAccessKey: "s"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", sink.opts.Region)
}
