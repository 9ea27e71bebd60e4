package parser

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubPDFExtractorReturnsSampleText(t *testing.T) {
	extractor := NewStubPDFExtractor()

	text, meta, err := extractor.ExtractTextFromBytes(context.Background(), []byte("%PDF-1.4 ..."), "resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, SampleResumeText, text)
	assert.Equal(t, "stub", meta["extractor"])
	assert.Equal(t, "resume.pdf", meta["source"])
}

func TestStubPDFExtractorMagicCheck(t *testing.T) {
	extractor := NewStubPDFExtractor(WithMagicCheck(true))

	_, _, err := extractor.ExtractTextFromBytes(context.Background(), []byte("not a pdf"), "x.pdf")
	assert.Error(t, err)

	_, _, err = extractor.ExtractTextFromReader(context.Background(), bytes.NewReader([]byte("%PDF-1.7")), "y.pdf")
	assert.NoError(t, err)
}

func TestStubPDFExtractorCustomText(t *testing.T) {
	extractor := NewStubPDFExtractor(WithStubText("EXPERIENCE\nIntern"))

	dir := t.TempDir()
	path := filepath.Join(dir, "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0644))

	text, _, err := extractor.ExtractFromFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "EXPERIENCE\nIntern", text)

	_, _, err = extractor.ExtractFromFile(context.Background(), filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)
}
