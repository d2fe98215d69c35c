package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDocumentFormats(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "scan.md")
	js := filepath.Join(dir, "scan.json")
	require.NoError(t, os.WriteFile(md, []byte("氏名：山田 太郎"), 0o644))
	require.NoError(t, os.WriteFile(js, []byte(`{"pages":[{"index":1,"markdown":"b"},{"index":0,"markdown":"a"}]}`), 0o644))

	doc, err := loadDocument(context.Background(), md)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, "氏名：山田 太郎", doc.Pages[0].Markdown)

	doc, err = loadDocument(context.Background(), js)
	require.NoError(t, err)
	assert.Equal(t, "a\n\nb", doc.Markdown())
}

func TestRunWritesWorkbooks(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "taro.md")
	require.NoError(t, os.WriteFile(in, []byte("氏名：山田 太郎\n"), 0o644))
	out := filepath.Join(dir, "out")

	failed, err := run(context.Background(), options{OutDir: out, PrintJSON: true, Inputs: []string{in, filepath.Join(dir, "missing.md")}})
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	assert.FileExists(t, filepath.Join(out, "taro.xlsx"))
	assert.FileExists(t, filepath.Join(out, "taro.json"))
}
