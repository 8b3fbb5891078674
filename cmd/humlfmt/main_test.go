package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunFmt(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "doc.huml", "a: 1\nb: 2\n")
	var stdout, stderr bytes.Buffer

	code := run([]string{"fmt", path}, &stdout, &stderr)

	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	assert.Equal(t, "a: 1\nb: 2\n", stdout.String())
}

func TestRunCheckValid(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "doc.huml", "a: 1\n")
	var stdout, stderr bytes.Buffer

	code := run([]string{"check", path}, &stdout, &stderr)

	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	assert.Contains(t, stdout.String(), "ok")
}

func TestRunCheckInvalid(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "doc.huml", "a: 1\na: 2\n")
	var stdout, stderr bytes.Buffer

	code := run([]string{"check", path}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "DuplicateKey")
}

func TestRunConvertFromJSON(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "doc.json", `{"a": 1, "b": "x"}`)
	var stdout, stderr bytes.Buffer

	code := run([]string{"convert", "--from=json", path}, &stdout, &stderr)

	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	assert.Equal(t, "a: 1\nb: \"x\"\n", stdout.String())
}

func TestRunConvertFromYAML(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "doc.yaml", "a: 1\nb: x\n")
	var stdout, stderr bytes.Buffer

	code := run([]string{"convert", "--from=yaml", path}, &stdout, &stderr)

	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	assert.Equal(t, "a: 1\nb: \"x\"\n", stdout.String())
}

func TestRunConvertFromTOML(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "doc.toml", "a = 1\nb = \"x\"\n")
	var stdout, stderr bytes.Buffer

	code := run([]string{"convert", "--from=toml", path}, &stdout, &stderr)

	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	assert.Equal(t, "a: 1\nb: \"x\"\n", stdout.String())
}

func TestRunConvertUnsupportedFormat(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "doc.xml", "<a/>")
	var stdout, stderr bytes.Buffer

	code := run([]string{"convert", "--from=xml", path}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "unsupported format")
}

func TestRunEmitToJSON(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "doc.huml", "a: 1\nb: \"x\"\n")
	var stdout, stderr bytes.Buffer

	code := run([]string{"emit", "--to=json", path}, &stdout, &stderr)

	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	assert.JSONEq(t, `{"a": 1, "b": "x"}`, stdout.String())
}

func TestRunFmtMissingFile(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	code := run([]string{"fmt", filepath.Join(t.TempDir(), "missing.huml")}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "read input")
}
