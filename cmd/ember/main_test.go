package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.js")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestRunPrintsResult(t *testing.T) {
	path := writeScript(t, "1 + 2 * 3")
	var stdout, stderr bytes.Buffer
	code := doRun([]string{"-print", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Equal(t, "7\n", stdout.String())
}

func TestRunHostPrintFunction(t *testing.T) {
	path := writeScript(t, "print('hello', 40 + 2);")
	var stdout, stderr bytes.Buffer
	code := doRun([]string{path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Equal(t, "hello 42\n", stdout.String())
}

func TestRunReportsUncaughtThrowWithCaret(t *testing.T) {
	path := writeScript(t, "var ok = 1;\nmissing()")
	var stdout, stderr bytes.Buffer
	code := doRun([]string{path}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "ReferenceError")
	require.Contains(t, stderr.String(), "missing()")
	require.Contains(t, stderr.String(), "^")
}

func TestCheckAcceptsValidScript(t *testing.T) {
	path := writeScript(t, "var a = 1;")
	var stderr bytes.Buffer
	require.Equal(t, 0, doCheck([]string{path}, &stderr))
}

func TestCheckRejectsSyntaxError(t *testing.T) {
	path := writeScript(t, "var = ;")
	var stderr bytes.Buffer
	require.Equal(t, 1, doCheck([]string{path}, &stderr))
	require.Contains(t, stderr.String(), "SyntaxError")
}

func TestMissingFileFails(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 1, doRun([]string{filepath.Join(t.TempDir(), "absent.js")}, &stdout, &stderr))
}
