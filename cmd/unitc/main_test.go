package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/unitres"
)

const lampYAML = `
name: lamp
nodes:
  - name: shade
    parent: arm
    position: [0, 2, 0]
  - name: base
  - name: arm
    parent: base
    position: [1, 0, 0]
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCompileThenDump(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "lamp.yaml", lampYAML)
	out := filepath.Join(dir, "lamp.arbn")

	_, err := run(t, "compile", in, "-o", out)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	layout, err := unitres.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, []int32{-1, 0, 1}, layout.Parents)
	assert.Equal(t, arbor.HashName("base"), layout.Names[0])

	text, err := run(t, "dump", out)
	require.NoError(t, err)
	assert.Contains(t, text, "NODE")
	assert.Contains(t, text, fmt.Sprintf("%#08x", uint32(arbor.HashName("shade"))))
	assert.Contains(t, text, "(0, 2, 0)")
}

func TestCompileDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "lamp.yaml", lampYAML)

	_, err := run(t, "compile", in)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "lamp.arbn"))
}

func TestCompileRejectsInvalidUnit(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "bad.yaml", "name: bad\nnodes:\n  - name: a\n    parent: ghost\n")
	out := filepath.Join(dir, "bad.arbn")

	_, err := run(t, "compile", in, "-o", out)
	require.Error(t, err)
	assert.ErrorIs(t, err, unitres.ErrInvalidUnit)
	assert.NoFileExists(t, out)
}

func TestDumpRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "junk.arbn", "not a layout at all")

	_, err := run(t, "dump", p)
	assert.ErrorIs(t, err, unitres.ErrBadFormat)
}

func TestArgsRequired(t *testing.T) {
	_, err := run(t, "compile")
	assert.Error(t, err)
	_, err = run(t, "dump")
	assert.Error(t, err)
}
