package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
namespaces:
  - name: text
    description: Text helpers
    commands:
      - name: upper
        description: Print a word in upper case
        run: echo {{quote .word}} | tr a-z A-Z
        arguments:
          - name: word
            required: true
          - name: times
            type: integer
            min: 1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		cfgFile, logLevel, catalogPath, scriptArgs = "", "", "", ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	catalog := writeFile(t, dir, "catalog.yaml", testCatalog)
	return writeFile(t, dir, "cmdscript.toml", `
[log]
level = "error"

[catalog]
path = "`+filepath.ToSlash(catalog)+`"
`)
}

func TestCatalogValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", testCatalog)
	bad := writeFile(t, dir, "bad.yaml", "namespaces:\n  - name: a\n    unknown: 1\n")

	out, err := execute(t, "catalog", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (1 namespaces, 1 commands)")

	out, err = execute(t, "catalog", "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, bad+":")
}

func TestCatalogList(t *testing.T) {
	cfg := testConfig(t)

	out, err := execute(t, "--config", cfg, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "text\n")
	assert.Contains(t, out, "upper")
	assert.Contains(t, out, "word (required)")
	assert.Contains(t, out, "<Integer (1..)>")
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()

	ok := writeFile(t, dir, "ok.cmd", "$x := 1\nIF $x > 0 THEN\n$y := 2\nEND IF\n")
	_, err := execute(t, "--config", cfg, "run", ok)
	require.NoError(t, err)

	failing := writeFile(t, dir, "failing.cmd", "$x := 1\nnosuch thing\n")
	_, err = execute(t, "--config", cfg, "run", failing)
	assert.Error(t, err)

	_, err = execute(t, "--config", cfg, "run", filepath.Join(dir, "missing.cmd"))
	assert.Error(t, err)
}
