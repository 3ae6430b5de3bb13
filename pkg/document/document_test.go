package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operator-framework/pkgsolve/pkg/catalog"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestReadCatalogJSON(t *testing.T) {
	path := writeFile(t, "catalog.json", `[
		{"name":"A","version":"1","size":10,"depends":[["B"]],"conflicts":["C"]},
		{"name":"B","version":"1","size":3}
	]`)

	raws, err := ReadCatalog(path)
	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.Equal(t, "A", raws[0].Name)
	assert.Equal(t, [][]string{{"B"}}, raws[0].Depends)
	assert.Equal(t, []string{"C"}, raws[0].Conflicts)
}

func TestReadCatalogYAML(t *testing.T) {
	path := writeFile(t, "catalog.yaml", "- name: A\n  version: \"1\"\n  size: 10\n")

	raws, err := ReadCatalog(path)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "A", raws[0].Name)
	assert.Equal(t, 10, raws[0].Size)
}

func TestReadStrings(t *testing.T) {
	path := writeFile(t, "initial.json", `["A=1", "+B"]`)
	out, err := ReadStrings(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A=1", "+B"}, out)
}

func TestReadDocumentMalformedIsParseError(t *testing.T) {
	path := writeFile(t, "catalog.json", `not json`)
	_, err := ReadCatalog(path)
	assert.ErrorIs(t, err, catalog.ErrParse)
}

func TestWriteCommands(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "out.json"))
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, WriteCommands(f, []string{"+A=1", "-B=1"}))

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "[\"+A=1\",\"-B=1\"]\n", string(data))
}

func TestWriteCommandsEmpty(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "out.json"))
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, WriteCommands(f, nil))

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}
