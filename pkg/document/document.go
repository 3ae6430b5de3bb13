// Package document decodes the three request documents (catalog,
// initial state, constraints) and encodes the resulting command list,
// per the external interfaces contract. JSON is the primary codec;
// a ".yaml"/".yml" path is decoded through the same struct tags via a
// JSON round-trip, so one set of tags serves both formats.
package document

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/operator-framework/pkgsolve/pkg/catalog"
)

// catalogEntry is the on-the-wire shape of one catalog package.
type catalogEntry struct {
	Name      string     `json:"name"`
	Version   string     `json:"version"`
	Size      int        `json:"size"`
	Depends   [][]string `json:"depends,omitempty"`
	Conflicts []string   `json:"conflicts,omitempty"`
}

// ReadCatalog decodes a catalog document from path.
func ReadCatalog(path string) ([]catalog.RawPackage, error) {
	var entries []catalogEntry
	if err := readDocument(path, &entries); err != nil {
		return nil, errors.Wrap(err, "reading catalog document")
	}
	raws := make([]catalog.RawPackage, len(entries))
	for i, e := range entries {
		raws[i] = catalog.RawPackage{
			Name:      e.Name,
			Version:   e.Version,
			Size:      e.Size,
			Depends:   e.Depends,
			Conflicts: e.Conflicts,
		}
	}
	return raws, nil
}

// ReadStrings decodes the initial-state or constraints document, both
// of which are a flat array of reference strings.
func ReadStrings(path string) ([]string, error) {
	var out []string
	if err := readDocument(path, &out); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return out, nil
}

// WriteCommands encodes commands as a compact JSON array to w.
func WriteCommands(w *os.File, commands []string) error {
	if commands == nil {
		commands = []string{}
	}
	enc := json.NewEncoder(w)
	return enc.Encode(commands)
}

// readDocument decodes path into dst, choosing the codec by file
// extension: ".yaml"/".yml" go through the YAML-to-JSON bridge,
// everything else is decoded as JSON directly.
func readDocument(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, dst); err != nil {
			return errors.Wrapf(catalog.ErrParse, "decoding YAML %s: %v", path, err)
		}
	default:
		if err := json.Unmarshal(data, dst); err != nil {
			return errors.Wrapf(catalog.ErrParse, "decoding JSON %s: %v", path, err)
		}
	}
	return nil
}
