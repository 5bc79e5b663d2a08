package toolbox

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	goblockly "github.com/reoring/goblockly"
)

// Manifest describes a toolbox: which declaration files become which
// categories, in order.
type Manifest struct {
	Name string `yaml:"name" toml:"name"`
	// SkipBuiltins omits the standard Loops/Logic/Math/... categories.
	SkipBuiltins bool    `yaml:"skipBuiltins" toml:"skipBuiltins"`
	Entries      []Entry `yaml:"toolbox" toml:"toolbox"`
}

// Entry is a category or, with Kind "sep", a separator.
type Entry struct {
	Kind   string `yaml:"kind" toml:"kind"`
	Name   string `yaml:"name" toml:"name"`
	ID     string `yaml:"id" toml:"id"`
	Colour string `yaml:"colour" toml:"colour"`
	// BlockColour colours the synthesized blocks; defaults to the block
	// default colour.
	BlockColour string `yaml:"blockColour" toml:"blockColour"`
	// Declarations is a declaration file path inside the manifest's FS.
	Declarations string `yaml:"declarations" toml:"declarations"`
	// Core adds the statement wrapper to the category.
	Core bool `yaml:"core" toml:"core"`
	// Imports adds one star-import block per module.
	Imports []string `yaml:"imports" toml:"imports"`
}

const (
	entryCategory  = "category"
	entrySeparator = "sep"
)

// DuplicateKeyError reports a duplicate key found in a YAML mapping with both
// the first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// LoadManifest decodes a manifest, choosing YAML or TOML by the file
// extension of name. Unknown keys are rejected.
func LoadManifest(name string, data []byte) (*Manifest, error) {
	var (
		m   Manifest
		err error
	)
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, &m)
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).Strict(true).Decode(&m)
	default:
		return nil, manifestIssue(name, nil, "unsupported manifest format %q (want .yaml, .yml or .toml)", path.Ext(name))
	}
	if err != nil {
		return nil, manifestIssue(name, err, "cannot decode manifest: %v", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifestFS reads and decodes a manifest from fsys.
func LoadManifestFS(fsys fs.FS, name string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", name, err)
	}
	return LoadManifest(name, data)
}

func decodeYAML(data []byte, m *Manifest) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return err
	}
	if err := checkDuplicateKeys(&root); err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(m)
}

func checkDuplicateKeys(n *yaml.Node) error {
	if n.Kind == yaml.MappingNode {
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if pos, dup := first[k.Value]; dup {
				return &DuplicateKeyError{Key: k.Value, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[k.Value] = [2]int{k.Line, k.Column}
		}
	}
	for _, c := range n.Content {
		if err := checkDuplicateKeys(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manifest) validate() error {
	var iss goblockly.Issues
	ids := map[string]int{}
	for i := range m.Entries {
		e := &m.Entries[i]
		where := fmt.Sprintf("toolbox[%d]", i)
		if e.Kind == "" {
			e.Kind = entryCategory
		}
		switch e.Kind {
		case entrySeparator:
			continue
		case entryCategory:
		default:
			iss = goblockly.AppendIssues(iss, goblockly.Issue{Code: goblockly.CodeInvalidManifest, Path: where, Message: fmt.Sprintf("unknown entry kind %q", e.Kind), Offset: -1})
			continue
		}
		if e.Name == "" {
			iss = goblockly.AppendIssues(iss, goblockly.Issue{Code: goblockly.CodeInvalidManifest, Path: where, Message: "category has no name", Offset: -1})
			continue
		}
		if e.ID == "" {
			e.ID = strings.ToLower(e.Name)
		}
		if prev, dup := ids[e.ID]; dup {
			iss = goblockly.AppendIssues(iss, goblockly.Issue{Code: goblockly.CodeInvalidManifest, Path: where, Message: fmt.Sprintf("category id %q already used by toolbox[%d]", e.ID, prev), Offset: -1})
		}
		ids[e.ID] = i
		if e.Declarations == "" && !e.Core && len(e.Imports) == 0 {
			iss = goblockly.AppendIssues(iss, goblockly.Issue{Code: goblockly.CodeInvalidManifest, Path: where, Message: fmt.Sprintf("category %q has no declarations, core blocks or imports", e.Name), Offset: -1})
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func manifestIssue(name string, cause error, format string, args ...any) error {
	return goblockly.Issues{{
		Code:    goblockly.CodeInvalidManifest,
		Path:    name,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
		Offset:  -1,
	}}
}
