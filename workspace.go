package goblockly

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// Block is one block instance of a visual program graph.
type Block struct {
	ID     string
	Type   string
	Fields map[string]string
	// Inputs maps an input name to the connected block: the expression for
	// value inputs, the first block of the sequence for statement inputs.
	Inputs map[string]*Block
	// Next is the following block in a statement sequence.
	Next *Block
	// Disabled blocks are skipped by code generation.
	Disabled bool
}

// NewBlock returns an unconnected block of the given type.
func NewBlock(typ string) *Block {
	return &Block{Type: typ, Fields: map[string]string{}, Inputs: map[string]*Block{}}
}

// SetField sets a field value and returns b for chaining.
func (b *Block) SetField(name, value string) *Block {
	if b.Fields == nil {
		b.Fields = map[string]string{}
	}
	b.Fields[name] = value
	return b
}

// Connect attaches child to the named input and returns b for chaining.
func (b *Block) Connect(input string, child *Block) *Block {
	if b.Inputs == nil {
		b.Inputs = map[string]*Block{}
	}
	b.Inputs[input] = child
	return b
}

// Then appends next after b in a statement sequence and returns next.
func (b *Block) Then(next *Block) *Block {
	b.Next = next
	return next
}

// Field returns the value of a field.
func (b *Block) Field(name string) (string, bool) {
	v, ok := b.Fields[name]
	return v, ok
}

// Input returns the block connected to an input, or nil.
func (b *Block) Input(name string) *Block { return b.Inputs[name] }

func (b *Block) ref() string {
	if b.ID != "" {
		return b.ID
	}
	return b.Type
}

// Workspace is a visual program: its top-level blocks in order.
type Workspace struct {
	Blocks []*Block
}

// NewWorkspace returns a workspace holding the given top-level blocks.
func NewWorkspace(blocks ...*Block) *Workspace { return &Workspace{Blocks: blocks} }

// workspaceJSON mirrors Blockly's JSON serialization.
type workspaceJSON struct {
	Blocks struct {
		LanguageVersion int          `json:"languageVersion"`
		Blocks          []*blockJSON `json:"blocks"`
	} `json:"blocks"`
	Variables []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"variables"`
}

type blockJSON struct {
	Type    string                     `json:"type"`
	ID      string                     `json:"id"`
	Enabled *bool                      `json:"enabled"`
	Fields  map[string]json.RawMessage `json:"fields"`
	Inputs  map[string]connectionJSON  `json:"inputs"`
	Next    *connectionJSON            `json:"next"`
}

type connectionJSON struct {
	Block  *blockJSON `json:"block"`
	Shadow *blockJSON `json:"shadow"`
}

func (c *connectionJSON) target() *blockJSON {
	if c == nil {
		return nil
	}
	if c.Block != nil {
		return c.Block
	}
	return c.Shadow
}

// DecodeWorkspace decodes a workspace from Blockly's JSON serialization
// ({"blocks":{"blocks":[...]}}). A connection without a real block falls
// back to its shadow block. Duplicate object keys are rejected.
func DecodeWorkspace(data []byte) (*Workspace, error) {
	if err := detectDuplicateKeys(data); err != nil {
		var dup *DuplicateKeyError
		errors.As(err, &dup)
		return nil, Issues{{Code: CodeInvalidWorkspace, Path: dup.Path, Message: "duplicate key " + strconv.Quote(dup.Key), Cause: err, Offset: -1}}
	}
	var raw workspaceJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, Issues{{Code: CodeInvalidWorkspace, Message: "invalid workspace JSON", Cause: err, Offset: -1}}
	}
	vars := make(map[string]string, len(raw.Variables))
	for _, v := range raw.Variables {
		vars[v.ID] = v.Name
	}
	ws := &Workspace{}
	for i, rb := range raw.Blocks.Blocks {
		b, err := convertBlock(rb, fmt.Sprintf("/blocks/%d", i), vars)
		if err != nil {
			return nil, err
		}
		ws.Blocks = append(ws.Blocks, b)
	}
	return ws, nil
}

func convertBlock(rb *blockJSON, path string, vars map[string]string) (*Block, error) {
	if rb == nil {
		return nil, issuef(CodeInvalidWorkspace, "", path, "null block")
	}
	if rb.Type == "" {
		return nil, issuef(CodeInvalidWorkspace, "", path, "block has no type")
	}
	b := NewBlock(rb.Type)
	b.ID = rb.ID
	b.Disabled = rb.Enabled != nil && !*rb.Enabled

	for name, v := range rb.Fields {
		s, err := fieldString(v, vars)
		if err != nil {
			return nil, Issues{{Code: CodeInvalidWorkspace, Kind: rb.Type, Path: path + "/fields/" + name, Message: "unreadable field value", Cause: err, Offset: -1}}
		}
		b.Fields[name] = s
	}
	for name, conn := range rb.Inputs {
		target := conn.target()
		if target == nil {
			continue
		}
		child, err := convertBlock(target, path+"/inputs/"+name, vars)
		if err != nil {
			return nil, err
		}
		b.Inputs[name] = child
	}
	if target := rb.Next.target(); target != nil {
		next, err := convertBlock(target, path+"/next", vars)
		if err != nil {
			return nil, err
		}
		b.Next = next
	}
	return b, nil
}

// fieldString flattens a serialized field value: strings are unquoted,
// variable references ({"id":..,"name":..}) yield their name, resolved
// through the workspace variable list when only the id is given, and
// numbers or booleans keep their JSON text.
func fieldString(v json.RawMessage, vars map[string]string) (string, error) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return "", nil
	}
	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{':
		var ref struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(v, &ref); err != nil {
			return "", err
		}
		if ref.Name != "" {
			return ref.Name, nil
		}
		if name, ok := vars[ref.ID]; ok {
			return name, nil
		}
		return ref.ID, nil
	}
	if _, err := strconv.ParseFloat(string(v), 64); err != nil && string(v) != "true" && string(v) != "false" && string(v) != "null" {
		return "", fmt.Errorf("unexpected field value %s", v)
	}
	return string(v), nil
}
