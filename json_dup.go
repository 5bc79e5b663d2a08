package goblockly

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// DuplicateKeyError reports an object key that appears twice. Path is the
// JSON pointer of the object holding the key.
type DuplicateKeyError struct {
	Key  string
	Path string
}

func (e *DuplicateKeyError) Error() string {
	return "duplicate key " + strconv.Quote(e.Key) + " in " + e.Path
}

// detectDuplicateKeys walks the JSON token stream of data and fails on the
// first object with a repeated key. Syntax errors are left to the real
// decoder.
func detectDuplicateKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err == nil {
		err = walkDupValue(dec, tok, "")
	}
	var dup *DuplicateKeyError
	if errors.As(err, &dup) {
		return err
	}
	return nil
}

// walkDupValue consumes the value starting with tok.
func walkDupValue(dec *json.Decoder, tok any, path string) error {
	d, ok := tok.(json.Delim)
	if !ok {
		return nil
	}
	switch d {
	case '{':
		keys := map[string]struct{}{}
		for {
			kt, err := dec.Token()
			if err != nil {
				return err
			}
			if kt == json.Delim('}') {
				return nil
			}
			k, _ := kt.(string)
			if _, seen := keys[k]; seen {
				return &DuplicateKeyError{Key: k, Path: pointer(path)}
			}
			keys[k] = struct{}{}
			vt, err := dec.Token()
			if err != nil {
				return err
			}
			if err := walkDupValue(dec, vt, path+"/"+escapePointer(k)); err != nil {
				return err
			}
		}
	case '[':
		for i := 0; ; i++ {
			vt, err := dec.Token()
			if err != nil {
				return err
			}
			if vt == json.Delim(']') {
				return nil
			}
			if err := walkDupValue(dec, vt, path+"/"+strconv.Itoa(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func pointer(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(k string) string { return pointerEscaper.Replace(k) }
