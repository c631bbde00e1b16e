package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// rawEntry is one top-level catalog object whose decoding is deferred until
// the key set has been checked for duplicates.
type rawEntry struct {
	key    string
	decode func(*entry) error
}

// Load parses the catalog at path and returns the validated programs sorted by
// key. The format is chosen from the extension: .toml, otherwise JSON.
//
// Invalid entries are skipped and reported in Catalog.Rejected. Duplicate
// program keys or shortcut names fail the whole load.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var raws []rawEntry
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		raws, err = decodeTOML(data)
	} else {
		raws, err = decodeJSON(data)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(raws))
	for _, r := range raws {
		if seen[r.key] {
			return nil, &DuplicateKeyError{Key: r.key}
		}
		seen[r.key] = true
	}

	cat := &Catalog{}
	for _, r := range raws {
		var e entry
		if err := r.decode(&e); err != nil {
			cat.Rejected = append(cat.Rejected, &EntryError{Key: r.key, Err: err})
			continue
		}
		if err := e.Validate(); err != nil {
			cat.Rejected = append(cat.Rejected, &EntryError{Key: r.key, Err: err})
			continue
		}
		cat.Programs = append(cat.Programs, e.program(r.key))
	}

	sort.Slice(cat.Programs, func(i, j int) bool {
		return cat.Programs[i].Key < cat.Programs[j].Key
	})
	sort.Slice(cat.Rejected, func(i, j int) bool {
		return cat.Rejected[i].Key < cat.Rejected[j].Key
	})

	owners := make(map[string]string, len(cat.Programs))
	cat.index = make(map[string]int, len(cat.Programs))
	for i, p := range cat.Programs {
		folded := strings.ToLower(p.ShortcutName)
		if other, ok := owners[folded]; ok {
			return nil, &DuplicateShortcutError{Shortcut: p.ShortcutName, Keys: [2]string{other, p.Key}}
		}
		owners[folded] = p.Key
		cat.index[p.Key] = i
	}

	return cat, nil
}

// decodeJSON walks the top-level object token by token; encoding/json would
// otherwise let a repeated key silently overwrite the first one.
func decodeJSON(data []byte) ([]rawEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("parse catalog: top level must be an object keyed by program id")
	}

	var raws []rawEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("parse catalog: unexpected token %v", tok)
		}
		var msg json.RawMessage
		if err := dec.Decode(&msg); err != nil {
			return nil, fmt.Errorf("parse catalog entry %q: %w", key, err)
		}
		raws = append(raws, rawEntry{
			key: key,
			decode: func(e *entry) error {
				return json.Unmarshal(msg, e)
			},
		})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return raws, nil
}

func decodeTOML(data []byte) ([]rawEntry, error) {
	var tables map[string]toml.Primitive
	md, err := toml.Decode(string(data), &tables)
	if err != nil {
		// The TOML parser itself refuses redefined tables and keys.
		var perr toml.ParseError
		if errors.As(err, &perr) && strings.Contains(perr.Message, "already") {
			return nil, &DuplicateKeyError{Detail: perr.Message}
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	raws := make([]rawEntry, 0, len(tables))
	for key, prim := range tables {
		prim := prim
		raws = append(raws, rawEntry{
			key: key,
			decode: func(e *entry) error {
				return md.PrimitiveDecode(prim, e)
			},
		})
	}
	return raws, nil
}
