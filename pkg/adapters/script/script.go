// Package script runs scripted editing sessions against a string sequence.
//
// A script is a YAML or JSON document listing initial items and a series of
// steps. Each step is a sequence or traverser operation, optionally expected
// to fail with a given error kind:
//
//	name: queue
//	first_index: 1
//	items: [a, b, c]
//	steps:
//	  - op: remove-first
//	  - op: insert
//	    index: 2
//	    items: [x]
//	  - op: remove-value
//	    value: zz
//	    expect_error: item-not-found
package script

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/indexseq/pkg/core"
)

// ErrInvalidScript is returned for scripts that cannot be run.
var ErrInvalidScript = errors.New("invalid script")

// Operation names.
const (
	OpAppend       = "append"
	OpPrepend      = "prepend"
	OpInsert       = "insert"
	OpReplace      = "replace"
	OpRemoveFirst  = "remove-first"
	OpRemoveLast   = "remove-last"
	OpRemoveAt     = "remove-at"
	OpRemoveValue  = "remove-value"
	OpNext         = "next"
	OpPrevious     = "previous"
	OpReplaceLast  = "replace-last"
	OpInsertCursor = "insert-cursor"
	OpRemoveCursor = "remove-cursor"
	OpSeek         = "seek"
)

// Script is a scripted session.
type Script struct {
	Name       string   `yaml:"name" json:"name"`
	FirstIndex int      `yaml:"first_index" json:"first_index"`
	Strategy   string   `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	NonEmpty   bool     `yaml:"non_empty,omitempty" json:"non_empty,omitempty"`
	Items      []string `yaml:"items" json:"items"`
	Steps      []Step   `yaml:"steps" json:"steps"`

	// Path is the file the script was loaded from, if any.
	Path string `yaml:"-" json:"-"`
}

// Step is one operation of a script.
type Step struct {
	Op          string   `yaml:"op" json:"op"`
	Index       *int     `yaml:"index,omitempty" json:"index,omitempty"`
	End         bool     `yaml:"end,omitempty" json:"end,omitempty"`
	Items       []string `yaml:"items,omitempty" json:"items,omitempty"`
	Value       string   `yaml:"value,omitempty" json:"value,omitempty"`
	ExpectError string   `yaml:"expect_error,omitempty" json:"expect_error,omitempty"`
}

// values returns Items, or Value when no items are given.
func (s Step) values() []string {
	if len(s.Items) > 0 {
		return s.Items
	}
	return []string{s.Value}
}

// errorKinds lists the expect_error names in the order ErrorKind tries them.
// Observer failures come first so they win over their cause.
var errorKinds = []struct {
	name string
	err  error
}{
	{"observer-failure", core.ErrObserverFailure},
	{"invalid-index-range", core.ErrInvalidIndexRange},
	{"index-out-of-range", core.ErrIndexOutOfRange},
	{"item-not-found", core.ErrItemNotFound},
	{"sole-item-not-removable", core.ErrSoleItemNotRemovable},
	{"invalid-capacity", core.ErrInvalidCapacity},
	{"no-next-item", core.ErrNoNextItem},
	{"no-previous-item", core.ErrNoPreviousItem},
	{"no-item-to-replace", core.ErrNoItemToReplace},
	{"no-item-to-remove", core.ErrNoItemToRemove},
	{"stale-traverser", core.ErrStaleTraverser},
}

func lookupKind(name string) (error, bool) {
	for _, k := range errorKinds {
		if k.name == name {
			return k.err, true
		}
	}
	return nil, false
}

// isKind reports whether err matches the error kind called name.
func isKind(err error, name string) bool {
	kind, ok := lookupKind(name)
	return ok && errors.Is(err, kind)
}

// ErrorKind names the kind of err as used by expect_error, or "" if it has none.
// When err wraps several kinds the earliest in errorKinds is returned.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}

// Parse decodes a script. JSON is selected by a ".json" ext, YAML otherwise.
func Parse(data []byte, ext string) (*Script, error) {
	var sc Script
	if strings.EqualFold(ext, ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&sc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
		}
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads and parses the script at path. A missing name defaults to the file name.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	sc, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc.Path = path
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Validate checks that every step names a known operation with the fields it needs.
func (sc *Script) Validate() error {
	if sc.NonEmpty && len(sc.Items) == 0 {
		return fmt.Errorf("%w: non_empty requires at least one item", ErrInvalidScript)
	}
	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("%w: step %d (%s): %v", ErrInvalidScript, i+1, st.Op, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	switch s.Op {
	case OpInsert, OpReplace, OpRemoveAt:
		if s.Index == nil {
			return errors.New("index is required")
		}
	case OpSeek:
		if s.Index != nil && s.End {
			return errors.New("index and end are exclusive")
		}
	case OpAppend, OpPrepend, OpRemoveFirst, OpRemoveLast, OpRemoveValue,
		OpNext, OpPrevious, OpReplaceLast, OpInsertCursor, OpRemoveCursor:
	case "":
		return errors.New("op is required")
	default:
		return errors.New("unknown op")
	}
	if s.ExpectError != "" {
		if _, ok := lookupKind(s.ExpectError); !ok {
			return fmt.Errorf("unknown error kind %q", s.ExpectError)
		}
	}
	return nil
}
