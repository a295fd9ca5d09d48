package hookfsm

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// document is the declarative table format produced by code generators:
//
//	initial: DEFAULT
//	states: [DEFAULT, RUNNING, STOPPED]
//	transitions:
//	  - {name: run, from: DEFAULT, to: RUNNING}
//	  - {from: DEFAULT, to: STOPPED}
//
// JSON documents are accepted as well.
type document struct {
	Initial     StateID      `yaml:"initial,omitempty"`
	States      []StateID    `yaml:"states"`
	Transitions []Transition `yaml:"transitions"`
}

// LoadDefinition reads a table document from r
func LoadDefinition(r io.Reader) (*Definition, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	return ParseDefinition(raw)
}

// ParseDefinition decodes a table document. Unknown fields are rejected.
func ParseDefinition(raw []byte) (*Definition, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse definition: empty document")
		}
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	d := NewDefinition().State(doc.States...)
	for _, t := range doc.Transitions {
		d.NamedTransition(t.Name, t.From, t.To)
	}
	if doc.Initial != "" {
		d.Initial(doc.Initial)
	}
	return d, nil
}

// MarshalYAML renders the definition in the format ParseDefinition reads
func (d *Definition) MarshalYAML() (any, error) {
	return document{
		Initial:     d.initial,
		States:      d.states,
		Transitions: d.transitions,
	}, nil
}
