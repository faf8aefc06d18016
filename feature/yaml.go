package feature

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/viant/lexvec/lexeme"
)

// document is the YAML form of a Table:
//
//	features: [entity, action, ...]
//	categories:
//	  NOUN:
//	    default: [1, 0, 0, 0, 0, 0, 0]
//	    particles:
//	      Boson: [1, 0, 0, 0, 0, 0, 0]
type document struct {
	Features   []string               `yaml:"features"`
	Categories map[string]documentRow `yaml:"categories"`
}

type documentRow struct {
	Default   []float32            `yaml:"default"`
	Particles map[string][]float32 `yaml:"particles,omitempty"`
}

// ReadYAML decodes and validates a table.
func ReadYAML(r io.Reader) (*Table, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("feature: decode table: %w", err)
	}
	rows := make(map[lexeme.Category]Row, len(doc.Categories))
	for name, dr := range doc.Categories {
		c, err := lexeme.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("feature: %w", err)
		}
		if _, dup := rows[c]; dup {
			return nil, fmt.Errorf("feature: category %s defined twice", c)
		}
		rows[c] = Row{Default: dr.Default, Particles: dr.Particles}
	}
	return New(doc.Features, rows)
}

// LoadYAML reads a table from a YAML file.
func LoadYAML(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadYAML(f)
}

// WriteYAML encodes t in the form ReadYAML accepts.
func (t *Table) WriteYAML(w io.Writer) error {
	doc := document{
		Features:   t.Features(),
		Categories: make(map[string]documentRow, len(t.rows)),
	}
	for c, r := range t.rows {
		doc.Categories[c.String()] = documentRow{Default: r.Default, Particles: r.Particles}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
