package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/viant/lexvec/lexeme"
	"github.com/viant/lexvec/vector"
)

// Format selects the snapshot encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat parses a format name; "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("snapshot: unknown format %q", name)
}

// Entry is the interchange shape of one record.
type Entry struct {
	Key      string    `json:"key" yaml:"key"`
	Category string    `json:"category" yaml:"category"`
	Particle string    `json:"particle_class" yaml:"particle_class"`
	Vector   []float32 `json:"vector" yaml:"vector,flow"`
	Gloss    string    `json:"gloss,omitempty" yaml:"gloss,omitempty"`
}

// FromRecord converts a store record to its interchange shape.
func FromRecord(r vector.Record) Entry {
	return Entry{
		Key:      r.Key,
		Category: r.Category.String(),
		Particle: r.Particle,
		Vector:   r.Vector,
		Gloss:    r.Gloss,
	}
}

// Record converts e to a store record and validates it against dim.
func (e Entry) Record(dim int) (vector.Record, error) {
	c, err := lexeme.ParseCategory(e.Category)
	if err != nil {
		return vector.Record{}, &vector.ValidationError{Key: e.Key, Field: "category", Reason: fmt.Sprintf("%q is unknown", e.Category)}
	}
	rec := vector.Record{Key: e.Key, Category: c, Particle: e.Particle, Vector: e.Vector, Gloss: e.Gloss}
	if err := rec.Validate(dim); err != nil {
		return vector.Record{}, err
	}
	return rec, nil
}

// Write encodes recs to w as a list of entries.
func Write(w io.Writer, format Format, recs []vector.Record) error {
	entries := make([]Entry, len(recs))
	for i, r := range recs {
		entries[i] = FromRecord(r)
	}
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("snapshot: unknown format %q", format)
}

// Read decodes a list of entries from r and converts each to a record of
// dimension dim. The first invalid entry fails the whole read; its error
// carries the entry position.
func Read(r io.Reader, format Format, dim int) ([]vector.Record, error) {
	var entries []Entry
	switch format {
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&entries); err != nil {
			return nil, fmt.Errorf("snapshot: decode json: %w", err)
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&entries); err != nil && err != io.EOF {
			return nil, fmt.Errorf("snapshot: decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("snapshot: unknown format %q", format)
	}
	recs := make([]vector.Record, 0, len(entries))
	for i, e := range entries {
		rec, err := e.Record(dim)
		if err != nil {
			return nil, fmt.Errorf("snapshot: entry %d: %w", i, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
