package feature

import (
	"fmt"

	"github.com/viant/lexvec/lexeme"
)

// Canonical feature names. Their order is the coordinate order of the
// default table.
const (
	Entity    = "entity"
	Action    = "action"
	Modifier  = "modifier"
	Relation  = "relation"
	Reference = "reference"
	Quantity  = "quantity"
	Affect    = "affect"
)

// Row holds the template vectors of one category.
type Row struct {
	// Default is used when no particle class is given or the given one has
	// no entry.
	Default []float32

	// Particles maps particle classes to their own template vectors.
	Particles map[string][]float32
}

// Table is an immutable category → vector lookup table.
type Table struct {
	features []string
	index    map[string]int
	rows     map[lexeme.Category]Row
}

// DefaultFeatures lists the seven canonical features.
func DefaultFeatures() []string {
	return []string{Entity, Action, Modifier, Relation, Reference, Quantity, Affect}
}

// defaultRows is the documented encoding of the canonical deployment.
//
//	category      entity action modifier relation reference quantity affect
//	NOUN           1      0      0        0        0         0        0
//	VERB           0      1      0        0        0         0        0
//	ADJECTIVE      0.2    0      1        0        0         0        0
//	ADVERB         0      0.2    1        0        0         0        0
//	ADPOSITION     0      0      0        1        0         0        0
//	PRONOUN        0.6    0      0        0        1         0        0
//	  Operator.Probe 0.3  0      0        0.4      1         0        0
//	NUMBER         0      0      0.3      0        0         1        0
//	CONJUNCTION    0      0      0        0.8      0         0        0
//	INTERJECTION   0      0      0        0        0         0        1
//	DETERMINER     0      0      0.2      0.3      0.7       0        0
//	OTHER          0      0      0        0        0         0        0
func defaultRows() map[lexeme.Category]Row {
	row := func(particle string, v []float32) Row {
		return Row{Default: v, Particles: map[string][]float32{particle: v}}
	}
	pronoun := row(lexeme.ParticleProxy, []float32{0.6, 0, 0, 0, 1, 0, 0})
	pronoun.Particles[lexeme.ParticleProbe] = []float32{0.3, 0, 0, 0.4, 1, 0, 0}

	return map[lexeme.Category]Row{
		lexeme.Noun:         row(lexeme.ParticleBoson, []float32{1, 0, 0, 0, 0, 0, 0}),
		lexeme.Verb:         row(lexeme.ParticleFermion, []float32{0, 1, 0, 0, 0, 0, 0}),
		lexeme.Adjective:    row(lexeme.ParticleScalarBoson, []float32{0.2, 0, 1, 0, 0, 0, 0}),
		lexeme.Adverb:       row(lexeme.ParticleScalarFerm, []float32{0, 0.2, 1, 0, 0, 0, 0}),
		lexeme.Adposition:   row(lexeme.ParticleGauge, []float32{0, 0, 0, 1, 0, 0, 0}),
		lexeme.Pronoun:      pronoun,
		lexeme.Number:       row(lexeme.ParticleQuantizer, []float32{0, 0, 0.3, 0, 0, 1, 0}),
		lexeme.Conjunction:  row(lexeme.ParticleOperator, []float32{0, 0, 0, 0.8, 0, 0, 0}),
		lexeme.Interjection: row(lexeme.ParticleImpulse, []float32{0, 0, 0, 0, 0, 0, 1}),
		lexeme.Determiner:   row(lexeme.ParticleAnchor, []float32{0, 0, 0.2, 0.3, 0.7, 0, 0}),
		lexeme.Other:        row(lexeme.ParticleUnknown, []float32{0, 0, 0, 0, 0, 0, 0}),
	}
}

var defaultTable = mustNew(DefaultFeatures(), defaultRows())

// Default returns the canonical seven-feature table.
func Default() *Table { return defaultTable }

func mustNew(features []string, rows map[lexeme.Category]Row) *Table {
	t, err := New(features, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// New builds a table from feature names and per-category rows. The inputs
// are copied. Every category of the lexeme enumeration must have a row and
// every vector must have one coordinate per feature.
func New(features []string, rows map[lexeme.Category]Row) (*Table, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("feature: no features defined")
	}
	t := &Table{
		features: append([]string(nil), features...),
		index:    make(map[string]int, len(features)),
		rows:     make(map[lexeme.Category]Row, len(rows)),
	}
	for i, name := range features {
		if name == "" {
			return nil, fmt.Errorf("feature: empty feature name at %d", i)
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("feature: duplicate feature %q", name)
		}
		t.index[name] = i
	}
	for c, r := range rows {
		if !c.Valid() {
			return nil, fmt.Errorf("feature: row for invalid category %d", uint8(c))
		}
		cp := Row{Default: clone(r.Default), Particles: make(map[string][]float32, len(r.Particles))}
		for p, v := range r.Particles {
			cp.Particles[p] = clone(v)
		}
		t.rows[c] = cp
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that the table is exhaustive over the lexeme enumeration
// and that every vector has the table's dimension.
func (t *Table) Validate() error {
	dim := len(t.features)
	for _, c := range lexeme.Categories() {
		r, ok := t.rows[c]
		if !ok {
			return fmt.Errorf("feature: no row for category %s", c)
		}
		if len(r.Default) != dim {
			return fmt.Errorf("feature: %s default has %d coordinates, want %d", c, len(r.Default), dim)
		}
		for p, v := range r.Particles {
			if len(v) != dim {
				return fmt.Errorf("feature: %s/%s has %d coordinates, want %d", c, p, len(v), dim)
			}
		}
	}
	return nil
}

// Dimension returns the vector length the table produces.
func (t *Table) Dimension() int { return len(t.features) }

// Features returns the feature names in coordinate order.
func (t *Table) Features() []string { return append([]string(nil), t.features...) }

// Index returns the coordinate of the named feature.
func (t *Table) Index(feature string) (int, bool) {
	i, ok := t.index[feature]
	return i, ok
}

// Encode returns the template vector for category c and particle class.
// An empty particle selects the category default. The boolean is false when
// the lookup fell back to a default: c outside the enumeration resolves to
// OTHER, and a particle without an entry to the category default. The
// returned slice is always a fresh copy.
func (t *Table) Encode(c lexeme.Category, particle string) ([]float32, bool) {
	r, ok := t.rows[c]
	if !ok {
		return clone(t.rows[lexeme.Other].Default), false
	}
	if particle == "" {
		return clone(r.Default), true
	}
	if v, ok := r.Particles[particle]; ok {
		return clone(v), true
	}
	return clone(r.Default), false
}

func clone(v []float32) []float32 {
	if v == nil {
		return nil
	}
	return append([]float32(nil), v...)
}
