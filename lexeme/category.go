package lexeme

import (
	"fmt"
	"strings"
)

// Category is a coarse grammatical class.
type Category uint8

// The zero value is deliberately not a member so that an unset category on a
// record can be told apart from OTHER.
const (
	Noun Category = iota + 1
	Verb
	Adjective
	Adverb
	Adposition
	Pronoun
	Number
	Conjunction
	Interjection
	Determiner
	Other
)

var categoryNames = [...]string{
	Noun:         "NOUN",
	Verb:         "VERB",
	Adjective:    "ADJECTIVE",
	Adverb:       "ADVERB",
	Adposition:   "ADPOSITION",
	Pronoun:      "PRONOUN",
	Number:       "NUMBER",
	Conjunction:  "CONJUNCTION",
	Interjection: "INTERJECTION",
	Determiner:   "DETERMINER",
	Other:        "OTHER",
}

// Categories returns every member of the enumeration in declaration order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryNames)-1)
	for c := Noun; c <= Other; c++ {
		out = append(out, c)
	}
	return out
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool { return c >= Noun && c <= Other }

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categoryNames[c]
}

// ParseCategory resolves a category name as produced by String. Matching is
// case-insensitive. Unlike Classify it fails on unknown names, since it is
// used at serialization boundaries where a bad name means a corrupt record.
func ParseCategory(name string) (Category, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	for c := Noun; c <= Other; c++ {
		if categoryNames[c] == n {
			return c, nil
		}
	}
	return 0, fmt.Errorf("lexeme: unknown category %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("lexeme: invalid category %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
