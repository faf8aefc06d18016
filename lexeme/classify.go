package lexeme

import "strings"

// Particle classes. Each category has one default class; a few tags select
// a more specific class within their category.
const (
	ParticleUnknown     = "Unknown"
	ParticleBoson       = "Boson"
	ParticleFermion     = "Fermion"
	ParticleProxy       = "Boson.Proxy"
	ParticleScalarBoson = "Scalar.Boson"
	ParticleScalarFerm  = "Scalar.Fermion"
	ParticleGauge       = "Gauge"
	ParticleOperator    = "Operator"
	ParticleImpulse     = "Scalar.Impulse"
	ParticleQuantizer   = "Scalar.Quantizer"
	ParticleAnchor      = "Anchor.Gauge"
	ParticleProbe       = "Operator.Probe"
)

// tagFamilies maps normalized tags to categories. It merges Penn Treebank,
// Universal Dependencies and plain-word labels.
var tagFamilies = map[string]Category{
	"N": Noun, "NN": Noun, "NNS": Noun, "NNP": Noun, "NNPS": Noun, "NOUN": Noun, "PROPN": Noun,

	"V": Verb, "VB": Verb, "VBD": Verb, "VBG": Verb, "VBN": Verb, "VBP": Verb, "VBZ": Verb,
	"MD": Verb, "VERB": Verb, "AUX": Verb,

	"JJ": Adjective, "JJR": Adjective, "JJS": Adjective, "ADJ": Adjective, "ADJECTIVE": Adjective,

	"RB": Adverb, "RBR": Adverb, "RBS": Adverb, "WRB": Adverb, "ADV": Adverb, "ADVERB": Adverb,

	"IN": Adposition, "TO": Adposition, "RP": Adposition, "ADP": Adposition,
	"PREPOSITION": Adposition, "POSTPOSITION": Adposition, "ADPOSITION": Adposition,

	"PRP": Pronoun, "PRP$": Pronoun, "WP": Pronoun, "WP$": Pronoun, "EX": Pronoun,
	"PRON": Pronoun, "PRONOUN": Pronoun, "QUESTION": Pronoun,

	"CD": Number, "NUM": Number, "NUMBER": Number, "NUMERAL": Number,

	"CC": Conjunction, "CCONJ": Conjunction, "SCONJ": Conjunction, "CONJ": Conjunction,
	"CONJUNCTION": Conjunction,

	"UH": Interjection, "INTJ": Interjection, "INTERJECTION": Interjection,

	"DT": Determiner, "PDT": Determiner, "WDT": Determiner, "DET": Determiner,
	"DETERMINER": Determiner, "DEMONSTRATIVE": Determiner,

	"OTHER": Other,
}

// tagPrefixes catch extended tags such as "NN-TL" or "VBZ-HL".
var tagPrefixes = []struct {
	prefix   string
	category Category
}{
	{"NN", Noun},
	{"VB", Verb},
	{"JJ", Adjective},
	{"RB", Adverb},
	{"PRP", Pronoun},
	{"WP", Pronoun},
}

// wordParticles carries the particle classes of the plain-word labels.
var wordParticles = map[string]string{
	"NOUN":          ParticleBoson,
	"VERB":          ParticleFermion,
	"PRONOUN":       ParticleProxy,
	"ADJECTIVE":     ParticleScalarBoson,
	"ADVERB":        ParticleScalarFerm,
	"PREPOSITION":   ParticleGauge,
	"CONJUNCTION":   ParticleOperator,
	"INTERJECTION":  ParticleImpulse,
	"NUMBER":        ParticleQuantizer,
	"DEMONSTRATIVE": ParticleAnchor,
	"QUESTION":      ParticleProbe,
	"WP":            ParticleProbe,
	"WP$":           ParticleProbe,
}

var defaultParticles = map[Category]string{
	Noun:         ParticleBoson,
	Verb:         ParticleFermion,
	Adjective:    ParticleScalarBoson,
	Adverb:       ParticleScalarFerm,
	Adposition:   ParticleGauge,
	Pronoun:      ParticleProxy,
	Number:       ParticleQuantizer,
	Conjunction:  ParticleOperator,
	Interjection: ParticleImpulse,
	Determiner:   ParticleAnchor,
	Other:        ParticleUnknown,
}

func normalize(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}

// Classify maps a raw grammatical tag to its coarse category. It never fails:
// empty and unrecognized tags resolve to Other.
func Classify(rawTag string) Category {
	tag := normalize(rawTag)
	if tag == "" {
		return Other
	}
	if c, ok := tagFamilies[tag]; ok {
		return c
	}
	for _, p := range tagPrefixes {
		if strings.HasPrefix(tag, p.prefix) {
			return p.category
		}
	}
	return Other
}

// Particle derives the particle class for a raw tag: the specific class of a
// plain-word label when there is one, otherwise the default class of the
// tag's category.
func Particle(rawTag string) string {
	tag := normalize(rawTag)
	if tag == "" {
		return ParticleUnknown
	}
	if p, ok := wordParticles[tag]; ok {
		return p
	}
	return DefaultParticle(Classify(tag))
}

// DefaultParticle returns the default particle class of c, or
// ParticleUnknown for values outside the enumeration.
func DefaultParticle(c Category) string {
	if p, ok := defaultParticles[c]; ok {
		return p
	}
	return ParticleUnknown
}
