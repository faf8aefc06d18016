// Package lexeme classifies raw part-of-speech tags into the closed set of
// coarse grammatical categories used across lexvec, and derives the finer
// particle class for a tag. Both functions are total: unrecognized input
// resolves to OTHER and the Unknown particle class respectively.
package lexeme
