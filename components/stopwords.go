package components

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// StopWords tells whether a lowercased token is excluded from the index
type StopWords interface {
	IsStopWord(lowercaseToken string) bool
}

// EnglishStopWords is the stop-word set used when no stop-word file is
// configured
var EnglishStopWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by",
	"for", "if", "in", "into", "is", "it",
	"no", "not", "of", "on", "or", "such",
	"that", "the", "their", "then", "there", "these",
	"they", "this", "to", "was", "will", "with",
}

// StopList is a set based StopWords
type StopList struct {
	words map[string]struct{}
}

// NewStopList returns a StopList of the given words. Words are lowercased,
// so lookups are case-insensitive as long as callers lowercase the token.
func NewStopList(words []string) *StopList {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &StopList{words: set}
}

// IsStopWord checks if lowercaseToken is in the list
func (s *StopList) IsStopWord(lowercaseToken string) bool {
	_, ok := s.words[lowercaseToken]
	return ok
}

// Len returns the number of distinct stop words
func (s *StopList) Len() int {
	return len(s.words)
}

// stopListFile is the YAML layout of a stop-word file:
//
//	terms:
//	  - the
//	  - a
type stopListFile struct {
	Terms []string `yaml:"terms"`
}

// LoadStopList reads a YAML stop-word file from fs
func LoadStopList(fs afero.Fs, path string) (*StopList, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("load stop words: %w", err)
	}
	var f stopListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("load stop words %s: %w", path, err)
	}
	return NewStopList(f.Terms), nil
}
