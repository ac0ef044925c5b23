package components

import (
	str "strings"
)

const (
	resourcePrefix     = "Resource:"
	typedLiteralPrefix = "TypedLiteral:"
	plainLiteralPrefix = "PlainLiteral:"
)

// Case flags of plain literal tokens
const (
	FlagCaseSensitive   = "s"
	FlagCaseInsensitive = "i"
)

// Unit is what one triple object contributes to the index: the triple's
// subject and predicate, plus a label rendering the (part of the) object.
type Unit struct {
	Subject   string
	Predicate string
	Label     string
}

// Token is a literal word that survived filtering, with its case flag
type Token struct {
	Text string
	Flag string
}

// TokenClassifier turns triples into units. Resources and typed literals
// give one unit each, plain literals give one unit per token that is left
// after symbol stripping and stop-word removal.
type TokenClassifier struct {
	stopWords StopWords
}

// NewTokenClassifier returns a TokenClassifier filtering with stopWords
func NewTokenClassifier(stopWords StopWords) *TokenClassifier {
	return &TokenClassifier{stopWords: stopWords}
}

// Classify returns the units of tr. A plain literal without surviving tokens
// gives no units.
func (c *TokenClassifier) Classify(tr Triple) []Unit {
	switch o := tr.Object.(type) {
	case Resource:
		return []Unit{{tr.Subject, tr.Predicate, resourcePrefix + o.IRI}}
	case TypedLiteral:
		return []Unit{{tr.Subject, tr.Predicate, typedLiteralPrefix + o.Text + "^^" + o.Datatype}}
	case PlainLiteral:
		tokens := c.Tokenize(o.Text)
		if len(tokens) == 0 {
			return nil
		}
		units := make([]Unit, 0, len(tokens))
		for _, tok := range tokens {
			label := plainLiteralPrefix + tok.Flag + ":" + tok.Text
			if o.Lang != "" {
				label += "@" + o.Lang
			}
			units = append(units, Unit{tr.Subject, tr.Predicate, label})
		}
		return units
	}
	return nil
}

// Tokenize splits text on whitespace, strips non-alphanumeric characters off
// both ends of every word, and drops empty words and stop words.
func (c *TokenClassifier) Tokenize(text string) []Token {
	var tokens []Token
	for _, word := range str.Fields(text) {
		word = stripSymbols(word)
		if word == "" {
			continue
		}
		if c.stopWords != nil && c.stopWords.IsStopWord(str.ToLower(word)) {
			continue
		}
		tokens = append(tokens, Token{Text: word, Flag: caseFlag(word)})
	}
	return tokens
}

// stripSymbols removes all leading and trailing characters that are not
// ASCII letters or digits
func stripSymbols(word string) string {
	start, end := 0, len(word)
	for start < end && !isAlphaNum(word[start]) {
		start++
	}
	for end > start && !isAlphaNum(word[end-1]) {
		end--
	}
	return word[start:end]
}

func isAlphaNum(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

func caseFlag(token string) string {
	if b := token[0]; 'A' <= b && b <= 'Z' {
		return FlagCaseSensitive
	}
	return FlagCaseInsensitive
}
