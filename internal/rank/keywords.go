// Package rank scores listing text by agricultural signal terms. The score
// is deterministic and cheap: it pre-orders listings before the ranking
// model sees them and stands in for it entirely when the model is
// unavailable.
package rank

import (
	"regexp"
	"strings"

	porterstemmer "github.com/reiver/go-porterstemmer"
	"golang.org/x/text/unicode/norm"
)

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true, "is": true, "are": true, "in": true,
	"on": true, "it": true, "this": true, "that": true, "to": true, "for": true, "of": true, "with": true,
}

// signalWeights maps stemmed signal terms to their weight. Built in init so
// the stems always match what the stemmer produces at query time.
var signalWeights = map[string]float64{}

func init() {
	for word, weight := range map[string]float64{
		"acres":      3,
		"hectares":   3,
		"price":      2,
		"auction":    1,
		"irrigation": 2,
		"rainfall":   2,
		"pasture":    2,
		"grazing":    2,
		"cropping":   2,
		"soil":       1,
		"water":      1,
		"bore":       1,
		"paddock":    1,
		"fenced":     1,
		"homestead":  1,
		"rural":      1,
		"farm":       1,
		"livestock":  1,
	} {
		signalWeights[porterstemmer.StemString(word)] = weight
	}
}

var (
	reNonAlpha = regexp.MustCompile(`[^a-z\s]`)
	reSpaces   = regexp.MustCompile(`\s+`)
)

func normalize(text string) string {
	text = strings.ToLower(text)
	text = reNonAlpha.ReplaceAllString(text, " ")
	text = reSpaces.ReplaceAllString(text, " ")
	return norm.NFC.String(strings.TrimSpace(text))
}

func tokenize(text string) []string {
	var tokens []string
	for _, tok := range strings.Fields(normalize(text)) {
		if len(tok) <= 1 || stopWords[tok] {
			continue
		}
		tokens = append(tokens, porterstemmer.StemString(tok))
	}
	return tokens
}

// Score returns a length-normalized signal-term density for text, scaled to
// roughly 0-100. Empty or signal-free text scores zero.
func Score(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}
	var hits float64
	for _, tok := range tokens {
		if w, ok := signalWeights[tok]; ok {
			hits += w
		}
	}
	return hits / float64(len(tokens)) * 100
}
