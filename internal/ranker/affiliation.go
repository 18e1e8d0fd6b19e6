package ranker

import (
	"strings"
	"sync"
	"unicode"

	"github.com/surgebase/porter2"
)

// affiliation normalization: lowercase, fold separator punctuation down to
// commas, drop noise characters, split into chunks, and strip stopwords
// from each chunk. Each surviving word is additionally passed through a
// Porter2 stemmer so "universities"/"university" and similar affiliation
// variants overlap instead of comparing as distinct chunks.
var stopWords = map[string]bool{
	"the": true, "of": true, "a": true, "an": true, "and": true, "&": true,
}

var abbreviations = map[string]string{
	"inst": "institute",
	"u":    "university",
	"uni":  "university",
	"univ": "university",
}

var separatorChars = map[rune]bool{
	'|': true, ';': true, '@': true, '/': true,
	'–': true, '—': true, '―': true,
}

var removeChars = map[rune]bool{'.': true, ':': true, '-': true}

var affilCache sync.Map // string -> []string

// normalizeAffiliation returns the comma-chunked, stopword-stripped,
// abbreviation-expanded, stemmed word lists route ranker scoring compares
// for overlap. Results are memoized since the same affiliation string
// recurs across many documents within a single ranking run.
func normalizeAffiliation(affil string) []string {
	if cached, ok := affilCache.Load(affil); ok {
		return cached.([]string)
	}

	lower := strings.ToLower(affil)
	lower = strings.ReplaceAll(lower, " at ", ",")

	var b strings.Builder
	for _, c := range lower {
		switch {
		case removeChars[c]:
			continue
		case unicode.IsDigit(c):
			continue
		case !unicode.IsPrint(c):
			continue
		case separatorChars[c]:
			b.WriteByte(',')
		default:
			b.WriteRune(c)
		}
	}

	var chunks []string
	for _, rawChunk := range strings.Split(b.String(), ",") {
		var words []string
		for _, word := range strings.Fields(rawChunk) {
			if stopWords[word] {
				continue
			}
			if expanded, ok := abbreviations[word]; ok {
				word = expanded
			}
			word = porter2.Stem(word)
			if len(word) > 0 {
				words = append(words, word)
			}
		}
		if len(words) > 0 {
			chunks = append(chunks, strings.Join(words, " "))
		}
	}

	affilCache.Store(affil, chunks)
	return chunks
}

// affiliationOverlap scores the fraction of chunks of each affiliation that
// are present in the other, averaged, per the affil_score.
func affiliationOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	bSet := make(map[string]bool, len(b))
	for _, c := range b {
		bSet[c] = true
	}
	aSet := make(map[string]bool, len(a))
	for _, c := range a {
		aSet[c] = true
	}

	oneInTwo := 0
	for _, c := range a {
		if bSet[c] {
			oneInTwo++
		}
	}
	twoInOne := 0
	for _, c := range b {
		if aSet[c] {
			twoInOne++
		}
	}

	return (float64(oneInTwo)/float64(len(a)) + float64(twoInOne)/float64(len(b))) / 2
}
