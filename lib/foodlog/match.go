package foodlog

import (
	"strings"

	"diary-export/lib/textutil"

	"github.com/antzucaro/matchr"
)

// UnmatchedTokens returns the tokens that match no food name in the log.
func (l Log) UnmatchedTokens(tokens []string) []string {
	var unmatched []string
	for _, token := range tokens {
		found := false
		for _, e := range l.Entries {
			if textutil.MatchName(e.Name(), []string{token}) {
				found = true
				break
			}
		}
		if !found {
			unmatched = append(unmatched, token)
		}
	}
	return unmatched
}

// SuggestFood returns the food name most similar to token along with its
// Jaro-Winkler similarity, similarity is 0 for an empty log.
func (l Log) SuggestFood(token string) (string, float64) {
	token = strings.ToLower(token)

	var mostSimilarity float64
	var mostSimilarName string
	seen := map[string]struct{}{}
	for _, e := range l.Entries {
		name := e.Name()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		similarity := matchr.JaroWinkler(token, strings.ToLower(name), false)
		if similarity > mostSimilarity {
			mostSimilarity = similarity
			mostSimilarName = name
		}
	}
	return mostSimilarName, mostSimilarity
}
