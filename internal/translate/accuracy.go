package translate

import "strings"

// WordOverlap scores how much of the reference the output covers: the size
// of the shared word set divided by the larger of the two word counts.
// Purely advisory, never gates success.
func WordOverlap(reference, output string) float64 {
	refWords := wordSet(reference)
	outWords := wordSet(output)
	if len(refWords) == 0 || len(outWords) == 0 {
		return 0
	}
	shared := 0
	for w := range refWords {
		if _, ok := outWords[w]; ok {
			shared++
		}
	}
	larger := len(refWords)
	if len(outWords) > larger {
		larger = len(outWords)
	}
	return float64(shared) / float64(larger)
}

func wordSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		out[w] = struct{}{}
	}
	return out
}
