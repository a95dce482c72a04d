package dictionary

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lekkas/callbridge/internal/translate"
)

// Apply rewrites localized terminology in text to the canonical English
// form. Candidates are the entries carrying both a localized form for the
// target language and a non-empty English term, tried longest localized
// form first so a short term never shadows a longer one containing it.
// Each candidate gets a case-insensitive whole-word replacement; when no
// word boundary matches (scripts where \b semantics differ), a
// case-insensitive substring replacement is the fallback.
func (s *Store) Apply(text, targetLang string) string {
	if text == "" {
		return text
	}
	lang := translate.BaseLang(targetLang)

	type candidate struct {
		localized string
		english   string
	}
	var cands []candidate
	for _, e := range s.Entries() {
		form := strings.TrimSpace(e.Form(lang))
		english := strings.TrimSpace(e.English)
		if form == "" || english == "" {
			continue
		}
		cands = append(cands, candidate{localized: form, english: english})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return len(cands[i].localized) > len(cands[j].localized)
	})

	for _, c := range cands {
		quoted := regexp.QuoteMeta(c.localized)
		word, err := regexp.Compile(`(?i)\b` + quoted + `\b`)
		if err == nil && word.MatchString(text) {
			text = word.ReplaceAllString(text, c.english)
			continue
		}
		sub, err := regexp.Compile(`(?i)` + quoted)
		if err != nil {
			continue
		}
		text = sub.ReplaceAllString(text, c.english)
	}
	return text
}
