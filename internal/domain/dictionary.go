package domain

// DictionaryEntry maps a canonical English term to its localized forms,
// keyed by two-letter language code. Substitution is English-biased: the
// localized form is replaced by the English term, never the reverse.
type DictionaryEntry struct {
	English   string            `json:"english"`
	Localized map[string]string `json:"localized"`
}

// Form returns the localized form for lang, or "" when none is recorded.
func (e DictionaryEntry) Form(lang string) string {
	if e.Localized == nil {
		return ""
	}
	return e.Localized[lang]
}
