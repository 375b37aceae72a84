package linguacrawl

import (
	"regexp"
	"slices"
	"strings"
)

var languageCodeRe = regexp.MustCompile(`^[a-z]{2}$`)

// LanguageSet is a set of ISO 639-1 language codes.
type LanguageSet map[string]struct{}

// ParseLanguages builds a LanguageSet from codes. Each value may itself hold
// several comma-separated codes. Returns ECONFIG if no valid code is given or
// any code is not two letters.
func ParseLanguages(values []string) (LanguageSet, error) {
	set := make(LanguageSet)
	for _, v := range values {
		for _, code := range strings.Split(v, ",") {
			code = strings.ToLower(strings.TrimSpace(code))
			if code == "" {
				continue
			}
			if !languageCodeRe.MatchString(code) {
				return nil, Errorf(ECONFIG, "invalid language code %q", code)
			}
			set[code] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil, Errorf(ECONFIG, "at least one target language required")
	}
	return set, nil
}

// Contains reports whether code is a two-letter code in the set.
func (s LanguageSet) Contains(code string) bool {
	if len(code) != 2 {
		return false
	}
	_, ok := s[strings.ToLower(code)]
	return ok
}

// Codes returns the codes in sorted order.
func (s LanguageSet) Codes() []string {
	codes := make([]string, 0, len(s))
	for c := range s {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes
}
