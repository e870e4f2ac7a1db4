// Package normalize turns raw company names and job titles into the canonical
// keys used to deduplicate rows coming from the legacy databases.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// companySuffixes are legal-entity tokens stripped from the end of a company
// name. Matching is case-insensitive and the token must follow a space or comma.
var companySuffixes = []string{
	"corporation",
	"limited",
	"corp.",
	"corp",
	"inc.",
	"inc",
	"llc.",
	"llc",
	"ltd.",
	"ltd",
}

// titleReplacements expands abbreviations in job titles. Keys are matched
// against whole lowercased words; every value maps to itself when looked up
// again, which keeps JobTitle idempotent.
var titleReplacements = map[string]string{
	"sr":    "Senior",
	"sr.":   "Senior",
	"snr":   "Senior",
	"jr":    "Junior",
	"jr.":   "Junior",
	"vp":    "VP",
	"svp":   "SVP",
	"evp":   "EVP",
	"mgr":   "Manager",
	"mgr.":  "Manager",
	"eng":   "Engineer",
	"engr":  "Engineer",
	"dir":   "Director",
	"dir.":  "Director",
	"ml":    "ML",
	"ai":    "AI",
	"swe":   "Software Engineer",
	"cto":   "CTO",
	"ceo":   "CEO",
	"ii":    "II",
	"iii":   "III",
	"iv":    "IV",
	"qa":    "QA",
	"ui":    "UI",
	"ux":    "UX",
	"nlp":   "NLP",
	"mlops": "MLOps",
}

// CompanyName returns the canonical display form of a company name:
// whitespace collapsed, trailing legal suffixes removed, lowercase words
// title-cased. Words that already carry an uppercase letter are kept as-is so
// acronyms survive. Empty input yields "".
func CompanyName(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	s = strings.Trim(s, " ,")
	if s == "" {
		return ""
	}

	for {
		stripped, ok := stripSuffix(s)
		if !ok {
			break
		}
		s = stripped
	}

	return titleWords(strings.Fields(s))
}

func stripSuffix(s string) (string, bool) {
	for _, suffix := range companySuffixes {
		if len(s) <= len(suffix) || !strings.EqualFold(s[len(s)-len(suffix):], suffix) {
			continue
		}
		rest := s[:len(s)-len(suffix)]
		if last := rest[len(rest)-1]; last != ' ' && last != ',' {
			continue
		}
		rest = strings.TrimRight(rest, " ,")
		if rest == "" {
			continue
		}
		return rest, true
	}
	return s, false
}

// JobTitle expands known abbreviations word by word, collapses whitespace and
// title-cases the remaining lowercase words.
func JobTitle(raw string) string {
	words := strings.Fields(raw)
	if len(words) == 0 {
		return ""
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		if repl, ok := titleReplacements[strings.ToLower(w)]; ok {
			out = append(out, repl)
			continue
		}
		out = append(out, w)
	}
	return titleWords(strings.Fields(strings.Join(out, " ")))
}

// Key lowercases a normalized value for use in identity maps.
func Key(normalized string) string {
	return strings.ToLower(normalized)
}

func titleWords(words []string) string {
	caser := cases.Title(language.English)
	for i, w := range words {
		if strings.ToLower(w) == w {
			words[i] = caser.String(w)
		}
	}
	return strings.Join(words, " ")
}
