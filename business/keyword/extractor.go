package keyword

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"marketSense/domain"
)

const (
	maxPhraseLen = 3
	minTokenLen  = 2

	// priceHintTolerance is the band width around a detected price mention.
	priceHintTolerance = 0.20
)

// Extraction is the result of running the extractor over free text.
// Keywords is an ordered set: longer phrases come before their sub-tokens,
// first occurrence wins within a phrase length.
type Extraction struct {
	Keywords  []string
	Brand     string
	Category  string
	PriceHint *domain.PriceRange
}

var (
	// "$450", "rp 2500000", "usd 30"
	pricePrefixRe = regexp.MustCompile(`(?i)(?:\$|€|£|rp\.?|usd|idr)\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
	// "450 usd", "450 dollars", "2.5k"
	priceSuffixRe = regexp.MustCompile(`(?i)\b([0-9][0-9,]*(?:\.[0-9]+)?)\s*(usd|idr|dollars?|bucks|k)\b`)
)

// Extract turns free text into normalized keywords, a detected brand, a
// detected category and an optional price-range hint. It is deterministic
// and pure: same text in, same output out.
func Extract(text string) Extraction {
	out := Extraction{Keywords: []string{}}
	if strings.TrimSpace(text) == "" {
		return out
	}

	priceHint := detectPrice(text)
	tokens := tokenize(text)
	if len(tokens) == 0 {
		out.PriceHint = priceHint
		return out
	}

	out.Keywords = buildPhrases(tokens)
	out.Brand = detectBrand(tokens)
	out.Category = detectCategory(tokens)
	out.PriceHint = priceHint

	return out
}

// tokenize lowercases, strips punctuation (keeping intra-token digits and
// letters) and drops stopwords and too-short tokens.
func tokenize(text string) []string {
	isSep := func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}
	words := strings.FieldsFunc(strings.ToLower(text), isSep)

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) < minTokenLen {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// buildPhrases emits trigrams, then bigrams, then unigrams over the token
// stream, deduplicated, so downstream scoring sees the most specific match
// first.
func buildPhrases(tokens []string) []string {
	seen := make(map[string]struct{})
	keywords := make([]string, 0, len(tokens)*2)

	for n := maxPhraseLen; n >= 1; n-- {
		for i := 0; i+n <= len(tokens); i++ {
			phrase := strings.Join(tokens[i:i+n], " ")
			if _, ok := seen[phrase]; ok {
				continue
			}
			seen[phrase] = struct{}{}
			keywords = append(keywords, phrase)
		}
	}
	return keywords
}

// detectBrand returns the canonical brand of the first token found in the
// gazetteer. First match wins.
func detectBrand(tokens []string) string {
	for _, tok := range tokens {
		if brand, ok := brandGazetteer[tok]; ok {
			return brand
		}
	}
	return ""
}

// detectCategory maps the first categorizable token to its category. The
// singular form is tried when the plural misses.
func detectCategory(tokens []string) string {
	for _, tok := range tokens {
		if cat, ok := categoryKeywords[tok]; ok {
			return cat
		}
		if strings.HasSuffix(tok, "s") {
			if cat, ok := categoryKeywords[strings.TrimSuffix(tok, "s")]; ok {
				return cat
			}
		}
	}
	return ""
}

// detectPrice finds the first currency-cued number and returns a tolerance
// band around it. Nil when no price mention is found.
func detectPrice(text string) *domain.PriceRange {
	var raw, unit string

	if m := pricePrefixRe.FindStringSubmatch(text); m != nil {
		raw = m[1]
	} else if m := priceSuffixRe.FindStringSubmatch(text); m != nil {
		raw = m[1]
		unit = strings.ToLower(m[2])
	} else {
		return nil
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || value <= 0 {
		return nil
	}
	if unit == "k" {
		value *= 1000
	}

	return &domain.PriceRange{
		Low:  value * (1 - priceHintTolerance),
		High: value * (1 + priceHintTolerance),
	}
}
