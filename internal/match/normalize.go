package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent normalizes an identifier for fuzzy matching:
// it is split into CamelCase tokens, lowercased and stripped of separators.
// "Order_ID", "orderId" and "OrderID" all normalize to "orderid".
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(SplitIdent(s), ""))
}

// TrimCommonSuffix strips one trailing token that rarely carries meaning in
// member names (id, ids, at, utc, timestamp) from a normalized identifier.
func TrimCommonSuffix(normalized string) string {
	// Longer suffixes first so "ids" is not cut to "id".
	for _, suffix := range []string{"timestamp", "ids", "utc", "id", "at"} {
		if len(normalized) > len(suffix) && strings.HasSuffix(normalized, suffix) {
			return strings.TrimSuffix(normalized, suffix)
		}
	}

	return normalized
}

// SplitIdent splits a CamelCase or snake_case identifier into its tokens,
// keeping the original case.
// Examples:
//   - "AddressCity" -> ["Address", "City"]
//   - "OrderID" -> ["Order", "ID"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "customer_name" -> ["customer", "name"]
func SplitIdent(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// startsToken reports whether a new token starts at runes[i].
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]

	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	// "orderID": lower to upper.
	if !unicode.IsUpper(prev) {
		return true
	}

	// "XMLParser": the last upper of an acronym starts the next word.
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
