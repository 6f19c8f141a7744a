package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrUnparsable is returned when every decoding strategy fails.
var ErrUnparsable = errors.New("response is not parseable JSON")

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	braceSpanRe     = regexp.MustCompile(`(?s)\{.*\}`)
	singleQuoteRe   = regexp.MustCompile(`'([^'\\]*)'`)
	nullRe          = regexp.MustCompile(`(?i)\bnull\b`)
	trueRe          = regexp.MustCompile(`(?i)\btrue\b`)
	falseRe         = regexp.MustCompile(`(?i)\bfalse\b`)
)

// Unmarshal decodes model output into v, tolerating the usual damage:
// markdown code fences, trailing commas, prose around the JSON object,
// single-quoted strings and miscased literals. Strategies run in order
// from strict to permissive; the first that yields valid JSON wins.
func Unmarshal(raw string, v any) error {
	s := StripFences(raw)

	candidates := []string{
		stripTrailingCommas(s),
	}
	if span := braceSpanRe.FindString(s); span != "" {
		candidates = append(candidates, stripTrailingCommas(span))
	}
	loose := normalizeLiterals(s)
	candidates = append(candidates, stripTrailingCommas(loose))
	if span := braceSpanRe.FindString(loose); span != "" {
		candidates = append(candidates, stripTrailingCommas(span))
	}

	var lastErr error
	for _, c := range candidates {
		if err := json.Unmarshal([]byte(c), v); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	if lastErr != nil {
		return errors.Join(ErrUnparsable, lastErr)
	}
	return ErrUnparsable
}

// StripFences removes a surrounding markdown code fence, with or
// without a language tag.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", ...).
		first := strings.TrimSpace(s[:idx])
		if len(first) <= 8 && !strings.ContainsAny(first, "{[") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func stripTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// normalizeLiterals rewrites single-quoted strings to double-quoted
// ones and fixes miscased JSON literals. Only used after the strict
// strategies have failed.
func normalizeLiterals(s string) string {
	s = singleQuoteRe.ReplaceAllString(s, `"$1"`)
	s = nullRe.ReplaceAllString(s, "null")
	s = trueRe.ReplaceAllString(s, "true")
	s = falseRe.ReplaceAllString(s, "false")
	return s
}
