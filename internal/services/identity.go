package services

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	emailRe      = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe      = regexp.MustCompile(`\+?\d[\d\s\-()]{8,}\d`)
	nameSplitRe  = regexp.MustCompile(`\s+[-–|]\s+|\s*\|\s*`)
	nameJunkRe   = regexp.MustCompile(`[|/\\]+`)
	nameCharRe   = regexp.MustCompile(`[^A-Za-zÀ-ÖØ-öø-ÿ .'\-]`)
	spacesRe     = regexp.MustCompile(`\s+`)
	unsafeFileRe = regexp.MustCompile(`[^A-Za-z0-9._\-]`)
)

// Section headers a resume usually carries. Used both to reject them
// as candidate names and to recognize resume-looking text.
var resumeKeywords = []string{
	"experience", "education", "skills", "project", "responsibilities", "summary",
}

var nameRejects = []string{"cv", "resume", "curriculum vitae"}

// ExtractEmail returns the first email address found, or "".
func ExtractEmail(text string) string {
	return emailRe.FindString(text)
}

// ExtractPhone returns the first phone-looking number, or "".
func ExtractPhone(text string) string {
	return strings.TrimSpace(phoneRe.FindString(text))
}

// NormalizeName strips separators and non-name characters and
// collapses whitespace.
func NormalizeName(raw string) string {
	s := nameJunkRe.ReplaceAllString(raw, " ")
	s = nameCharRe.ReplaceAllString(s, " ")
	s = spacesRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// IsValidName rejects section headers and document titles that tend
// to sit where a name would be.
func IsValidName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 80 {
		return false
	}

	lower := strings.ToLower(name)
	for _, r := range nameRejects {
		if lower == r {
			return false
		}
	}
	for _, kw := range resumeKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	if strings.Contains(lower, "profile") {
		return false
	}

	words := strings.Fields(name)
	return len(words) >= 2 && len(words) <= 5
}

// ExtractName scans the first lines of a resume for the candidate's
// name: labelled "Name:" lines first, then the first clean line that
// does not look like contact info or a section header.
func ExtractName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 30 {
		lines = lines[:30]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "name:") {
			candidate := NormalizeName(line[len("name:"):])
			if IsValidName(candidate) {
				return candidate
			}
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "@") || strings.Contains(line, "http") {
			continue
		}
		lower := strings.ToLower(line)
		skip := false
		for _, r := range nameRejects {
			if strings.Contains(lower, r) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		// "Jane Smith - Backend Engineer" keeps only the left part.
		head := nameSplitRe.Split(line, 2)[0]
		candidate := NormalizeName(head)
		if IsValidName(candidate) {
			return candidate
		}
	}
	return ""
}

// NameFromFilename derives a fallback candidate name from an
// attachment filename.
func NameFromFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)

	for _, r := range nameRejects {
		base = regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(r)+`\b`).ReplaceAllString(base, " ")
	}
	candidate := NormalizeName(base)
	if IsValidName(candidate) {
		return candidate
	}
	return ""
}

// IsLikelyResume guards ingestion against cover letters and random
// attachments: enough text, and at least two resume section headers.
func IsLikelyResume(text string) bool {
	if len(text) < 200 {
		return false
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range resumeKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits >= 2
}

// SafeFilename builds a sanitized, timestamped filename for storing
// a resume on disk.
func SafeFilename(name, originalFilename string) string {
	safe := unsafeFileRe.ReplaceAllString(strings.ReplaceAll(name, " ", "_"), "")
	if safe == "" {
		safe = "candidate"
	}
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return fmt.Sprintf("%s_%s%s", safe, time.Now().Format("20060102_150405"), ext)
}
