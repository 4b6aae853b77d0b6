package usecase

import (
	"path/filepath"
	"regexp"
	"strings"
)

// digitRunPattern matches any run of consecutive decimal digits
var digitRunPattern = regexp.MustCompile(`[0-9]+`)

// maxExtractedDigits caps the code derived from a filename; scanner exports
// sometimes append long numeric junk after the real 10-digit product code
const maxExtractedDigits = 10

// ExtractCode derives the candidate product code from a photo filename.
//
// The extension is dropped first. If the name starts with digits followed by a
// hyphen separator (the common "8613900001-25pcs.jpg" shape), everything after
// the hyphen is ignored. The code is the leading digit run; when the name has
// no leading digit, the longest digit run found anywhere is used instead.
// Returns "" when the name contains no digits at all.
func ExtractCode(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	if idx := strings.IndexByte(base, '-'); idx > 0 && allDigits(base[:idx]) {
		base = base[:idx]
	}

	code := leadingDigits(base)
	if code == "" {
		code = longestDigitRun(base)
	}
	if len(code) > maxExtractedDigits {
		code = code[:maxExtractedDigits]
	}
	return code
}

// leadingDigits returns the run of digits starting at position 0
func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

// longestDigitRun returns the longest embedded digit run; earlier runs win ties
func longestDigitRun(s string) string {
	var longest string
	for _, run := range digitRunPattern.FindAllString(s, -1) {
		if len(run) > len(longest) {
			longest = run
		}
	}
	return longest
}

// allDigits reports whether s is non-empty and contains only decimal digits
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
