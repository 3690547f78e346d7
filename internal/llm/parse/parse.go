// Package parse extracts suggestion tokens from raw model output. The model
// is instructed to wrap each suggestion in full-width brackets; anything
// outside them is ignored.
package parse

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoSuggestions means the model output contained no usable bracket
// tokens. Reported as a failure rather than an empty success: an empty
// result means the model did not honor the output contract.
var ErrNoSuggestions = errors.New("no suggestions found in model output")

var tokenPattern = regexp.MustCompile(`【(.*?)】`)

// Suggestions returns all non-overlapping 【...】 tokens in order of
// appearance, trimmed, with empty tokens dropped.
func Suggestions(raw string) ([]string, error) {
	matches := tokenPattern.FindAllStringSubmatch(raw, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		token := strings.TrimSpace(m[1])
		if token == "" {
			continue
		}
		out = append(out, token)
	}
	if len(out) == 0 {
		return nil, ErrNoSuggestions
	}
	return out, nil
}
