// Package extract pulls a JSON object out of vision-model free text. Models
// wrap replies in markdown fences, prepend prose, drop closing braces or add
// comments; each stage below repairs one of those failure modes.
package extract

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON means the text contains no JSON object at all. Callers treat this
// as retryable: the model ignored the output-format instructions entirely.
var ErrNoJSON = errors.New("no JSON object in response")

var (
	fenceRe         = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
)

// Object returns the repaired JSON object bytes found in s.
// Well-formed input passes through unchanged.
func Object(s string) ([]byte, error) {
	s = strings.TrimSpace(s)

	// Already a valid object: hand it back before any repair stage can touch
	// it. String values may legitimately contain fences, braces or //.
	if strings.HasPrefix(s, "{") && json.Valid([]byte(s)) {
		return []byte(s), nil
	}

	// Markdown code blocks: ```json\n{...}\n``` or ```\n{...}\n```
	if strings.Contains(s, "```") {
		if m := fenceRe.FindStringSubmatch(s); m != nil {
			s = strings.TrimSpace(m[1])
		}
	}

	// Prose before the JSON: cut to the first brace.
	if !strings.HasPrefix(s, "{") {
		i := strings.IndexByte(s, '{')
		if i < 0 {
			return nil, ErrNoJSON
		}
		s = s[i:]
	}

	// Prose after the JSON, or a truncated reply.
	if !strings.HasSuffix(s, "}") {
		s = closeObject(s)
	}

	// Escaped structural characters (some models escape braces in "strict" mode).
	if strings.Contains(s, `\{`) || strings.Contains(s, `\}`) || strings.Contains(s, `\[`) || strings.Contains(s, `\]`) {
		s = strings.NewReplacer(`\{`, "{", `\}`, "}", `\[`, "[", `\]`, "]", `\"`, `"`).Replace(s)
	}

	if strings.Contains(s, "//") {
		s = stripLineComments(s)
	}

	s = trailingCommaRe.ReplaceAllString(s, "$1")

	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, errors.New("could not find valid JSON in response")
	}
	return []byte(s), nil
}

// closeObject truncates trailing prose after the object's matching close brace,
// or appends the braces a truncated reply is missing.
func closeObject(s string) string {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	open := strings.Count(s, "{")
	closed := strings.Count(s, "}")
	if open > closed {
		return s + strings.Repeat("}", open-closed)
	}
	return s
}

// stripLineComments drops // comments the model sometimes appends to lines,
// leaving ones inside string values alone.
func stripLineComments(s string) string {
	lines := strings.Split(s, "\n")
	for li, line := range lines {
		idx := strings.Index(line, "//")
		if idx < 0 {
			continue
		}
		before := line[:idx]
		// An even number of unescaped quotes means // sits outside a string.
		quotes := strings.Count(before, `"`) - strings.Count(before, `\"`)
		if quotes%2 == 0 {
			lines[li] = strings.TrimRight(before, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
