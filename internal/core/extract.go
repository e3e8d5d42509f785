package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoJSONObjectFound indicates the completion contains no `{...}` span.
	ErrNoJSONObjectFound = errors.New("no JSON object found in AI output")

	// ErrUnrepairableJSON indicates the extracted span failed to parse even
	// after the repair pass.
	ErrUnrepairableJSON = errors.New("failed to parse AI output after repair")
)

// ExtractionError carries the raw or post-repair text alongside the failure
// so callers can surface it for inspection. LLM output is probabilistic;
// a bare "parse failed" would hide the only useful debugging artifact.
type ExtractionError struct {
	Reason   error
	Raw      string
	parseErr error
}

func (e *ExtractionError) Error() string {
	if e.parseErr != nil {
		return fmt.Sprintf("%v: %v", e.Reason, e.parseErr)
	}
	return e.Reason.Error()
}

func (e *ExtractionError) Unwrap() error {
	return e.Reason
}

// ExtractJSON locates the widest `{...}` span in a noisy completion and
// parses it, applying a tolerant repair pass when the strict parse fails.
// The span runs from the first '{' to the last '}' by character index; a
// completion with two sibling top-level objects therefore yields the union
// span and fails, which is accepted behavior.
//
// Only syntactic validity is guaranteed; schema conformance is the
// caller's problem.
func ExtractJSON(blob string) (map[string]any, error) {
	first := strings.IndexByte(blob, '{')
	last := strings.LastIndexByte(blob, '}')
	if first == -1 || last == -1 || last < first {
		return nil, &ExtractionError{Reason: ErrNoJSONObjectFound, Raw: blob}
	}

	span := blob[first : last+1]

	var parsed map[string]any
	if err := json.Unmarshal([]byte(span), &parsed); err == nil {
		return parsed, nil
	}

	repaired := RepairJSON(span)
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil, &ExtractionError{Reason: ErrUnrepairableJSON, Raw: repaired, parseErr: err}
	}
	return parsed, nil
}

// RepairJSON rewrites common syntax defects in model-emitted JSON: comments,
// single-quoted strings, unquoted keys and bare words, trailing commas,
// missing commas between members, unterminated strings and unclosed
// containers. It is a best-effort transform; the result still has to
// survive a strict parse.
func RepairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	inString := false // inside a double-quoted string in the output
	escaped := false
	var lastSig byte    // last significant byte written outside strings
	var openStack []byte // unclosed '{' and '[' containers

	writeSig := func(c byte) {
		b.WriteByte(c)
		lastSig = c
	}

	// A new token after a completed value means the model dropped a comma.
	maybeComma := func() {
		switch {
		case lastSig == '"' || lastSig == '}' || lastSig == ']',
			lastSig >= '0' && lastSig <= '9',
			lastSig >= 'a' && lastSig <= 'z':
			b.WriteByte(',')
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			if escaped {
				b.WriteByte(c)
				escaped = false
				continue
			}
			if c == '\\' {
				b.WriteByte(c)
				escaped = true
				continue
			}
			if c == '"' {
				inString = false
				writeSig('"')
				continue
			}
			if c == '\n' {
				// Unterminated string: the model started a new line without
				// closing the quote. Close it and resume scanning.
				inString = false
				writeSig('"')
				b.WriteByte('\n')
				continue
			}
			b.WriteByte(c)
			continue
		}

		switch {
		case c == '"':
			maybeComma()
			inString = true
			b.WriteByte('"')

		case c == '\'':
			// Single-quoted string: convert to double quotes.
			maybeComma()
			b.WriteByte('"')
			i++
			for ; i < len(s); i++ {
				if s[i] == '\\' && i+1 < len(s) {
					if s[i+1] == '\'' {
						b.WriteByte('\'')
					} else {
						b.WriteByte('\\')
						b.WriteByte(s[i+1])
					}
					i++
					continue
				}
				if s[i] == '\'' {
					break
				}
				if s[i] == '"' {
					b.WriteString(`\"`)
					continue
				}
				b.WriteByte(s[i])
			}
			writeSig('"')

		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}

		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i++

		case c == ',':
			// Trailing comma: drop it when the next significant byte closes
			// the container.
			if next := nextSignificant(s, i+1); next == '}' || next == ']' || next == 0 {
				continue
			}
			writeSig(',')

		case c == '{' || c == '[':
			maybeComma()
			openStack = append(openStack, c)
			writeSig(c)

		case c == '}' || c == ']':
			if len(openStack) > 0 {
				openStack = openStack[:len(openStack)-1]
			}
			writeSig(c)

		case c == ':':
			writeSig(':')

		case c == '-' || (c >= '0' && c <= '9'):
			maybeComma()
			for ; i < len(s); i++ {
				d := s[i]
				if d == '-' || d == '+' || d == '.' || d == 'e' || d == 'E' || (d >= '0' && d <= '9') {
					b.WriteByte(d)
					continue
				}
				i--
				break
			}
			lastSig = '0'

		case isIdentByte(c):
			// Bare word: an unquoted key or string value, or a JSON literal.
			start := i
			for i+1 < len(s) && isIdentByte(s[i+1]) {
				i++
			}
			word := s[start : i+1]
			lower := strings.ToLower(word)
			maybeComma()
			if lower == "true" || lower == "false" || lower == "null" {
				b.WriteString(lower)
				lastSig = lower[len(lower)-1]
			} else {
				b.WriteByte('"')
				b.WriteString(word)
				writeSig('"')
			}

		default:
			b.WriteByte(c)
		}
	}

	if inString {
		b.WriteByte('"')
	}
	for i := len(openStack) - 1; i >= 0; i-- {
		if openStack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}

	return b.String()
}

func nextSignificant(s string, i int) byte {
	for ; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return s[i]
		}
	}
	return 0
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
