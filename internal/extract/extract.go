// Package extract turns raw summarizer output into a validated
// Extraction. Models wrap JSON in prose, markdown fences, or echo the
// schema before answering; the scanner here pulls out the first balanced
// object and leaves syntax validation to the structured decode.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FirstJSONObject returns the first top-level {...} object inside s as a
// substring, plus whether any non-whitespace content exists outside it.
// ok is false when s contains no '{' or the braces never balance.
//
// Braces inside string literals do not affect depth: the scan tracks
// in-string state with backslash-escape handling. Only brace/string
// balancing is checked here; the result may still fail a JSON decode.
func FirstJSONObject(s string) (obj string, extra bool, ok bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				obj = s[start : i+1]
				before := strings.TrimSpace(s[:start])
				after := strings.TrimSpace(s[i+1:])
				return obj, before != "" || after != "", true
			}
		}
	}
	return "", false, false
}

// Decode extracts the first JSON object from raw and unmarshals it into an
// Extraction. Trailing or surrounding prose outside the object is ignored.
// The result is NOT yet normalized; run Validate before rendering.
func Decode(raw string) (*Extraction, error) {
	obj, _, ok := FirstJSONObject(strings.TrimSpace(raw))
	if !ok {
		return nil, fmt.Errorf("no JSON object found in model output")
	}
	var x Extraction
	if err := json.Unmarshal([]byte(obj), &x); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}
	return &x, nil
}
