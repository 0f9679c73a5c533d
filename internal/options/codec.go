// Package options encodes the labeled option sets of choice questions.
package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrDecode is returned when stored option data cannot be decoded.
var ErrDecode = errors.New("malformed option data")

// DecodeError carries the raw input that failed to decode.
type DecodeError struct {
	Raw    string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode options: %s", e.Reason)
}

// Unwrap lets errors.Is match ErrDecode.
func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// Option is one labeled choice.
type Option struct {
	Label string
	Text  string
}

// Set is an ordered label -> text mapping.
type Set []Option

// Labels returns the labels in order.
func (s Set) Labels() []string {
	out := make([]string, len(s))
	for i, o := range s {
		out[i] = o.Label
	}
	return out
}

// Lookup returns the text for label.
func (s Set) Lookup(label string) (string, bool) {
	for _, o := range s {
		if o.Label == label {
			return o.Text, true
		}
	}
	return "", false
}

// Validate checks labels are non-empty, unique and comma free.
func (s Set) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for i, o := range s {
		if strings.TrimSpace(o.Label) == "" {
			return fmt.Errorf("option %d has an empty label", i+1)
		}
		if strings.Contains(o.Label, ",") {
			return fmt.Errorf("option label %q must not contain a comma", o.Label)
		}
		if _, dup := seen[o.Label]; dup {
			return fmt.Errorf("duplicate option label %q", o.Label)
		}
		seen[o.Label] = struct{}{}
	}
	return nil
}

// Encode renders the set as a JSON list of [label, text] pairs.
// A nil or empty set encodes to "[]".
func Encode(s Set) string {
	pairs := make([][2]string, len(s))
	for i, o := range s {
		pairs[i] = [2]string{o.Label, o.Text}
	}
	// [][2]string always marshals.
	b, _ := json.Marshal(pairs)
	return string(b)
}

// Decode parses the output of Encode. "[]" yields an empty, non-nil set.
func Decode(raw string) (Set, error) {
	var pairs []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
		return nil, &DecodeError{Raw: raw, Reason: err.Error()}
	}
	if pairs == nil {
		return nil, &DecodeError{Raw: raw, Reason: "not a list"}
	}
	out := make(Set, 0, len(pairs))
	seen := make(map[string]struct{}, len(pairs))
	for i, p := range pairs {
		var pair []string
		if err := json.Unmarshal(p, &pair); err != nil {
			return nil, &DecodeError{Raw: raw, Reason: fmt.Sprintf("entry %d: %v", i, err)}
		}
		if len(pair) != 2 {
			return nil, &DecodeError{Raw: raw, Reason: fmt.Sprintf("entry %d: expected 2 elements, got %d", i, len(pair))}
		}
		if pair[0] == "" {
			return nil, &DecodeError{Raw: raw, Reason: fmt.Sprintf("entry %d: empty label", i)}
		}
		if _, dup := seen[pair[0]]; dup {
			return nil, &DecodeError{Raw: raw, Reason: fmt.Sprintf("duplicate label %q", pair[0])}
		}
		seen[pair[0]] = struct{}{}
		out = append(out, Option{Label: pair[0], Text: pair[1]})
	}
	return out, nil
}

// ParsePair parses "A=text" as given on the command line.
func ParsePair(s string) (Option, error) {
	label, text, ok := strings.Cut(s, "=")
	if !ok {
		return Option{}, fmt.Errorf("option %q must look like LABEL=text", s)
	}
	label = strings.TrimSpace(label)
	text = strings.TrimSpace(text)
	if label == "" || text == "" {
		return Option{}, fmt.Errorf("option %q must look like LABEL=text", s)
	}
	return Option{Label: label, Text: text}, nil
}
