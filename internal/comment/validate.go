package comment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// MaxContentLength is the maximum number of characters in a comment.
const MaxContentLength = 500

// Validation messages for the content field.
const (
	MsgContentRequired = "content is required."
	MsgContentNotText  = "content must be a string."
	MsgContentBlank    = "content must not be empty."
	MsgContentTooLong  = "content must be 500 characters or fewer."
)

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Error implements error.
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(fe[f], " ")))
	}
	return strings.Join(parts, "; ")
}

// Input is the client-supplied body of a create request. Content is kept
// raw so that a missing field, a null and a non-string value can be told
// apart.
type Input struct {
	Content json.RawMessage `json:"content"`
}

// Validate checks the input and returns the content to store. The content
// is returned exactly as submitted; trimming only affects the checks.
func (in Input) Validate() (string, FieldErrors) {
	errs := FieldErrors{}

	raw := bytes.TrimSpace(in.Content)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		errs.Add("content", MsgContentRequired)
		return "", errs
	}

	var content string
	if err := json.Unmarshal(raw, &content); err != nil {
		errs.Add("content", MsgContentNotText)
		return "", errs
	}

	for _, msg := range ValidateContent(content) {
		errs.Add("content", msg)
	}
	if len(errs) > 0 {
		return "", errs
	}
	return content, nil
}

// ValidateContent returns every rule content breaks. Both rules apply to
// the value with surrounding whitespace trimmed; length is counted in
// characters, not bytes.
func ValidateContent(content string) []string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return []string{MsgContentBlank}
	}
	var msgs []string
	if utf8.RuneCountInString(trimmed) > MaxContentLength {
		msgs = append(msgs, MsgContentTooLong)
	}
	return msgs
}
