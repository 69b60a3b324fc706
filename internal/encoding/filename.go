// Package encoding makes arbitrary attribution strings safe to use as a
// single path segment.
//
// The escape order is critical: literal percent signs must be escaped BEFORE
// any other character is turned into a percent sequence, otherwise Decode
// cannot tell the two apart.
package encoding

import "strings"

// EncodeFileName converts text into a string containing no path separators.
//
// The replacement order matters:
//  1. Escape literal percent signs (%) as %25.
//  2. Replace slashes, backslashes and NUL with percent sequences.
//  3. Trim surrounding whitespace and newlines to spaces.
func EncodeFileName(text string) string {
	// Step 1: Escape literal percent signs (must be first).
	text = strings.ReplaceAll(text, "%", "%25")

	// Step 2: Separators.
	text = strings.ReplaceAll(text, "/", "%2F")
	text = strings.ReplaceAll(text, `\`, "%5C")
	text = strings.ReplaceAll(text, "\x00", "%00")

	// Step 3: Line breaks would split the sentinel record.
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	return strings.TrimSpace(text)
}

// DecodeFileName reverses EncodeFileName for everything except the
// whitespace normalization, which is lossy.
func DecodeFileName(text string) string {
	text = strings.ReplaceAll(text, "%2F", "/")
	text = strings.ReplaceAll(text, "%5C", `\`)
	text = strings.ReplaceAll(text, "%00", "\x00")

	// Percent last, so "%252F" decodes to the literal "%2F".
	text = strings.ReplaceAll(text, "%25", "%")

	return text
}
