package texttest

import "strings"

// JoinLF joins multiple strings with LF line endings.
// Use this to construct multi-line test input with explicit line endings.
//
// Example:
//
//	in := texttest.JoinLF(
//		"line1",
//		"line2",
//	) // -> "line1\nline2"
func JoinLF(ss ...string) string {
	var sb strings.Builder

	for i, s := range ss {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(s)
	}

	return sb.String()
}

// Fence wraps body lines in a fenced code block with the given tag.
// Use this to construct markdown-embedded payloads in parser tests.
//
// Example:
//
//	in := texttest.Fence("json", `{"a": 1}`)
//	// -> "```json\n{\"a\": 1}\n```"
func Fence(tag string, body ...string) string {
	parts := make([]string, 0, len(body)+2)
	parts = append(parts, "```"+tag)
	parts = append(parts, body...)
	parts = append(parts, "```")

	return JoinLF(parts...)
}
