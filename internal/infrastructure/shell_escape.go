package infrastructure

import "strings"

// ShellEscape quotes a string for display in a logged command line.
// exec.Command passes arguments directly; this exists only so the extract
// log shows a line that can be pasted back into a shell.
func ShellEscape(s string) string {
	if s == "" {
		return "''"
	}

	if !strings.ContainsFunc(s, isShellSpecial) {
		return s
	}

	// Single-quote everything; an embedded single quote becomes '"'"'
	var b strings.Builder
	b.WriteByte('\'')
	for _, c := range s {
		if c == '\'' {
			b.WriteString(`'"'"'`)
		} else {
			b.WriteRune(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// ShellEscapeCommand renders a binary and its arguments as one loggable line
func ShellEscapeCommand(binary string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, ShellEscape(binary))
	for _, arg := range args {
		parts = append(parts, ShellEscape(arg))
	}
	return strings.Join(parts, " ")
}

func isShellSpecial(c rune) bool {
	switch c {
	case ' ', '\t', '\'', '"', '$', '`', '\\', '!', '*', '?', '[', ']',
		'(', ')', '{', '}', '|', ';', '<', '>', '&', '~', '#', '%', '\n', '\r':
		return true
	default:
		return false
	}
}
