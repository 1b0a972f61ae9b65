package dispatch

import (
	"strings"
	"unicode"
)

// MessageParts is the result of a successful prefix match: the consumed
// prefix text, the command token, and the argument string.
type MessageParts struct {
	PrefixUsed string
	Command    string

	// Args is everything after the first whitespace run following the
	// command token. Internal whitespace is preserved; only the separating
	// run is skipped. Empty when nothing follows.
	Args string
}

// splitMessage splits raw beyond prefixLen into a command token and argument
// string. Pure and total: any input, including an empty remainder, yields a
// valid MessageParts.
func splitMessage(raw string, prefixLen int) MessageParts {
	rest := raw[prefixLen:]

	cmd := rest
	args := ""
	for i, r := range rest {
		if unicode.IsSpace(r) {
			cmd = rest[:i]
			tail := rest[i:]
			if j := strings.IndexFunc(tail, isNotSpace); j >= 0 {
				args = tail[j:]
			}
			break
		}
	}

	return MessageParts{
		PrefixUsed: raw[:prefixLen],
		Command:    cmd,
		Args:       args,
	}
}

func isNotSpace(r rune) bool { return !unicode.IsSpace(r) }
