package evaluator

import (
	"regexp"
	"strings"
)

// likeMatch implements SQL LIKE/ILIKE pattern matching: `%` matches any run
// of characters (including none), `_` matches exactly one character.
// Patterns are translated to an anchored regexp rather than matched with a
// hand-rolled backtracker, since Go's RE2 engine already gives linear-time
// matching with no catastrophic-backtracking risk.
func likeMatch(s, pattern string, caseInsensitive bool) bool {
	re := compileLikePattern(pattern, caseInsensitive)
	return re.MatchString(s)
}

func compileLikePattern(pattern string, caseInsensitive bool) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	expr := b.String()
	if caseInsensitive {
		expr = "(?i)" + expr
	}
	return regexp.MustCompile(expr)
}
