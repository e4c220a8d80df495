// Package dispatch matches an input line against a command table and
// converts its remaining tokens into typed arguments. Tokenisation follows
// strtok rules: runs of delimiter characters separate tokens, and the
// delimiter set can change between calls, which is how string parameters
// get quote characters treated as separators.
package dispatch

import (
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/termcmd/termcmd/pkg/types"
)

// Delimiter sets for the tokenizer. Command names split on whitespace and
// the common statement separators; string parameters additionally split on
// quotes so quoted arguments come back without them; numeric and char
// parameters use the command set.
const (
	CommandDelims = " ,;\t"
	StringDelims  = " \"'"
	NumericDelims = " ,;\t"
)

// suggestDistance is the maximum edit distance for a did-you-mean hint.
const suggestDistance = 2

// Tokenizer walks a line strtok-style. Next skips leading delimiters,
// then returns everything up to the next delimiter from the set passed to
// that call.
type Tokenizer struct {
	line string
	pos  int
}

// NewTokenizer returns a tokenizer over line.
func NewTokenizer(line string) *Tokenizer {
	return &Tokenizer{line: line}
}

// Next returns the next token using delims as the separator set. It
// reports false when the line is exhausted.
func (t *Tokenizer) Next(delims string) (string, bool) {
	for t.pos < len(t.line) && strings.IndexByte(delims, t.line[t.pos]) >= 0 {
		t.pos++
	}
	if t.pos >= len(t.line) {
		return "", false
	}
	start := t.pos
	for t.pos < len(t.line) && strings.IndexByte(delims, t.line[t.pos]) < 0 {
		t.pos++
	}
	return t.line[start:t.pos], true
}

// Match finds name in table. Matching is case-insensitive but length
// exact, so "read" never matches "readbuf". It returns nil when no entry
// matches.
func Match(table []types.Command, name string) *types.Command {
	for i := range table {
		c := &table[i]
		if len(c.Name) == len(name) && strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// Suggest returns the visible command closest to name within the edit
// distance cutoff, or "" when nothing is close enough.
func Suggest(table []types.Command, name string) string {
	best := ""
	bestDist := suggestDistance + 1
	lower := strings.ToLower(name)
	for i := range table {
		c := &table[i]
		if c.Hidden {
			continue
		}
		d := levenshtein.ComputeDistance(lower, strings.ToLower(c.Name))
		if d < bestDist {
			bestDist = d
			best = c.Name
		}
	}
	return best
}

// ParseParams converts the remaining tokens of tok into args according to
// the parameter signature ('s' string, 'c' char, 'f' float, 'd' or 'x'
// integer, auto-detecting 0x prefixes).
// Running out of tokens is not a failure; the argument count simply stops
// short. A token that fails conversion counts as a failure but parsing
// continues with the next parameter. Tokens beyond the signature are
// returned in extras.
func ParseParams(params string, tok *Tokenizer, args *types.Args) (failures int, extras []string) {
	args.Reset()
	for _, p := range params {
		if args.Count >= types.MaxParams {
			break
		}
		delims := NumericDelims
		if p == 's' {
			delims = StringDelims
		}
		s, ok := tok.Next(delims)
		if !ok {
			break
		}
		v := &args.V[args.Count]
		switch p {
		case 's':
			v.Str = s
			args.Count++
		case 'c':
			v.Ch = s[0]
			args.Count++
		case 'f':
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				failures++
				continue
			}
			v.F = f
			args.Count++
		case 'd', 'x':
			n, err := strconv.ParseInt(s, 0, 64)
			if err != nil {
				failures++
				continue
			}
			v.N = n
			args.Count++
		}
	}
	for {
		s, ok := tok.Next(CommandDelims)
		if !ok {
			break
		}
		extras = append(extras, s)
	}
	return failures, extras
}
