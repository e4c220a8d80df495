package dispatch

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termcmd/termcmd/pkg/types"
)

func nopHandler(args *types.Args, out io.Writer) error { return nil }

func testTable() []types.Command {
	return []types.Command{
		{Name: "read", Params: "d", Handler: nopHandler},
		{Name: "readbuf", Params: "dd", Handler: nopHandler},
		{Name: "secret", Params: "", Hidden: true, Handler: nopHandler},
	}
}

func TestTokenizerDelimiterRuns(t *testing.T) {
	tok := NewTokenizer("  foo,, bar;baz  ")

	s, ok := tok.Next(CommandDelims)
	require.True(t, ok)
	assert.Equal(t, "foo", s)

	s, ok = tok.Next(CommandDelims)
	require.True(t, ok)
	assert.Equal(t, "bar", s)

	s, ok = tok.Next(CommandDelims)
	require.True(t, ok)
	assert.Equal(t, "baz", s)

	_, ok = tok.Next(CommandDelims)
	assert.False(t, ok)
}

func TestTokenizerQuotesAsStringDelims(t *testing.T) {
	tok := NewTokenizer(`say "hello there"`)

	s, _ := tok.Next(CommandDelims)
	assert.Equal(t, "say", s)

	// Quotes separate string tokens, so quoted words come back bare.
	s, ok := tok.Next(StringDelims)
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	s, ok = tok.Next(StringDelims)
	require.True(t, ok)
	assert.Equal(t, "there", s)
}

func TestMatchExactLengthCaseInsensitive(t *testing.T) {
	table := testTable()

	c := Match(table, "READ")
	require.NotNil(t, c)
	assert.Equal(t, "read", c.Name)

	// Prefixes never match a longer name.
	assert.Nil(t, Match(table, "rea"))
	assert.Nil(t, Match(table, "readb"))

	c = Match(table, "ReadBuf")
	require.NotNil(t, c)
	assert.Equal(t, "readbuf", c.Name)

	assert.Nil(t, Match(table, "nope"))
}

func TestSuggest(t *testing.T) {
	table := testTable()

	assert.Equal(t, "read", Suggest(table, "raed"))
	assert.Equal(t, "readbuf", Suggest(table, "readbug"))
	assert.Equal(t, "", Suggest(table, "zzzzzzzz"))
	// Hidden commands are never suggested.
	assert.Equal(t, "", Suggest(table, "secrot"))
}

func TestParseParamsTyped(t *testing.T) {
	var args types.Args
	tok := NewTokenizer("0x1F 3.5 hello Y")

	failures, extras := ParseParams("dfsc", tok, &args)
	assert.Zero(t, failures)
	assert.Empty(t, extras)
	require.Equal(t, 4, args.Count)
	assert.Equal(t, int64(31), args.V[0].N)
	assert.Equal(t, 3.5, args.V[1].F)
	assert.Equal(t, "hello", args.V[2].Str)
	assert.Equal(t, byte('Y'), args.V[3].Ch)
}

func TestParseParamsMissingTokensNotFailures(t *testing.T) {
	var args types.Args
	tok := NewTokenizer("42")

	failures, extras := ParseParams("dds", tok, &args)
	assert.Zero(t, failures)
	assert.Empty(t, extras)
	assert.Equal(t, 1, args.Count)
}

func TestParseParamsConversionFailure(t *testing.T) {
	var args types.Args
	tok := NewTokenizer("foo 7")

	failures, _ := ParseParams("dd", tok, &args)
	assert.Equal(t, 1, failures)
	// Parsing continues past the bad token.
	require.Equal(t, 1, args.Count)
	assert.Equal(t, int64(7), args.V[0].N)
}

func TestParseParamsExtras(t *testing.T) {
	var args types.Args
	tok := NewTokenizer("1 2 3 4")

	failures, extras := ParseParams("dd", tok, &args)
	assert.Zero(t, failures)
	assert.Equal(t, []string{"3", "4"}, extras)
	assert.Equal(t, 2, args.Count)
}

func TestParseParamsNegativeAndFloat(t *testing.T) {
	var args types.Args
	tok := NewTokenizer("-12 -0.25")

	failures, _ := ParseParams("df", tok, &args)
	assert.Zero(t, failures)
	assert.Equal(t, int64(-12), args.V[0].N)
	assert.Equal(t, -0.25, args.V[1].F)
}

func TestParseParamsResetsPreviousArgs(t *testing.T) {
	var args types.Args
	args.Count = 3
	args.V[0].Str = "stale"

	tok := NewTokenizer("fresh")
	ParseParams("s", tok, &args)
	assert.Equal(t, 1, args.Count)
	assert.Equal(t, "fresh", args.V[0].Str)
}
