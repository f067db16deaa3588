// Package delimiter splits the /pattern/flags literal form into a bare
// pattern and its flag set.
package delimiter

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Flags are the modifiers accepted after the closing delimiter.
type Flags struct {
	IgnoreCase bool `json:"ignore_case" yaml:"ignore_case"`
	Multiline  bool `json:"multiline" yaml:"multiline"`
	Global     bool `json:"global" yaml:"global"`
}

// String renders the flags in canonical order, as they would follow the
// closing delimiter.
func (f Flags) String() string {
	var b strings.Builder
	if f.Global {
		b.WriteByte('g')
	}
	if f.IgnoreCase {
		b.WriteByte('i')
	}
	if f.Multiline {
		b.WriteByte('m')
	}
	return b.String()
}

type suffix struct {
	Flags []string `parser:"@Flag*"`
}

var suffixParser = participle.MustBuild[suffix](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Flag", Pattern: `[gim]`},
	})),
)

// ParseFlags parses a flag suffix. Any character outside g, i and m is an error.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	if s == "" {
		return f, nil
	}
	sfx, err := suffixParser.ParseString("flags", s)
	if err != nil {
		return f, err
	}
	for _, flag := range sfx.Flags {
		switch flag {
		case "g":
			f.Global = true
		case "i":
			f.IgnoreCase = true
		case "m":
			f.Multiline = true
		}
	}
	return f, nil
}

// Split recognizes input of the form /pattern/flags. When the input is not
// delimited, or the suffix holds anything but flags, the whole input is
// returned as a bare pattern with no flags and delimited is false.
func Split(input string) (pattern string, flags Flags, delimited bool) {
	if len(input) < 2 || input[0] != '/' {
		return input, Flags{}, false
	}
	end := strings.LastIndexByte(input, '/')
	if end == 0 {
		return input, Flags{}, false
	}
	f, err := ParseFlags(input[end+1:])
	if err != nil {
		return input, Flags{}, false
	}
	return input[1:end], f, true
}
