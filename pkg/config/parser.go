package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	propertyLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `[-+](?:Inf|NaN)|[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.\-/]*`},
		{Name: "Assign", Pattern: `=`},
	})

	lineParser = participle.MustBuild[assignment](
		participle.Lexer(propertyLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

// assignment is one "key = value..." line
type assignment struct {
	Key    string        `parser:"@Ident '='"`
	Values []*valueToken `parser:"@@+"`
}

type valueToken struct {
	Pos    lexer.Position
	String *string `parser:"  @String"`
	Number *string `parser:"| @Number"`
	Word   *string `parser:"| @Ident"`
}

// LoadFile reads a property file from disk
func LoadFile(path string) (*Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return ParseString(path, string(data))
}

// Load is an alias of LoadFile
func Load(path string) (*Properties, error) {
	return LoadFile(path)
}

// Parse reads property text from r. source names the input in error messages.
func Parse(source string, r io.Reader) (*Properties, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IOError{Path: source, Err: err}
	}
	return ParseString(source, string(data))
}

// ParseString parses property text. Later assignments of a key override earlier ones.
// A leading UTF-8 byte order mark is ignored.
func ParseString(source, text string) (*Properties, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	props := New()
	for i, line := range strings.Split(text, "\n") {
		if err := parseLine(props, source, i+1, line); err != nil {
			return nil, err
		}
	}
	return props, nil
}

// ParseAssignment parses a single "key = value" line, as used for command line overrides
func ParseAssignment(text string) (string, Value, error) {
	props := New()
	if err := parseLine(props, "<override>", 1, text); err != nil {
		return "", Value{}, err
	}
	if props.Len() != 1 {
		return "", Value{}, &ParseError{Source: "<override>", Line: 1, Msg: "expected key = value"}
	}
	key := props.keys[0]
	return key, props.values[key], nil
}

func parseLine(props *Properties, source string, lineNo int, line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	parsed, err := lineParser.ParseString(source, line)
	if err != nil {
		perr := &ParseError{Source: source, Line: lineNo, Msg: err.Error()}
		var pe participle.Error
		if errors.As(err, &pe) {
			perr.Column = pe.Position().Column
			perr.Msg = pe.Message()
		}
		return perr
	}
	v, err := tokensToValue(parsed.Values)
	if err != nil {
		return &ParseError{Source: source, Line: lineNo, Msg: fmt.Sprintf("key %q: %v", parsed.Key, err)}
	}
	props.Set(parsed.Key, v)
	return nil
}

// tokensToValue types the right hand side of an assignment by its shape
func tokensToValue(tokens []*valueToken) (Value, error) {
	if len(tokens) == 1 {
		return scalarValue(tokens[0])
	}

	vec := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Number == nil {
			return Value{}, errors.New("multi-valued assignments must be all numbers")
		}
		f, err := parseFloat(*tok.Number)
		if err != nil {
			return Value{}, err
		}
		vec = append(vec, f)
	}
	return VectorValue(vec...), nil
}

func scalarValue(tok *valueToken) (Value, error) {
	switch {
	case tok.String != nil:
		s, err := strconv.Unquote(*tok.String)
		if err != nil {
			return Value{}, fmt.Errorf("bad string literal %s", *tok.String)
		}
		return StringValue(s), nil
	case tok.Word != nil:
		switch *tok.Word {
		case "true":
			return BoolValue(true), nil
		case "false":
			return BoolValue(false), nil
		}
		return StringValue(*tok.Word), nil
	case tok.Number != nil:
		n := *tok.Number
		if !strings.ContainsAny(n, ".eE") {
			i, err := strconv.ParseInt(n, 10, 64)
			if err == nil {
				return IntValue(i), nil
			}
		}
		f, err := parseFloat(n)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(f), nil
	}
	return Value{}, errors.New("empty value")
}

// parseFloat also accepts the signed +Inf, -Inf and +NaN literals written by formatFloat
func parseFloat(n string) (float64, error) {
	if n == "+NaN" || n == "-NaN" {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", n)
	}
	return f, nil
}
