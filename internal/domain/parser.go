package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoMatch reports an input line the configured grammar does not accept:
// a comment, a blank line, or a malformed record. Callers skip such lines
// and continue the batch.
var ErrNoMatch = errors.New("line does not match input grammar")

// FieldSpec names one input field and the pattern its raw text must match.
// Every pattern must also accept the empty string so a field may be left
// blank in the input.
type FieldSpec struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// Per-field default patterns: positions are signed decimals, redshift a
// signed decimal with optional exponent, free text a non-greedy wildcard.
const (
	PatternPosition = `(?:[+-]?\d+(?:\.\d+)?)?`
	PatternRedshift = `(?:[+-]?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?)?`
	PatternFreeText = `.*?`
)

// DefaultFields is the input grammar used when the run file does not
// override it: position pair, quoted-or-bare name, alternate id, redshift.
func DefaultFields() []FieldSpec {
	return []FieldSpec{
		{Name: FieldRA, Pattern: PatternPosition},
		{Name: FieldDec, Pattern: PatternPosition},
		{Name: FieldName, Pattern: PatternFreeText},
		{Name: FieldAltID, Pattern: PatternFreeText},
		{Name: FieldZ, Pattern: PatternRedshift},
	}
}

// LineParser turns one input line into a field-name → raw-string mapping
// using a fixed grammar compiled at construction time. The grammar is an
// explicit value scoped to one batch run; there is no package-level parser
// state.
type LineParser struct {
	fields []FieldSpec
	re     *regexp.Regexp
}

// NewLineParser compiles the grammar: the field patterns concatenated with
// mandatory whitespace separators, each field optionally enclosed in double
// quotes, anchored at both ends. Construction fails if a pattern does not
// compile or does not accept the empty string.
func NewLineParser(fields []FieldSpec) (*LineParser, error) {
	if len(fields) == 0 {
		return nil, errors.New("input grammar needs at least one field")
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		single, err := regexp.Compile(`^(?:` + f.Pattern + `)$`)
		if err != nil {
			return nil, fmt.Errorf("field %q: compile pattern: %w", f.Name, err)
		}
		if !single.MatchString("") {
			return nil, fmt.Errorf("field %q: pattern must accept the empty string", f.Name)
		}
		// Quotes are paired: either the whole field is enclosed or none of
		// it is. A lone optional quote would let a wildcard field bleed
		// into its neighbor.
		parts[i] = fmt.Sprintf(`(?:"(?P<f%dq>%s)"|(?P<f%d>%s))`, i, f.Pattern, i, f.Pattern)
	}

	re, err := regexp.Compile(`^\s*` + strings.Join(parts, `\s+`) + `\s*$`)
	if err != nil {
		return nil, fmt.Errorf("compile input grammar: %w", err)
	}

	return &LineParser{fields: fields, re: re}, nil
}

// Fields returns the configured field names in grammar order.
func (p *LineParser) Fields() []string {
	names := make([]string, len(p.fields))
	for i, f := range p.fields {
		names[i] = f.Name
	}
	return names
}

// Parse matches one line against the grammar and returns the fields that
// matched non-empty. Comment lines ('#'-prefixed), blank lines, and lines
// the grammar rejects return ErrNoMatch; there is no partial match.
func (p *LineParser) Parse(line string) (map[string]string, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, ErrNoMatch
	}

	match := p.re.FindStringSubmatch(line)
	if match == nil {
		return nil, ErrNoMatch
	}

	fields := make(map[string]string, len(p.fields))
	for i, f := range p.fields {
		value := p.submatch(match, fmt.Sprintf("f%dq", i))
		if value == "" {
			value = p.submatch(match, fmt.Sprintf("f%d", i))
		}
		if value != "" {
			fields[f.Name] = value
		}
	}
	return fields, nil
}

func (p *LineParser) submatch(match []string, group string) string {
	idx := p.re.SubexpIndex(group)
	if idx < 0 || idx >= len(match) {
		return ""
	}
	return match[idx]
}
