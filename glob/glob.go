// Package glob matches strings against shell-style patterns such as
// "users:*" or "order.?.created".
//
// Supported syntax:
//
//	*        any run of bytes, including none
//	?        exactly one rune
//	[abc]    one rune from the set
//	[a-z]    one rune from the range
//	[!a-z]   one rune not in the set (also [^a-z])
//	\x       the literal x
package glob

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrInvalidPattern is returned for empty or syntactically broken patterns.
	ErrInvalidPattern = errors.New("glob: invalid pattern")
)

type opKind uint8

const (
	opLiteral opKind = iota
	opAny            // ?
	opStar           // *
	opClass          // [...]
)

type classRange struct{ lo, hi rune }

type op struct {
	kind    opKind
	lit     rune
	ranges  []classRange
	negated bool
}

// Matcher is a compiled pattern. It is immutable and safe for concurrent use.
type Matcher struct {
	pattern string
	ops     []op
	literal bool
}

// Compile parses pattern.
func Compile(pattern string) (*Matcher, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	m := &Matcher{pattern: pattern, literal: true}
	for i := 0; i < len(pattern); {
		r, size := utf8.DecodeRuneInString(pattern[i:])
		switch r {
		case '*':
			// collapse runs of stars
			if n := len(m.ops); n == 0 || m.ops[n-1].kind != opStar {
				m.ops = append(m.ops, op{kind: opStar})
			}
			m.literal = false
			i += size
		case '?':
			m.ops = append(m.ops, op{kind: opAny})
			m.literal = false
			i += size
		case '[':
			o, n, err := parseClass(pattern[i:])
			if err != nil {
				return nil, err
			}
			m.ops = append(m.ops, o)
			m.literal = false
			i += n
		case '\\':
			if i+size >= len(pattern) {
				return nil, fmt.Errorf("%w: trailing escape in %q", ErrInvalidPattern, pattern)
			}
			lit, n := utf8.DecodeRuneInString(pattern[i+size:])
			m.ops = append(m.ops, op{kind: opLiteral, lit: lit})
			m.literal = false
			i += size + n
		default:
			m.ops = append(m.ops, op{kind: opLiteral, lit: r})
			i += size
		}
	}
	return m, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Matcher {
	m, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Match reports whether pattern matches s.
func Match(pattern, s string) (bool, error) {
	m, err := Compile(pattern)
	if err != nil {
		return false, err
	}
	return m.Match(s), nil
}

// String returns the source pattern.
func (m *Matcher) String() string { return m.pattern }

// IsLiteral reports whether the pattern has no wildcards or escapes, so it can
// only match itself.
func (m *Matcher) IsLiteral() bool { return m.literal }

// Match reports whether s matches the whole pattern.
func (m *Matcher) Match(s string) bool {
	if m.literal {
		return s == m.pattern
	}

	// Iterative matching with single-star backtracking.
	pi, si := 0, 0
	starOp, starPos := -1, 0
	for si < len(s) {
		if pi < len(m.ops) {
			o := m.ops[pi]
			if o.kind == opStar {
				starOp, starPos = pi, si
				pi++
				continue
			}
			r, size := utf8.DecodeRuneInString(s[si:])
			if o.matches(r) {
				pi++
				si += size
				continue
			}
		}
		if starOp < 0 {
			return false
		}
		_, size := utf8.DecodeRuneInString(s[starPos:])
		starPos += size
		pi, si = starOp+1, starPos
	}
	for pi < len(m.ops) && m.ops[pi].kind == opStar {
		pi++
	}
	return pi == len(m.ops)
}

func (o op) matches(r rune) bool {
	switch o.kind {
	case opLiteral:
		return r == o.lit
	case opAny:
		return true
	case opClass:
		in := false
		for _, cr := range o.ranges {
			if r >= cr.lo && r <= cr.hi {
				in = true
				break
			}
		}
		return in != o.negated
	}
	return false
}

// parseClass parses a bracket expression at the start of p and returns the
// op and the number of bytes consumed.
func parseClass(p string) (op, int, error) {
	o := op{kind: opClass}
	i := 1
	if i < len(p) && (p[i] == '!' || p[i] == '^') {
		o.negated = true
		i++
	}
	first := true
	for {
		if i >= len(p) {
			return op{}, 0, fmt.Errorf("%w: unterminated class in %q", ErrInvalidPattern, p)
		}
		if p[i] == ']' && !first {
			i++
			break
		}
		first = false

		lo, n, err := classRune(p, i)
		if err != nil {
			return op{}, 0, err
		}
		i += n
		hi := lo
		if i+1 < len(p) && p[i] == '-' && p[i+1] != ']' {
			hi, n, err = classRune(p, i+1)
			if err != nil {
				return op{}, 0, err
			}
			if hi < lo {
				return op{}, 0, fmt.Errorf("%w: bad range %q-%q", ErrInvalidPattern, lo, hi)
			}
			i += 1 + n
		}
		o.ranges = append(o.ranges, classRange{lo: lo, hi: hi})
	}
	return o, i, nil
}

func classRune(p string, i int) (rune, int, error) {
	if p[i] == '\\' {
		if i+1 >= len(p) {
			return 0, 0, fmt.Errorf("%w: trailing escape in class", ErrInvalidPattern)
		}
		r, n := utf8.DecodeRuneInString(p[i+1:])
		return r, n + 1, nil
	}
	r, n := utf8.DecodeRuneInString(p[i:])
	return r, n, nil
}
