// Package dial implements the circular-dial password puzzle: parse
// direction+distance instructions, walk a position around a fixed
// ring, and count how many instructions land the dial exactly on
// zero.
//
// Every operation in this package is total. Malformed input never
// produces an error; it degrades to the not-a-number marker, which
// then propagates through all later arithmetic. A contaminated
// position can never re-enter the ring or match zero again. That is
// inherited behavior the package reproduces on purpose.
package dial

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Modulus is the size of the dial ring. Positions produced from
	// well-formed input lie in [0, Modulus).
	Modulus = 100

	// DefaultStart is the documented default starting position.
	DefaultStart int64 = 50
)

// Left is the only direction symbol Move compares against. Every
// other direction value, recognized or not, steers right.
const Left = "L"

// Number is an integer that can also carry the not-a-number marker.
// It is backed by int64 so distances up to at least 10^8 stay exact.
type Number struct {
	val int64
	nan bool
}

// Int wraps v as a Number.
func Int(v int64) Number { return Number{val: v} }

// NaN returns the not-a-number marker.
func NaN() Number { return Number{nan: true} }

// IsNaN reports whether n is the not-a-number marker.
func (n Number) IsNaN() bool { return n.nan }

// IsZero reports whether n is exactly integer zero. The marker is
// never zero.
func (n Number) IsZero() bool { return !n.nan && n.val == 0 }

// Int64 returns the integer value. The value of a NaN Number is
// meaningless; callers must check IsNaN first.
func (n Number) Int64() int64 { return n.val }

// String renders the integer value, or the literal "NaN" for the
// marker. The driver prints the marker verbatim.
func (n Number) String() string {
	if n.nan {
		return "NaN"
	}
	return strconv.FormatInt(n.val, 10)
}

// Instruction is one parsed dial movement.
type Instruction struct {
	// Direction is the token's first character, taken verbatim.
	// Empty for an empty token. Nothing restricts it to the two
	// expected symbols.
	Direction string

	// Distance is the leading integer of the token's remainder,
	// or NaN when the remainder has none.
	Distance Number
}

// Parse splits a raw token into direction and distance. It accepts
// any input, including the empty string, and never fails: garbage
// flows through as an empty direction or a NaN distance.
func Parse(token string) Instruction {
	if token == "" {
		return Instruction{Distance: NaN()}
	}
	_, size := utf8.DecodeRuneInString(token)
	return Instruction{
		Direction: token[:size],
		Distance:  leadingInt(token[size:]),
	}
}

// leadingInt parses a leading base-10 integer the permissive way:
// leading whitespace is skipped, an optional sign is accepted, and
// parsing stops at the first non-digit. No digits means NaN.
func leadingInt(s string) Number {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	start := i
	var v int64
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		v = v*10 + int64(s[i]-'0')
		i++
	}
	if i == start {
		return NaN()
	}
	if neg {
		v = -v
	}
	return Int(v)
}

// Move applies one movement to pos and returns the next position.
//
// Go's % truncates toward zero, so the left branch's double modulo
// normalizes negative intermediates into [0, Modulus). The right
// branch does not re-normalize: a negative pos+distance comes back
// negative. Only equality with Left is checked; any other direction
// falls through to the right branch. NaN in either operand
// propagates. Move never fails.
func Move(pos Number, direction string, distance Number) Number {
	if pos.nan || distance.nan {
		return NaN()
	}
	if direction == Left {
		return Int(((pos.val-distance.val)%Modulus + Modulus) % Modulus)
	}
	return Int((pos.val + distance.val) % Modulus)
}

// Count replays tokens from the start position and returns how many
// instructions land the dial exactly on zero. The empty sequence
// counts zero. The result is always in [0, len(tokens)]: Parse and
// Move are total, and a NaN position simply stops matching zero
// without stopping the loop.
func Count(tokens []string, start int64) int {
	pos := Int(start)
	n := 0
	for _, tok := range tokens {
		in := Parse(tok)
		pos = Move(pos, in.Direction, in.Distance)
		if pos.IsZero() {
			n++
		}
	}
	return n
}

// Lines splits a raw instruction block into tokens, one per line,
// discarding lines that are empty after trimming surrounding
// whitespace.
func Lines(text string) []string {
	var tokens []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tokens = append(tokens, line)
	}
	return tokens
}
