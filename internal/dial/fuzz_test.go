package dial

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzParse feeds arbitrary strings into the parser. Parse is total:
// whatever comes in, it must return an Instruction and never panic,
// and the direction must always be the token's first character.
func FuzzParse(f *testing.F) {
	f.Add("L5")
	f.Add("R50")
	f.Add("")
	f.Add("L")
	f.Add("LABC")
	f.Add("X50")
	f.Add("R 42trailing")
	f.Add("→99")

	f.Fuzz(func(t *testing.T, token string) {
		got := Parse(token)

		if token == "" {
			if got.Direction != "" || !got.Distance.IsNaN() {
				t.Errorf("Parse(\"\") = %+v, want empty direction and NaN", got)
			}
			return
		}

		_, size := utf8.DecodeRuneInString(token)
		if got.Direction != token[:size] {
			t.Errorf("Parse(%q).Direction = %q, want first character %q",
				token, got.Direction, token[:size])
		}
	})
}

// FuzzMove checks the ring invariants for arbitrary integer inputs:
// the left branch always lands in [0, Modulus), and a full revolution
// in either direction from a ring position is a no-op.
func FuzzMove(f *testing.F) {
	f.Add(int64(50), int64(50))
	f.Add(int64(0), int64(1))
	f.Add(int64(99), int64(100000000))
	f.Add(int64(-7), int64(-13))

	f.Fuzz(func(t *testing.T, pos, dist int64) {
		// Bound magnitudes well above the documented 10^8 guarantee
		// but below int64 overflow, which would break congruence.
		pos %= 1e12
		dist %= 1e12

		left := Move(Int(pos), Left, Int(dist))
		if left.IsNaN() {
			t.Fatalf("Move(%d, L, %d) = NaN from integer inputs", pos, dist)
		}
		if left.Int64() < 0 || left.Int64() >= Modulus {
			t.Errorf("Move(%d, L, %d) = %s, outside [0, %d)", pos, dist, left, Modulus)
		}

		right := Move(Int(pos), "R", Int(dist))
		if right.IsNaN() {
			t.Fatalf("Move(%d, R, %d) = NaN from integer inputs", pos, dist)
		}

		// Left then right with the same non-negative distance
		// round-trips any ring position. Negative distances are
		// excluded: the right arm keeps the raw truncated remainder,
		// which can leave the ring.
		ring := (pos%Modulus + Modulus) % Modulus
		if dist >= 0 {
			back := Move(Move(Int(ring), Left, Int(dist)), "R", Int(dist))
			if back.Int64() != ring {
				t.Errorf("round trip from %d with distance %d landed on %s", ring, dist, back)
			}
		}

		// A full revolution is a no-op from a ring position.
		if got := Move(Int(ring), Left, Int(Modulus)); got.Int64() != ring {
			t.Errorf("Move(%d, L, %d) = %s, want %d", ring, int64(Modulus), got, ring)
		}
		if got := Move(Int(ring), "R", Int(Modulus)); got.Int64() != ring {
			t.Errorf("Move(%d, R, %d) = %s, want %d", ring, int64(Modulus), got, ring)
		}
	})
}

// FuzzCount splits an arbitrary blob into lines and counts from an
// arbitrary start. Count must never panic, and the tally must stay
// within [0, number of tokens] no matter what the tokens contain.
func FuzzCount(f *testing.F) {
	f.Add("R50\nL50", int64(50))
	f.Add("", int64(0))
	f.Add("LABC\nR50\nX0", int64(50))
	f.Add("L\nR\n\n??", int64(-3))

	f.Fuzz(func(t *testing.T, blob string, start int64) {
		tokens := Lines(blob)

		got := Count(tokens, start)
		if got < 0 || got > len(tokens) {
			t.Errorf("Count(%d tokens, %d) = %d, outside [0, %d]",
				len(tokens), start, got, len(tokens))
		}

		if again := Count(tokens, start); again != got {
			t.Errorf("Count not deterministic: %d then %d", got, again)
		}
	})
}

// FuzzLines checks that line filtering never produces blank tokens.
func FuzzLines(f *testing.F) {
	f.Add("R50\n\nL25")
	f.Add(" \n\t\n")

	f.Fuzz(func(t *testing.T, blob string) {
		for _, tok := range Lines(blob) {
			if strings.TrimSpace(tok) == "" {
				t.Errorf("Lines(%q) produced blank token %q", blob, tok)
			}
		}
	})
}
