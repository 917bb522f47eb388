// Package trace replays an instruction sequence step by step,
// recording the intermediate state that a plain count throws away.
package trace

import (
	"github.com/unbound-force/spindle/internal/dial"
)

// Step records the outcome of one instruction.
type Step struct {
	// Index is the 1-based position of the instruction in the run.
	Index int `json:"index"`

	// Token is the raw instruction text.
	Token string `json:"token"`

	// Direction is the parsed direction character, empty when the
	// token was empty.
	Direction string `json:"direction"`

	// Distance is the parsed distance, rendered as a decimal string
	// or the literal "NaN" for a malformed remainder.
	Distance string `json:"distance"`

	// Position is the dial position after this instruction, rendered
	// like Distance. Once it reads "NaN" it stays "NaN".
	Position string `json:"position"`

	// Zero reports whether this instruction landed exactly on zero.
	Zero bool `json:"zero"`
}

// Result is a full replay of an instruction sequence.
type Result struct {
	// Start is the starting position of the run.
	Start int64 `json:"start"`

	// Steps holds one entry per instruction, in input order.
	Steps []Step `json:"steps"`

	// Count is the number of steps that landed on zero. It always
	// equals dial.Count over the same tokens and start.
	Count int `json:"count"`
}

// Run replays tokens from the start position. Like the operations it
// is built on, it is total: any token content produces a Result and
// never an error.
func Run(tokens []string, start int64) Result {
	res := Result{
		Start: start,
		Steps: make([]Step, 0, len(tokens)),
	}

	pos := dial.Int(start)
	for i, tok := range tokens {
		in := dial.Parse(tok)
		pos = dial.Move(pos, in.Direction, in.Distance)

		step := Step{
			Index:     i + 1,
			Token:     tok,
			Direction: in.Direction,
			Distance:  in.Distance.String(),
			Position:  pos.String(),
			Zero:      pos.IsZero(),
		}
		if step.Zero {
			res.Count++
		}
		res.Steps = append(res.Steps, step)
	}

	return res
}
