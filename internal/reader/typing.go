package reader

import (
	"math/rand"
	"time"
)

// Reveal paces the display of an already-complete response: it yields
// an increasing revealed-prefix length at jittered intervals so the
// text appears with a human typing cadence. It is purely presentational;
// the data layer always holds the full string, and a real streaming
// backend could replace that layer without touching this one.
type Reveal struct {
	runes    []rune
	revealed int
	rng      *rand.Rand
}

// Typing cadence: a few runes per step, 30-90ms apart, with a short
// pause before the message is finalized.
const (
	revealMinStep    = 3
	revealMaxStep    = 7
	revealMinDelay   = 30 * time.Millisecond
	revealMaxDelay   = 90 * time.Millisecond
	revealFinalPause = 300 * time.Millisecond
)

func NewReveal(text string) *Reveal {
	return NewRevealWithSource(text, rand.NewSource(time.Now().UnixNano()))
}

// NewRevealWithSource allows deterministic cadence in tests.
func NewRevealWithSource(text string, src rand.Source) *Reveal {
	return &Reveal{runes: []rune(text), rng: rand.New(src)}
}

// Step advances the revealed prefix and returns the delay to wait
// before the next step. done turns true once the whole text is
// revealed; the final delay is the completion pause.
func (r *Reveal) Step() (delay time.Duration, done bool) {
	if r.revealed >= len(r.runes) {
		return 0, true
	}
	step := revealMinStep + r.rng.Intn(revealMaxStep-revealMinStep+1)
	r.revealed += step
	if r.revealed >= len(r.runes) {
		r.revealed = len(r.runes)
		return revealFinalPause, false
	}
	jitter := revealMaxDelay - revealMinDelay
	return revealMinDelay + time.Duration(r.rng.Int63n(int64(jitter))), false
}

// Text is the currently revealed prefix.
func (r *Reveal) Text() string {
	return string(r.runes[:r.revealed])
}

// Done reports whether the full text is revealed.
func (r *Reveal) Done() bool {
	return r.revealed >= len(r.runes)
}

// Full is the complete text being revealed.
func (r *Reveal) Full() string {
	return string(r.runes)
}
