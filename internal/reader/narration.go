package reader

import "github.com/google/uuid"

// NarrationState is the tagged state of the audio subsystem. Exactly
// one exists per app; there is never more than one active narration.
type NarrationState int

const (
	NarrationIdle NarrationState = iota
	NarrationLoading
	NarrationPlaying
	NarrationPaused
)

func (s NarrationState) String() string {
	switch s {
	case NarrationIdle:
		return "idle"
	case NarrationLoading:
		return "loading"
	case NarrationPlaying:
		return "playing"
	case NarrationPaused:
		return "paused"
	}
	return "unknown"
}

// PlaybackHandle controls one started narration. Pause and Resume keep
// the position; Stop releases the underlying resources.
type PlaybackHandle interface {
	Pause() error
	Resume() error
	Stop() error
}

// PlayAction tells the caller what asynchronous work Play requires.
type PlayAction int

const (
	// PlayNone: nothing to do (already loading, playing or paused).
	PlayNone PlayAction = iota
	// PlayStart: cached audio, start playback and report via Started.
	PlayStart
	// PlaySynthesize: call the backend, deliver via ApplySynthesis.
	PlaySynthesize
)

// PlayOutcome carries the token identifying this attempt plus the data
// the asynchronous step needs.
type PlayOutcome struct {
	Action   PlayAction
	Token    string
	Audio    Audio  // set for PlayStart
	Text     string // set for PlaySynthesize
	Language string
}

// Narrator drives text-to-speech for the current article. Synthesis,
// once issued, cannot be canceled mid-flight; a token per attempt lets
// the controller suppress applying a result that arrives after the
// language changed or the session was torn down.
type Narrator struct {
	state  NarrationState
	cache  *AudioCache
	token  string
	handle PlaybackHandle

	text     string
	language string
	err      error
}

func NewNarrator(cache *AudioCache) *Narrator {
	return &Narrator{cache: cache}
}

func (n *Narrator) State() NarrationState { return n.state }

// Err is the last narration failure, cleared on the next Play.
func (n *Narrator) Err() error { return n.err }

// Play requests narration of text in language. Only valid from Idle;
// in any other state it is a no-op so a double press never issues a
// second synthesis for the same key.
func (n *Narrator) Play(text, language string) PlayOutcome {
	if n.state != NarrationIdle {
		return PlayOutcome{Action: PlayNone}
	}
	n.err = nil
	n.text = text
	n.language = language
	n.token = uuid.NewString()
	n.state = NarrationLoading

	if audio, ok := n.cache.Get(text, language); ok {
		return PlayOutcome{Action: PlayStart, Token: n.token, Audio: audio, Language: language}
	}
	return PlayOutcome{Action: PlaySynthesize, Token: n.token, Text: text, Language: language}
}

// ApplySynthesis delivers synthesized audio. The payload is always
// cached under its own key; playback only proceeds when the token still
// identifies the current attempt.
func (n *Narrator) ApplySynthesis(token, text, language string, audio Audio) PlayOutcome {
	n.cache.Put(text, language, audio)
	if token != n.token || n.state != NarrationLoading {
		return PlayOutcome{Action: PlayNone}
	}
	return PlayOutcome{Action: PlayStart, Token: token, Audio: audio, Language: language}
}

// FailSynthesis ends the attempt. Terminal for this attempt: no retry.
func (n *Narrator) FailSynthesis(token string, err error) bool {
	if token != n.token || n.state != NarrationLoading {
		return false
	}
	n.state = NarrationIdle
	n.token = ""
	n.err = err
	return true
}

// Started records that playback actually began. The transition to
// Playing happens here, not at request time, so a cache hit never
// flickers through a loading frame.
func (n *Narrator) Started(token string, handle PlaybackHandle) bool {
	if token != n.token || n.state != NarrationLoading {
		// Playback began for a superseded attempt; kill it.
		_ = handle.Stop()
		return false
	}
	n.handle = handle
	n.state = NarrationPlaying
	return true
}

// FailPlayback reports a playback error (codec, device). Never retried.
func (n *Narrator) FailPlayback(token string, err error) bool {
	if token != n.token {
		return false
	}
	n.state = NarrationIdle
	n.token = ""
	n.handle = nil
	n.err = err
	return true
}

// Pause suspends playback, retaining position and handle.
func (n *Narrator) Pause() bool {
	if n.state != NarrationPlaying || n.handle == nil {
		return false
	}
	if err := n.handle.Pause(); err != nil {
		return false
	}
	n.state = NarrationPaused
	return true
}

// Resume continues from the retained position without re-synthesis.
func (n *Narrator) Resume() bool {
	if n.state != NarrationPaused || n.handle == nil {
		return false
	}
	if err := n.handle.Resume(); err != nil {
		return false
	}
	n.state = NarrationPlaying
	return true
}

// Stop explicitly ends narration and releases the handle. The audio
// cache entry survives, so replay needs no new synthesis.
func (n *Narrator) Stop() {
	if n.handle != nil {
		_ = n.handle.Stop()
	}
	n.handle = nil
	n.token = ""
	n.state = NarrationIdle
}

// Ended records natural end of playback for the given token.
func (n *Narrator) Ended(token string) bool {
	if token != n.token || (n.state != NarrationPlaying && n.state != NarrationPaused) {
		return false
	}
	n.handle = nil
	n.token = ""
	n.state = NarrationIdle
	return true
}

// LanguageChanged resets narration unconditionally, from any state
// including mid-playback: a different language means different audio.
// In-flight synthesis keeps running but its application is suppressed
// by the token change.
func (n *Narrator) LanguageChanged() {
	n.Stop()
	n.err = nil
}

// Toggle maps one key to the play/pause/resume cycle and reports the
// outcome for the Idle case so the caller can kick off the async work.
func (n *Narrator) Toggle(text, language string) PlayOutcome {
	switch n.state {
	case NarrationPlaying:
		n.Pause()
		return PlayOutcome{Action: PlayNone}
	case NarrationPaused:
		n.Resume()
		return PlayOutcome{Action: PlayNone}
	case NarrationIdle:
		return n.Play(text, language)
	}
	return PlayOutcome{Action: PlayNone}
}
