package reader

import (
	"errors"
	"testing"
)

type fakeHandle struct {
	paused, resumed, stopped int
}

func (h *fakeHandle) Pause() error  { h.paused++; return nil }
func (h *fakeHandle) Resume() error { h.resumed++; return nil }
func (h *fakeHandle) Stop() error   { h.stopped++; return nil }

func TestNarrator_FullStateWalk(t *testing.T) {
	n := NewNarrator(NewAudioCache())

	out := n.Play("hello world", "en")
	if out.Action != PlaySynthesize {
		t.Fatalf("expected synthesis on cache miss, got %+v", out)
	}
	if n.State() != NarrationLoading {
		t.Fatalf("expected loading, got %v", n.State())
	}

	start := n.ApplySynthesis(out.Token, out.Text, out.Language, Audio{Data: []byte{1, 2}, ContentType: "audio/mpeg"})
	if start.Action != PlayStart {
		t.Fatalf("expected start, got %+v", start)
	}

	handle := &fakeHandle{}
	if !n.Started(start.Token, handle) {
		t.Fatal("expected playback to register")
	}
	if n.State() != NarrationPlaying {
		t.Fatalf("expected playing, got %v", n.State())
	}

	if !n.Pause() || n.State() != NarrationPaused {
		t.Fatalf("pause failed, state %v", n.State())
	}
	if !n.Resume() || n.State() != NarrationPlaying {
		t.Fatalf("resume failed, state %v", n.State())
	}
	if handle.paused != 1 || handle.resumed != 1 {
		t.Fatalf("handle calls: %+v", handle)
	}

	n.Stop()
	if n.State() != NarrationIdle || handle.stopped != 1 {
		t.Fatalf("stop failed: state %v handle %+v", n.State(), handle)
	}

	// Audio cache entry retained: replay is a cache hit.
	replay := n.Play("hello world", "en")
	if replay.Action != PlayStart {
		t.Fatalf("expected cache hit on replay, got %+v", replay)
	}
}

func TestNarrator_DoublePlayIsSingleFlight(t *testing.T) {
	n := NewNarrator(NewAudioCache())

	first := n.Play("text", "en")
	second := n.Play("text", "en")
	if second.Action != PlayNone {
		t.Fatalf("second play must be a no-op, got %+v", second)
	}
	if first.Action != PlaySynthesize {
		t.Fatalf("first play should synthesize, got %+v", first)
	}
}

func TestNarrator_LanguageChangedMidPlayback(t *testing.T) {
	n := NewNarrator(NewAudioCache())

	out := n.Play("text", "en")
	start := n.ApplySynthesis(out.Token, out.Text, out.Language, Audio{Data: []byte{1}})
	handle := &fakeHandle{}
	n.Started(start.Token, handle)

	n.LanguageChanged()
	if n.State() != NarrationIdle {
		t.Fatalf("expected idle after language change, got %v", n.State())
	}
	if handle.stopped != 1 {
		t.Fatal("playback handle must be released")
	}

	// A subsequent play in the new language is a distinct cache key and
	// must re-synthesize.
	next := n.Play("texto", "es")
	if next.Action != PlaySynthesize {
		t.Fatalf("expected re-synthesis for new language, got %+v", next)
	}
}

func TestNarrator_StaleSynthesisIsSuppressedButCached(t *testing.T) {
	cache := NewAudioCache()
	n := NewNarrator(cache)

	out := n.Play("text", "en")
	n.LanguageChanged()

	late := n.ApplySynthesis(out.Token, out.Text, out.Language, Audio{Data: []byte{9}})
	if late.Action != PlayNone {
		t.Fatalf("stale synthesis must not start playback, got %+v", late)
	}
	if _, ok := cache.Get("text", "en"); !ok {
		t.Fatal("stale synthesis result should still be cached")
	}
}

func TestNarrator_SynthesisFailureIsTerminal(t *testing.T) {
	n := NewNarrator(NewAudioCache())

	out := n.Play("text", "en")
	if !n.FailSynthesis(out.Token, errors.New("voice unavailable")) {
		t.Fatal("expected failure to apply")
	}
	if n.State() != NarrationIdle || n.Err() == nil {
		t.Fatalf("unexpected state: %v err=%v", n.State(), n.Err())
	}

	// The error clears on the next attempt.
	n.Play("text", "en")
	if n.Err() != nil {
		t.Fatal("error must clear on new play")
	}
}

func TestNarrator_PlaybackFailureReturnsToIdle(t *testing.T) {
	n := NewNarrator(NewAudioCache())

	out := n.Play("text", "en")
	n.ApplySynthesis(out.Token, out.Text, out.Language, Audio{Data: []byte{1}})
	if !n.FailPlayback(out.Token, errors.New("no audio device")) {
		t.Fatal("expected playback failure to apply")
	}
	if n.State() != NarrationIdle || n.Err() == nil {
		t.Fatalf("unexpected state: %v err=%v", n.State(), n.Err())
	}
}

func TestNarrator_StartedForSupersededAttemptStopsHandle(t *testing.T) {
	n := NewNarrator(NewAudioCache())

	out := n.Play("text", "en")
	start := n.ApplySynthesis(out.Token, out.Text, out.Language, Audio{Data: []byte{1}})
	n.LanguageChanged()

	handle := &fakeHandle{}
	if n.Started(start.Token, handle) {
		t.Fatal("superseded playback must not register")
	}
	if handle.stopped != 1 {
		t.Fatal("superseded playback must be stopped immediately")
	}
}

func TestNarrator_NaturalEndKeepsCacheForReplay(t *testing.T) {
	n := NewNarrator(NewAudioCache())

	out := n.Play("text", "en")
	start := n.ApplySynthesis(out.Token, out.Text, out.Language, Audio{Data: []byte{1}})
	n.Started(start.Token, &fakeHandle{})

	if !n.Ended(start.Token) {
		t.Fatal("expected end to apply")
	}
	if n.State() != NarrationIdle {
		t.Fatalf("expected idle, got %v", n.State())
	}
	replay := n.Play("text", "en")
	if replay.Action != PlayStart {
		t.Fatalf("replay after natural end must not re-synthesize, got %+v", replay)
	}
}

func TestNarrator_ToggleCyclesPlayPauseResume(t *testing.T) {
	n := NewNarrator(NewAudioCache())

	out := n.Toggle("text", "en")
	if out.Action != PlaySynthesize {
		t.Fatalf("expected synthesis from idle toggle, got %+v", out)
	}
	start := n.ApplySynthesis(out.Token, out.Text, out.Language, Audio{Data: []byte{1}})
	n.Started(start.Token, &fakeHandle{})

	n.Toggle("text", "en")
	if n.State() != NarrationPaused {
		t.Fatalf("toggle while playing should pause, got %v", n.State())
	}
	n.Toggle("text", "en")
	if n.State() != NarrationPlaying {
		t.Fatalf("toggle while paused should resume, got %v", n.State())
	}
}
