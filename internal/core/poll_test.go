package core

import (
	"errors"
	"testing"
	"time"
)

func samplePoll() Poll {
	return Poll{
		ID:          "poll-1",
		Title:       "Horario de alberca",
		ClosingDate: "2023-11-30",
		Status:      PollActive,
		Options: []PollOption{
			{ID: "opt-1", Text: "Sí"},
			{ID: "opt-2", Text: "No"},
		},
		VotedBy: []string{},
	}
}

func TestEffectiveStatus(t *testing.T) {
	p := samplePoll()
	cases := []struct {
		name string
		now  time.Time
		want PollStatus
	}{
		{"before closing", time.Date(2023, 11, 1, 10, 0, 0, 0, time.UTC), PollActive},
		{"closing day", time.Date(2023, 11, 30, 23, 0, 0, 0, time.UTC), PollActive},
		{"after closing", time.Date(2023, 12, 1, 0, 0, 1, 0, time.UTC), PollClosed},
	}
	for _, tc := range cases {
		if got := p.EffectiveStatus(tc.now); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}

	p.Status = PollClosed
	if got := p.EffectiveStatus(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)); got != PollClosed {
		t.Fatalf("stored closed status must win, got %s", got)
	}

	open := samplePoll()
	open.ClosingDate = ""
	if got := open.EffectiveStatus(time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)); got != PollActive {
		t.Fatalf("poll without closing date should stay active, got %s", got)
	}
}

func TestApplyVote(t *testing.T) {
	now := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	p := samplePoll()

	if err := p.ApplyVote("opt-2", "owner-1", now); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if p.Options[1].Votes != 1 || p.TotalVotes() != 1 {
		t.Fatalf("tally not updated: %+v", p.Options)
	}
	if !p.HasVoted("owner-1") {
		t.Fatal("voter not recorded")
	}

	if err := p.ApplyVote("opt-1", "owner-1", now); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
	if err := p.ApplyVote("opt-9", "owner-2", now); !errors.Is(err, ErrOptionNotFound) {
		t.Fatalf("expected ErrOptionNotFound, got %v", err)
	}
	if err := p.ApplyVote("opt-1", "owner-3", now.AddDate(1, 0, 0)); !errors.Is(err, ErrPollClosed) {
		t.Fatalf("expected ErrPollClosed, got %v", err)
	}
	if p.TotalVotes() != 1 || len(p.VotedBy) != 1 {
		t.Fatalf("rejected votes changed the poll: %+v", p)
	}
}
