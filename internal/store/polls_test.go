package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"condo/internal/core"
	"condo/internal/metrics"
	"condo/internal/storage/memory"
)

func TestVote(t *testing.T) {
	tests := []struct {
		name    string
		poll    string
		option  string
		owner   string
		wantErr error
		outcome string
	}{
		{"accepted", "poll-1", "opt-1-1", "owner-1", nil, metrics.VoteAccepted},
		{"second vote of a prior voter", "poll-1", "opt-1-0", "owner-3", core.ErrAlreadyVoted, metrics.VoteAlreadyVoted},
		{"closed poll", "poll-2", "opt-2-0", "owner-3", core.ErrPollClosed, metrics.VoteClosed},
		{"unknown poll", "poll-404", "opt-1-0", "owner-1", core.ErrPollNotFound, metrics.VoteUnknownPoll},
		{"unknown option", "poll-1", "opt-9", "owner-2", core.ErrOptionNotFound, metrics.VoteUnknownOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := memory.New()
			m := metrics.New()
			s, rec := newTestStore(t, backend, WithMetrics(m))
			before := s.Snapshot()

			poll, err := s.Vote(context.Background(), tt.poll, tt.option, tt.owner)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			want := `condo_poll_votes_total{outcome="` + tt.outcome + `"} 1`
			if !strings.Contains(scrape(t, m), want) {
				t.Errorf("missing %s", want)
			}

			if tt.wantErr != nil {
				if backend.Saves() != 0 || len(rec.Events()) != 0 {
					t.Fatal("rejected vote must not persist or notify")
				}
				after := s.Snapshot()
				for i := range before.Polls {
					if before.Polls[i].TotalVotes() != after.Polls[i].TotalVotes() ||
						len(before.Polls[i].VotedBy) != len(after.Polls[i].VotedBy) {
						t.Fatal("rejected vote changed a poll")
					}
				}
				return
			}

			if poll.Options[1].Votes != 1 || poll.TotalVotes() != 2 || !poll.HasVoted(tt.owner) {
				t.Fatalf("unexpected tally %+v", poll)
			}
			stored := persisted(t, backend)
			p, _ := stored.Poll(tt.poll)
			if p.Options[1].Votes != 1 || !p.HasVoted(tt.owner) {
				t.Fatal("persisted poll does not reflect the vote")
			}
		})
	}
}

func TestVoteClosesByDate(t *testing.T) {
	later := func() time.Time { return time.Date(2023, 11, 16, 9, 0, 0, 0, time.Local) }
	s, _ := newTestStore(t, memory.New(), WithClock(later))

	if _, err := s.Vote(context.Background(), "poll-1", "opt-1-0", "owner-1"); !errors.Is(err, core.ErrPollClosed) {
		t.Fatalf("expected closed after closing date, got %v", err)
	}

	onClosingDay := func() time.Time { return time.Date(2023, 11, 15, 23, 0, 0, 0, time.Local) }
	s, _ = newTestStore(t, memory.New(), WithClock(onClosingDay))
	if _, err := s.Vote(context.Background(), "poll-1", "opt-1-0", "owner-1"); err != nil {
		t.Fatalf("closing day itself is still open: %v", err)
	}
}

func TestConcurrentVotesSameOwner(t *testing.T) {
	s, _ := newTestStore(t, memory.New())

	var accepted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Vote(context.Background(), "poll-1", "opt-1-0", "owner-2"); err == nil {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	if accepted.Load() != 1 {
		t.Fatalf("accepted %d votes, want 1", accepted.Load())
	}
	snap := s.Snapshot()
	p, _ := snap.Poll("poll-1")
	if p.Options[0].Votes != 2 || len(p.VotedBy) != 2 {
		t.Fatalf("unexpected poll state %+v", p)
	}
}
