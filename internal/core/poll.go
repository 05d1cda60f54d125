package core

import (
	"errors"
	"slices"
	"time"
)

const (
	PollActive PollStatus = "active"
	PollClosed PollStatus = "closed"
)

var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrPollClosed     = errors.New("poll is closed")
	ErrAlreadyVoted   = errors.New("owner already voted")
	ErrOptionNotFound = errors.New("poll option not found")
)

type (
	PollStatus string

	PollOption struct {
		ID    string `json:"id"`
		Text  string `json:"text"`
		Votes int    `json:"votes"`
	}

	// Poll keeps its tally in Options and the ids of owners who voted in
	// VotedBy. Both change together or not at all.
	Poll struct {
		ID           string       `json:"id"`
		Title        string       `json:"title"`
		Description  string       `json:"description"`
		ClosingDate  string       `json:"closingDate"`
		Options      []PollOption `json:"options"`
		Status       PollStatus   `json:"status"`
		CreationDate string       `json:"creationDate"`
		VotedBy      []string     `json:"votedBy"`
	}
)

// EffectiveStatus is closed when the stored status says so or the closing
// date lies before the day of now. An empty or unreadable closing date
// never closes a poll.
func (p Poll) EffectiveStatus(now time.Time) PollStatus {
	if p.Status == PollClosed {
		return PollClosed
	}
	if p.ClosingDate == "" {
		return PollActive
	}
	closing := ParseDate(p.ClosingDate)
	if closing.IsZero() {
		return PollActive
	}
	today := Day(now)
	closingDay := time.Date(closing.Year(), closing.Month(), closing.Day(), 0, 0, 0, 0, today.Location())
	if closingDay.Before(today) {
		return PollClosed
	}
	return PollActive
}

func (p Poll) HasVoted(ownerID string) bool {
	return slices.Contains(p.VotedBy, ownerID)
}

func (p Poll) TotalVotes() int {
	total := 0
	for _, o := range p.Options {
		total += o.Votes
	}
	return total
}

// ApplyVote checks every rejection reason before touching the poll, so a
// rejected vote leaves it unchanged.
func (p *Poll) ApplyVote(optionID, ownerID string, now time.Time) error {
	if p.EffectiveStatus(now) == PollClosed {
		return ErrPollClosed
	}
	if p.HasVoted(ownerID) {
		return ErrAlreadyVoted
	}
	idx := slices.IndexFunc(p.Options, func(o PollOption) bool { return o.ID == optionID })
	if idx < 0 {
		return ErrOptionNotFound
	}
	p.Options[idx].Votes++
	p.VotedBy = append(p.VotedBy, ownerID)
	return nil
}
