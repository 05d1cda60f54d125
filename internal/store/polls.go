package store

import (
	"context"
	"errors"
	"fmt"

	"condo/internal/core"
	applog "condo/internal/log"
	"condo/internal/metrics"
)

// Vote counts ownerID once for optionID. The checks, the tally and the
// voter list change under one lock, so concurrent votes of the same owner
// cannot both succeed. A rejected vote leaves the state untouched and is
// not persisted.
func (s *Store) Vote(ctx context.Context, pollID, optionID, ownerID string) (core.Poll, error) {
	var updated core.Poll
	err := s.update(ctx, func(snap *core.Snapshot) error {
		poll, ok := snap.Poll(pollID)
		if !ok {
			return core.ErrPollNotFound
		}
		if err := poll.ApplyVote(optionID, ownerID, s.now()); err != nil {
			return err
		}
		updated = *poll
		updated.Options = append([]core.PollOption(nil), poll.Options...)
		updated.VotedBy = append([]string(nil), poll.VotedBy...)
		return nil
	})

	s.metrics.RecordVote(voteOutcome(err))
	if err != nil {
		s.logger.InfoContext(ctx, "Vote rejected",
			applog.FieldOperation, applog.OpVote,
			applog.FieldPollID, pollID,
			applog.FieldOptionID, optionID,
			applog.FieldError, err.Error(),
		)
		return core.Poll{}, fmt.Errorf("vote on %s: %w", pollID, err)
	}

	s.announce(ctx, core.CollPolls, pollID, fmt.Sprintf("Voto registrado en \"%s\".", updated.Title))
	return updated, nil
}

func voteOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.VoteAccepted
	case errors.Is(err, core.ErrAlreadyVoted):
		return metrics.VoteAlreadyVoted
	case errors.Is(err, core.ErrPollClosed):
		return metrics.VoteClosed
	case errors.Is(err, core.ErrOptionNotFound):
		return metrics.VoteUnknownOption
	default:
		return metrics.VoteUnknownPoll
	}
}
