package workflow

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/societyhub/backend/internal/backend"
)

type PollAPI interface {
	PollOptions(ctx context.Context, noticeID string) ([]backend.PollOption, error)
	Vote(ctx context.Context, req backend.VoteRequest) error
}

// PollBoard loads poll options and records votes. While a vote is in flight
// every option is disabled and further votes are refused.
type PollBoard struct {
	view
	api  PollAPI
	deps Deps
	log  *slog.Logger

	mu      sync.Mutex
	voting  bool
	options map[string][]backend.PollOption
}

func NewPollBoard(ctx context.Context, api PollAPI, deps Deps) *PollBoard {
	deps = deps.withDefaults()
	return &PollBoard{
		view:    newView(ctx),
		api:     api,
		deps:    deps,
		log:     deps.Logger.With("component", "poll_board"),
		options: make(map[string][]backend.PollOption),
	}
}

// Voting reports whether a vote is in flight. The options are disabled while
// it is true.
func (p *PollBoard) Voting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.voting
}

// Options returns the last loaded options of a poll.
func (p *PollBoard) Options(noticeID string) []backend.PollOption {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.options[noticeID])
}

// GetOptions fetches a poll's options with their current counts. A failed
// fetch leaves the previously loaded options in place.
func (p *PollBoard) GetOptions(ctx context.Context, noticeID string) ([]backend.PollOption, error) {
	ctx, cancel := p.bind(ctx)
	defer cancel()

	opts, err := p.api.PollOptions(ctx, noticeID)
	if aliveErr := p.alive(); aliveErr != nil {
		return nil, aliveErr
	}
	if err != nil {
		p.log.Error("poll options fetch failed", "error", err, "notice_id", noticeID)
		p.deps.Notifier.Failure(MsgLoadPollOptions)
		return nil, fetchFailure(err, MsgLoadPollOptions)
	}

	if opts == nil {
		opts = []backend.PollOption{}
	}
	p.mu.Lock()
	p.options[noticeID] = opts
	p.mu.Unlock()
	return slices.Clone(opts), nil
}

// Vote records the actor's vote for optionID and then reloads the poll.
// Counts are never incremented locally. If the reload fails the vote still
// stands and only the reload failure is notified.
func (p *PollBoard) Vote(ctx context.Context, noticeID, optionID string) error {
	actor, err := p.deps.Identity.Current()
	if err != nil || actor.ID == "" {
		p.deps.Notifier.Failure(MsgLoginToVote)
		return validation(MsgLoginToVote)
	}

	p.mu.Lock()
	if p.voting {
		p.mu.Unlock()
		return validation(MsgVoteInProgress)
	}
	p.voting = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.voting = false
		p.mu.Unlock()
	}()

	rctx, cancel := p.bind(ctx)
	err = p.api.Vote(rctx, backend.VoteRequest{OptionID: optionID, UserID: actor.ID})
	cancel()
	if aliveErr := p.alive(); aliveErr != nil {
		return aliveErr
	}
	if err != nil {
		p.log.Warn("vote rejected", "error", err, "actor_id", actor.ID, "option_id", optionID)
		we := writeFailure(err, MsgVotingFailed)
		p.deps.Notifier.Failure(we.Message)
		return we
	}

	p.deps.Notifier.Success(MsgVoteRecorded)
	if _, err := p.GetOptions(ctx, noticeID); err != nil && !IsKind(err, KindFetch) {
		return err
	}
	return nil
}
