// Package board keeps a client's view of the wish board in step with the
// server. Every user command is applied to local state at once and then
// confirmed or undone when the matching gateway call returns.
package board

import (
	"errors"
	"log/slog"

	"github.com/vncsmyrnk/wishpool/internal/core/domain"
)

var (
	ErrBusy          = errors.New("operation already in flight")
	ErrUnknownWish   = errors.New("wish is not on the board")
	ErrNoEditSession = errors.New("no wish is being edited")
)

type Item struct {
	ID          string
	Title       string
	Description string
	Votes       int64
	Owner       bool
	// Pending is set while the create call for the item is in flight.
	Pending bool
}

type ItemView struct {
	Item
	Voted    bool
	Voting   bool
	Deleting bool
}

type EditSession struct {
	ID          string
	Title       string
	Description string
	Saving      bool
}

type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

func (k NoticeKind) String() string {
	if k == NoticeError {
		return "error"
	}
	return "success"
}

type Notice struct {
	Kind    NoticeKind
	Message string
}

// Notifier is the render surface's feedback channel.
type Notifier interface {
	Notify(n Notice)
	// Celebrate is called after a vote is confirmed. It is purely cosmetic.
	Celebrate(wishID string)
}

// Executor runs dispatched gateway calls.
type Executor interface {
	Go(fn func())
}

type goExecutor struct{}

func (goExecutor) Go(fn func()) { go fn() }

type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Notify(notice Notice) {
	if notice.Kind == NoticeError {
		n.logger.Warn(notice.Message)
		return
	}
	n.logger.Info(notice.Message)
}

func (n logNotifier) Celebrate(wishID string) {
	n.logger.Debug("vote confirmed", "wish_id", wishID)
}

func itemFromWish(w *domain.Wish) *Item {
	return &Item{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Votes:       w.Votes,
		Owner:       w.IsOwner,
	}
}

type set map[string]struct{}

func (s set) has(id string) bool {
	_, ok := s[id]
	return ok
}
