package board

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

type Options struct {
	Notifier Notifier
	Executor Executor
	// NewID generates ids for locally created wishes. Defaults to uuid.NewString.
	NewID func() string
	// StuckAfter reports a load that has not finished in time. Zero disables it.
	StuckAfter time.Duration
	Logger     *slog.Logger
}

type Synchronizer struct {
	ctx        context.Context
	gateway    ports.Gateway
	notifier   Notifier
	exec       Executor
	newID      func() string
	stuckAfter time.Duration
	logger     *slog.Logger

	mu       sync.Mutex
	wg       sync.WaitGroup
	items    []*Item
	voted    set
	voting   set
	deleting set
	admin    bool
	loaded   bool
	loading  bool
	loadSeq  uint64
	creating bool
	edit     *EditSession
	journal  *journal
}

// New builds a synchronizer bound to ctx; every gateway call made on its
// behalf uses that context.
func New(ctx context.Context, gateway ports.Gateway, opts Options) *Synchronizer {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notifier == nil {
		opts.Notifier = logNotifier{logger: opts.Logger}
	}
	if opts.Executor == nil {
		opts.Executor = goExecutor{}
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	return &Synchronizer{
		ctx:        ctx,
		gateway:    gateway,
		notifier:   opts.Notifier,
		exec:       opts.Executor,
		newID:      opts.NewID,
		stuckAfter: opts.StuckAfter,
		logger:     opts.Logger,
		voted:      make(set),
		voting:     make(set),
		deleting:   make(set),
		journal:    newJournal(opts.Logger),
	}
}

func (s *Synchronizer) dispatch(call func()) {
	s.wg.Add(1)
	s.exec.Go(func() {
		defer s.wg.Done()
		call()
	})
}

func (s *Synchronizer) notify(kind NoticeKind, message string) {
	s.notifier.Notify(Notice{Kind: kind, Message: message})
}

// Wait blocks until every dispatched call has returned and been applied.
func (s *Synchronizer) Wait() {
	s.wg.Wait()
}

// Load fetches the admin flag, the viewer's voted ids and the wish list, in
// that order, and replaces the local snapshot with the result. Wishes created
// locally that the server does not list yet are kept, and unconfirmed votes
// and edits are applied again on top of the new snapshot.
func (s *Synchronizer) Load() error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrBusy
	}
	s.loading = true
	s.loadSeq++
	seq := s.loadSeq
	s.mu.Unlock()

	var watchdog *time.Timer
	if s.stuckAfter > 0 {
		watchdog = time.AfterFunc(s.stuckAfter, func() {
			s.mu.Lock()
			stuck := s.loading && s.loadSeq == seq
			s.mu.Unlock()
			if stuck {
				s.notify(NoticeError, fmt.Sprintf("still loading wishes after %s", s.stuckAfter))
			}
		})
	}

	s.dispatch(func() {
		if watchdog != nil {
			defer watchdog.Stop()
		}

		admin, ids, wishes, err := s.fetchSnapshot()
		if err != nil {
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
			s.logger.Error("failed to load board", "error", err)
			s.notify(NoticeError, "failed to load wishes: "+err.Error())
			return
		}

		s.mu.Lock()
		s.applySnapshot(admin, ids, wishes)
		s.loading = false
		s.loaded = true
		s.mu.Unlock()
	})
	return nil
}

func (s *Synchronizer) fetchSnapshot() (bool, []string, []*domain.Wish, error) {
	admin, err := s.gateway.IsAdmin(s.ctx)
	if err != nil {
		return false, nil, nil, err
	}
	ids, err := s.gateway.VotedWishIDs(s.ctx)
	if err != nil {
		return false, nil, nil, err
	}
	wishes, err := s.gateway.ListWishes(s.ctx)
	if err != nil {
		return false, nil, nil, err
	}
	return admin, ids, wishes, nil
}

func (s *Synchronizer) applySnapshot(admin bool, ids []string, wishes []*domain.Wish) {
	listed := make(set, len(wishes))
	items := make([]*Item, 0, len(wishes))
	for _, w := range wishes {
		listed[w.ID] = struct{}{}
		items = append(items, itemFromWish(w))
	}

	var pending []*Item
	for _, it := range s.items {
		if it.Pending && !listed.has(it.ID) {
			pending = append(pending, it)
		}
	}

	voted := make(set, len(ids)+len(pending))
	for _, id := range ids {
		voted[id] = struct{}{}
	}
	for _, it := range pending {
		voted[it.ID] = struct{}{}
	}

	s.admin = admin
	s.voted = voted
	s.items = append(pending, items...)
	s.journal.replay()
}

// Create adds a wish locally under a fresh id and sends it to the server. The
// creator's implicit vote is recorded at once.
func (s *Synchronizer) Create(title, description string) (string, error) {
	title, description, err := domain.NormalizeWishText(title, description)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.creating {
		s.mu.Unlock()
		return "", ErrBusy
	}
	id := s.newID()
	s.items = append([]*Item{{
		ID:          id,
		Title:       title,
		Description: description,
		Votes:       domain.InitialVotes,
		Owner:       true,
		Pending:     true,
	}}, s.items...)
	s.voted[id] = struct{}{}
	s.creating = true
	seq := s.journal.record("create", id, func() {
		s.removeItem(id)
		delete(s.voted, id)
	}, nil)
	s.mu.Unlock()

	s.dispatch(func() {
		msg, err := s.gateway.AddWish(s.ctx, ports.CreateWishInput{ID: id, Title: title, Description: description})

		s.mu.Lock()
		s.creating = false
		if err != nil {
			s.journal.rollback(seq)
		} else {
			s.journal.commit(seq)
			if it := s.find(id); it != nil {
				it.Pending = false
			}
		}
		s.mu.Unlock()

		if err != nil {
			s.notify(NoticeError, "failed to add wish: "+err.Error())
			return
		}
		s.notify(NoticeSuccess, msg)
	})
	return id, nil
}

// Vote adds one vote to the wish. Non-admin viewers may vote on a wish once.
func (s *Synchronizer) Vote(id string) error {
	s.mu.Lock()
	item := s.find(id)
	if item == nil {
		s.mu.Unlock()
		return ErrUnknownWish
	}
	if s.voting.has(id) || s.deleting.has(id) || item.Pending {
		s.mu.Unlock()
		return ErrBusy
	}
	if !s.admin && s.voted.has(id) {
		s.mu.Unlock()
		return domain.ErrAlreadyVoted
	}

	item.Votes++
	marked := !s.admin
	if marked {
		s.voted[id] = struct{}{}
	}
	s.voting[id] = struct{}{}
	// landed is set when a reload already shows this vote on the server.
	landed := false
	seq := s.journal.record("vote", id, func() {
		if landed {
			return
		}
		if it := s.find(id); it != nil && it.Votes > 0 {
			it.Votes--
		}
		if marked {
			delete(s.voted, id)
		}
	}, func() {
		if marked && s.voted.has(id) {
			landed = true
			return
		}
		if it := s.find(id); it != nil {
			it.Votes++
		}
		if marked {
			s.voted[id] = struct{}{}
		}
	})
	s.mu.Unlock()

	s.dispatch(func() {
		msg, err := s.gateway.AddVote(s.ctx, id)

		s.mu.Lock()
		delete(s.voting, id)
		if err != nil {
			s.journal.rollback(seq)
		} else {
			s.journal.commit(seq)
		}
		s.mu.Unlock()

		if err != nil {
			s.notify(NoticeError, "failed to vote: "+err.Error())
			return
		}
		s.notify(NoticeSuccess, msg)
		s.notifier.Celebrate(id)
	})
	return nil
}

// BeginEdit opens an edit session for a wish the viewer owns, seeded with its
// current text.
func (s *Synchronizer) BeginEdit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edit != nil && s.edit.Saving {
		return ErrBusy
	}
	item := s.find(id)
	if item == nil {
		return ErrUnknownWish
	}
	if item.Pending || s.deleting.has(id) {
		return ErrBusy
	}
	if !item.Owner {
		return domain.ErrPermissionDenied
	}
	s.edit = &EditSession{ID: id, Title: item.Title, Description: item.Description}
	return nil
}

func (s *Synchronizer) CancelEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edit == nil {
		return ErrNoEditSession
	}
	if s.edit.Saving {
		return ErrBusy
	}
	s.edit = nil
	return nil
}

// Edit returns a copy of the open edit session.
func (s *Synchronizer) Edit() (EditSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edit == nil {
		return EditSession{}, false
	}
	return *s.edit, true
}

// SaveEdit applies the draft locally and sends it. On failure the previous
// text comes back and the session stays open with the draft.
func (s *Synchronizer) SaveEdit(title, description string) error {
	title, description, err := domain.NormalizeWishText(title, description)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.edit == nil {
		s.mu.Unlock()
		return ErrNoEditSession
	}
	if s.edit.Saving {
		s.mu.Unlock()
		return ErrBusy
	}
	id := s.edit.ID
	item := s.find(id)
	if item == nil {
		s.edit = nil
		s.mu.Unlock()
		return ErrUnknownWish
	}

	prevTitle, prevDescription := item.Title, item.Description
	item.Title, item.Description = title, description
	s.edit.Title, s.edit.Description = title, description
	s.edit.Saving = true
	seq := s.journal.record("update", id, func() {
		it := s.find(id)
		if it == nil || it.Title != title || it.Description != description {
			return
		}
		it.Title, it.Description = prevTitle, prevDescription
	}, func() {
		it := s.find(id)
		if it == nil {
			return
		}
		prevTitle, prevDescription = it.Title, it.Description
		it.Title, it.Description = title, description
	})
	s.mu.Unlock()

	s.dispatch(func() {
		msg, err := s.gateway.UpdateWish(s.ctx, ports.UpdateWishInput{ID: id, Title: title, Description: description})

		s.mu.Lock()
		if err != nil {
			s.journal.rollback(seq)
		} else {
			s.journal.commit(seq)
		}
		if s.edit != nil && s.edit.ID == id {
			switch {
			case err == nil, s.find(id) == nil:
				s.edit = nil
			default:
				s.edit.Saving = false
			}
		}
		s.mu.Unlock()

		if err != nil {
			s.notify(NoticeError, "failed to update wish: "+err.Error())
			return
		}
		s.notify(NoticeSuccess, msg)
	})
	return nil
}

// Delete marks the wish as being deleted and removes it once the server
// confirms.
func (s *Synchronizer) Delete(id string) error {
	s.mu.Lock()
	item := s.find(id)
	if item == nil {
		s.mu.Unlock()
		return ErrUnknownWish
	}
	if item.Pending || s.deleting.has(id) {
		s.mu.Unlock()
		return ErrBusy
	}
	if !item.Owner && !s.admin {
		s.mu.Unlock()
		return domain.ErrPermissionDenied
	}
	s.deleting[id] = struct{}{}
	seq := s.journal.record("delete", id, func() {
		delete(s.deleting, id)
	}, nil)
	s.mu.Unlock()

	s.dispatch(func() {
		msg, err := s.gateway.DeleteWish(s.ctx, id)

		s.mu.Lock()
		if err != nil {
			s.journal.rollback(seq)
		} else {
			s.journal.commit(seq)
			delete(s.deleting, id)
			delete(s.voted, id)
			s.removeItem(id)
			if s.edit != nil && s.edit.ID == id && !s.edit.Saving {
				s.edit = nil
			}
		}
		s.mu.Unlock()

		if err != nil {
			s.notify(NoticeError, "failed to delete wish: "+err.Error())
			return
		}
		s.notify(NoticeSuccess, msg)
	})
	return nil
}

// View returns the board ordered by votes, highest first. Ties keep their
// list order.
func (s *Synchronizer) View() []ItemView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]ItemView, 0, len(s.items))
	for _, it := range s.items {
		views = append(views, ItemView{
			Item:     *it,
			Voted:    s.voted.has(it.ID),
			Voting:   s.voting.has(it.ID),
			Deleting: s.deleting.has(it.ID),
		})
	}
	slices.SortStableFunc(views, func(a, b ItemView) int {
		switch {
		case a.Votes > b.Votes:
			return -1
		case a.Votes < b.Votes:
			return 1
		}
		return 0
	})
	return views
}

func (s *Synchronizer) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admin
}

// Loaded reports whether at least one load has completed.
func (s *Synchronizer) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Synchronizer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Unconfirmed is the number of optimistic changes still waiting for the server.
func (s *Synchronizer) Unconfirmed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.journal.open()
}

func (s *Synchronizer) find(id string) *Item {
	for _, it := range s.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (s *Synchronizer) removeItem(id string) {
	s.items = slices.DeleteFunc(s.items, func(it *Item) bool { return it.ID == id })
}
