package board

import (
	"log/slog"
	"maps"
	"slices"
)

// journal holds the inverse of every optimistic mutation that has not been
// confirmed yet. Rolling back one entry undoes only that operation, whatever
// else changed on the board in the meantime.
type journal struct {
	logger  *slog.Logger
	next    uint64
	entries map[uint64]journalEntry
}

type journalEntry struct {
	op   string
	id   string
	undo func()
	// redo applies the mutation again on top of a freshly loaded board.
	redo func()
}

func newJournal(logger *slog.Logger) *journal {
	return &journal{logger: logger, entries: make(map[uint64]journalEntry)}
}

func (j *journal) record(op, id string, undo, redo func()) uint64 {
	j.next++
	j.entries[j.next] = journalEntry{op: op, id: id, undo: undo, redo: redo}
	return j.next
}

func (j *journal) commit(seq uint64) {
	delete(j.entries, seq)
}

func (j *journal) rollback(seq uint64) {
	e, ok := j.entries[seq]
	if !ok {
		return
	}
	delete(j.entries, seq)
	j.logger.Debug("rolling back optimistic change", "op", e.op, "wish_id", e.id)
	e.undo()
}

// replay runs every open entry's redo in the order the entries were recorded.
func (j *journal) replay() {
	for _, seq := range slices.Sorted(maps.Keys(j.entries)) {
		e := j.entries[seq]
		if e.redo == nil {
			continue
		}
		j.logger.Debug("replaying optimistic change", "op", e.op, "wish_id", e.id)
		e.redo()
	}
}

func (j *journal) open() int {
	return len(j.entries)
}
