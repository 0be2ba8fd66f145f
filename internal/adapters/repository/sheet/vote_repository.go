package sheet

import (
	"context"
	"strconv"

	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

type voteRepository struct {
	wb *Workbook
}

func NewVoteRepository(wb *Workbook) ports.VoteRepository {
	return &voteRepository{wb: wb}
}

func (r *voteRepository) AddVote(ctx context.Context, entry domain.VoteEntry, allowRepeat bool) error {
	return r.wb.Update(func(tx *Tx) error {
		wishes, log, err := boardTables(tx)
		if err != nil {
			return err
		}
		i, ok := wishes.Lookup(entry.WishID)
		if !ok {
			return domain.ErrWishNotFound
		}

		if !allowRepeat {
			for j := 0; j < log.Len(); j++ {
				if log.Cell(j, logColVoter) == entry.Voter && log.Cell(j, logColWishID) == entry.WishID {
					return domain.ErrAlreadyVoted
				}
			}
		}

		if err := log.Append([]string{entry.Voter, entry.WishID, formatTime(entry.VotedAt)}); err != nil {
			return err
		}
		votes := parseCount(wishes.Cell(i, wishColVotes)) + 1
		return wishes.SetCell(i, wishColVotes, strconv.FormatInt(votes, 10))
	})
}

func (r *voteRepository) ListVotedWishIDs(ctx context.Context, voter string) ([]string, error) {
	ids := []string{}
	err := r.wb.View(func(tx *Tx) error {
		log, err := tx.Table(VoteLogTable)
		if err != nil {
			return err
		}
		seen := make(map[string]struct{})
		for j := 0; j < log.Len(); j++ {
			if log.Cell(j, logColVoter) != voter {
				continue
			}
			id := log.Cell(j, logColWishID)
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *voteRepository) RecountVotes(ctx context.Context, wishID string) (bool, error) {
	changed := false
	err := r.wb.Update(func(tx *Tx) error {
		wishes, log, err := boardTables(tx)
		if err != nil {
			return err
		}
		i, ok := wishes.Lookup(wishID)
		if !ok {
			// Deleted since the caller listed it; nothing left to repair.
			return nil
		}

		var count int64
		for j := 0; j < log.Len(); j++ {
			if log.Cell(j, logColWishID) == wishID {
				count++
			}
		}
		recounted := strconv.FormatInt(count, 10)
		if wishes.Cell(i, wishColVotes) == recounted {
			return nil
		}
		changed = true
		return wishes.SetCell(i, wishColVotes, recounted)
	})
	return changed, err
}

func (r *voteRepository) PurgeOrphanVotes(ctx context.Context) (int64, error) {
	var removed int64
	err := r.wb.Update(func(tx *Tx) error {
		wishes, log, err := boardTables(tx)
		if err != nil {
			return err
		}
		for j := log.Len() - 1; j >= 0; j-- {
			if _, ok := wishes.Lookup(log.Cell(j, logColWishID)); !ok {
				log.DeleteRow(j)
				removed++
			}
		}
		return nil
	})
	return removed, err
}
