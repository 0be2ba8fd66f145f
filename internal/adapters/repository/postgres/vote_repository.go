package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// AddVote locks the wish row for the duration of the transaction, so the
// duplicate check, the log append and the increment are serialized per wish.
func (r *voteRepository) AddVote(ctx context.Context, entry domain.VoteEntry, allowRepeat bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int64
	err = tx.QueryRowContext(ctx, `SELECT vote_count FROM wishes WHERE id = $1 FOR UPDATE`, entry.WishID).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrWishNotFound
		}
		return fmt.Errorf("failed to lock wish: %w", err)
	}

	if !allowRepeat {
		var exists bool
		query := `SELECT EXISTS (SELECT 1 FROM vote_log WHERE wish_id = $1 AND voter = $2)`
		if err := tx.QueryRowContext(ctx, query, entry.WishID, entry.Voter).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check existing vote: %w", err)
		}
		if exists {
			return domain.ErrAlreadyVoted
		}
	}

	queryVote := `
		INSERT INTO vote_log (voter, wish_id, voted_at)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.ExecContext(ctx, queryVote, entry.Voter, entry.WishID, entry.VotedAt); err != nil {
		return fmt.Errorf("failed to save vote: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE wishes SET vote_count = vote_count + 1 WHERE id = $1`, entry.WishID); err != nil {
		return fmt.Errorf("failed to increment votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *voteRepository) ListVotedWishIDs(ctx context.Context, voter string) ([]string, error) {
	query := `
		SELECT wish_id
		FROM vote_log
		WHERE voter = $1
		GROUP BY wish_id
		ORDER BY MIN(voted_at)
	`
	rows, err := r.db.QueryContext(ctx, query, voter)
	if err != nil {
		return nil, fmt.Errorf("failed to list voted wishes: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan voted wish: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voted wishes: %w", err)
	}
	return ids, nil
}

func (r *voteRepository) RecountVotes(ctx context.Context, wishID string) (bool, error) {
	query := `
		UPDATE wishes w
		SET vote_count = c.total
		FROM (SELECT COUNT(*) AS total FROM vote_log WHERE wish_id = $1) c
		WHERE w.id = $1 AND w.vote_count <> c.total
	`
	res, err := r.db.ExecContext(ctx, query, wishID)
	if err != nil {
		return false, fmt.Errorf("failed to recount votes for wish %s: %w", wishID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

func (r *voteRepository) PurgeOrphanVotes(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM vote_log v
		WHERE NOT EXISTS (SELECT 1 FROM wishes w WHERE w.id = v.wish_id)
	`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to purge orphan votes: %w", err)
	}
	return res.RowsAffected()
}
