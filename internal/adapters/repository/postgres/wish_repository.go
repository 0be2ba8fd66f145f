package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

const uniqueViolation = "23505"

type wishRepository struct {
	db *sql.DB
}

func NewWishRepository(db *sql.DB) ports.WishRepository {
	return &wishRepository{
		db: db,
	}
}

func (r *wishRepository) Create(ctx context.Context, wish *domain.Wish) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryWish := `
		INSERT INTO wishes (vote_count, title, description, creator, id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, queryWish, wish.Votes, wish.Title, wish.Description, wish.Creator, wish.ID, wish.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateWishID
		}
		return fmt.Errorf("failed to insert wish: %w", err)
	}

	queryVote := `
		INSERT INTO vote_log (voter, wish_id, voted_at)
		VALUES ($1, $2, $3)
	`
	if _, err = tx.ExecContext(ctx, queryVote, wish.Creator, wish.ID, wish.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert creator vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *wishRepository) GetByID(ctx context.Context, id string) (*domain.Wish, error) {
	query := `
		SELECT vote_count, title, description, creator, id, created_at
		FROM wishes
		WHERE id = $1
	`

	var wish domain.Wish
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&wish.Votes, &wish.Title, &wish.Description, &wish.Creator, &wish.ID, &wish.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWishNotFound
		}
		return nil, fmt.Errorf("failed to get wish: %w", err)
	}

	return &wish, nil
}

func (r *wishRepository) List(ctx context.Context) ([]*domain.Wish, error) {
	query := `
		SELECT vote_count, title, description, creator, id, created_at
		FROM wishes
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishes: %w", err)
	}
	defer rows.Close()

	wishes := []*domain.Wish{}
	for rows.Next() {
		var wish domain.Wish
		if err := rows.Scan(&wish.Votes, &wish.Title, &wish.Description, &wish.Creator, &wish.ID, &wish.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wish: %w", err)
		}
		wishes = append(wishes, &wish)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishes: %w", err)
	}
	return wishes, nil
}

func (r *wishRepository) UpdateText(ctx context.Context, id, title, description string) error {
	query := `UPDATE wishes SET title = $1, description = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, title, description, id)
	if err != nil {
		return fmt.Errorf("failed to update wish: %w", err)
	}
	return requireAffected(res)
}

func (r *wishRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM wishes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wish: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM vote_log WHERE wish_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete wish votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrWishNotFound
	}
	return nil
}
