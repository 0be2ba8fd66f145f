package sheet

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

type wishRepository struct {
	wb *Workbook
}

func NewWishRepository(wb *Workbook) ports.WishRepository {
	return &wishRepository{wb: wb}
}

func (r *wishRepository) Create(ctx context.Context, wish *domain.Wish) error {
	return r.wb.Update(func(tx *Tx) error {
		wishes, log, err := boardTables(tx)
		if err != nil {
			return err
		}

		row := []string{
			strconv.FormatInt(wish.Votes, 10),
			wish.Title,
			wish.Description,
			wish.Creator,
			wish.ID,
			formatTime(wish.CreatedAt),
		}
		if err := wishes.Append(row); err != nil {
			if errors.Is(err, ErrDuplicateKey) {
				return domain.ErrDuplicateWishID
			}
			return fmt.Errorf("failed to insert wish: %w", err)
		}

		if err := log.Append([]string{wish.Creator, wish.ID, formatTime(wish.CreatedAt)}); err != nil {
			return fmt.Errorf("failed to insert creator vote: %w", err)
		}
		return nil
	})
}

func (r *wishRepository) GetByID(ctx context.Context, id string) (*domain.Wish, error) {
	var wish *domain.Wish
	err := r.wb.View(func(tx *Tx) error {
		wishes, err := tx.Table(WishesTable)
		if err != nil {
			return err
		}
		i, ok := wishes.Lookup(id)
		if !ok {
			return domain.ErrWishNotFound
		}
		wish = wishFromRow(wishes.Row(i))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wish, nil
}

func (r *wishRepository) List(ctx context.Context) ([]*domain.Wish, error) {
	var list []*domain.Wish
	err := r.wb.View(func(tx *Tx) error {
		wishes, err := tx.Table(WishesTable)
		if err != nil {
			return err
		}
		list = make([]*domain.Wish, 0, wishes.Len())
		for i := 0; i < wishes.Len(); i++ {
			list = append(list, wishFromRow(wishes.Row(i)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list wishes: %w", err)
	}
	return list, nil
}

func (r *wishRepository) UpdateText(ctx context.Context, id, title, description string) error {
	return r.wb.Update(func(tx *Tx) error {
		wishes, err := tx.Table(WishesTable)
		if err != nil {
			return err
		}
		i, ok := wishes.Lookup(id)
		if !ok {
			return domain.ErrWishNotFound
		}
		if err := wishes.SetCell(i, wishColTitle, title); err != nil {
			return err
		}
		return wishes.SetCell(i, wishColDesc, description)
	})
}

func (r *wishRepository) Delete(ctx context.Context, id string) error {
	return r.wb.Update(func(tx *Tx) error {
		wishes, log, err := boardTables(tx)
		if err != nil {
			return err
		}
		i, ok := wishes.Lookup(id)
		if !ok {
			return domain.ErrWishNotFound
		}
		wishes.DeleteRow(i)

		for j := log.Len() - 1; j >= 0; j-- {
			if log.Cell(j, logColWishID) == id {
				log.DeleteRow(j)
			}
		}
		return nil
	})
}

func boardTables(tx *Tx) (*Table, *Table, error) {
	wishes, err := tx.Table(WishesTable)
	if err != nil {
		return nil, nil, err
	}
	log, err := tx.Table(VoteLogTable)
	if err != nil {
		return nil, nil, err
	}
	return wishes, log, nil
}

func wishFromRow(row []string) *domain.Wish {
	return &domain.Wish{
		ID:          row[wishColID],
		Votes:       parseCount(row[wishColVotes]),
		Title:       row[wishColTitle],
		Description: row[wishColDesc],
		Creator:     row[wishColCreator],
		CreatedAt:   parseTime(row[wishColCreatedAt]),
	}
}
