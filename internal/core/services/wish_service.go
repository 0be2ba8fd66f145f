package services

import (
	"context"
	"time"

	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

type wishService struct {
	repo ports.WishRepository
	now  func() time.Time
}

func NewWishService(repo ports.WishRepository) ports.WishService {
	return &wishService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *wishService) List(ctx context.Context, viewer domain.Viewer) ([]*domain.Wish, error) {
	wishes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, w := range wishes {
		w.IsOwner = viewer.CanModify(w)
		if !viewer.IsAdmin {
			w.Creator = ""
		}
	}
	return wishes, nil
}

func (s *wishService) Create(ctx context.Context, viewer domain.Viewer, input ports.CreateWishInput) (*domain.Wish, error) {
	if err := domain.ValidateWishID(input.ID); err != nil {
		return nil, err
	}
	title, desc, err := domain.NormalizeWishText(input.Title, input.Description)
	if err != nil {
		return nil, err
	}

	wish := &domain.Wish{
		ID:          input.ID,
		Votes:       domain.InitialVotes,
		Title:       title,
		Description: desc,
		Creator:     viewer.ID,
		IsOwner:     true,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.repo.Create(ctx, wish); err != nil {
		return nil, err
	}
	return wish, nil
}

func (s *wishService) Update(ctx context.Context, viewer domain.Viewer, input ports.UpdateWishInput) error {
	if err := domain.ValidateWishID(input.ID); err != nil {
		return err
	}
	title, desc, err := domain.NormalizeWishText(input.Title, input.Description)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, viewer, input.ID); err != nil {
		return err
	}

	// The wish may vanish between the check and the write; the repository then
	// reports ErrWishNotFound instead of updating nothing.
	return s.repo.UpdateText(ctx, input.ID, title, desc)
}

func (s *wishService) Delete(ctx context.Context, viewer domain.Viewer, id string) error {
	if err := domain.ValidateWishID(id); err != nil {
		return err
	}
	if err := s.authorize(ctx, viewer, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *wishService) authorize(ctx context.Context, viewer domain.Viewer, id string) error {
	wish, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !viewer.CanModify(wish) {
		return domain.ErrPermissionDenied
	}
	return nil
}
