package sheet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

type UserRepository struct {
	wb *Workbook
}

func NewUserRepository(wb *Workbook) ports.UserRepository {
	return &UserRepository{wb: wb}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(row []string) bool {
		return strings.EqualFold(row[userColEmail], email)
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user *domain.User
	err := r.wb.View(func(tx *Tx) error {
		users, err := tx.Table(UsersTable)
		if err != nil {
			return err
		}
		if i, ok := users.Lookup(id); ok {
			user = userFromRow(users.Row(i))
		}
		return nil
	})
	return user, err
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.wb.Update(func(tx *Tx) error {
		users, err := tx.Table(UsersTable)
		if err != nil {
			return err
		}
		for i := 0; i < users.Len(); i++ {
			if strings.EqualFold(users.Cell(i, userColEmail), user.Email) {
				return fmt.Errorf("user %s already exists", user.Email)
			}
		}

		user.ID = uuid.New()
		user.CreatedAt = time.Now().UTC()
		return users.Append([]string{user.ID.String(), user.Email, user.Name, formatTime(user.CreatedAt)})
	})
}

func (r *UserRepository) find(match func(row []string) bool) (*domain.User, error) {
	var user *domain.User
	err := r.wb.View(func(tx *Tx) error {
		users, err := tx.Table(UsersTable)
		if err != nil {
			return err
		}
		for i := 0; i < users.Len(); i++ {
			if row := users.Row(i); match(row) {
				user = userFromRow(row)
				return nil
			}
		}
		return nil
	})
	return user, err
}

func userFromRow(row []string) *domain.User {
	id, _ := uuid.Parse(row[userColID])
	return &domain.User{
		ID:        id,
		Email:     row[userColEmail],
		Name:      row[userColName],
		CreatedAt: parseTime(row[userColCreatedAt]),
	}
}
