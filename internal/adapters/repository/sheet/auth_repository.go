package sheet

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

type AuthRepository struct {
	wb *Workbook
}

func NewAuthRepository(wb *Workbook) ports.AuthRepository {
	return &AuthRepository{wb: wb}
}

func (r *AuthRepository) StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	return r.wb.Update(func(tx *Tx) error {
		tokens, err := tx.Table(RefreshTokensTable)
		if err != nil {
			return err
		}
		token.ID = uuid.New()
		token.CreatedAt = time.Now().UTC()
		return tokens.Append([]string{
			token.ID.String(),
			token.UserID.String(),
			token.TokenHash,
			formatTime(token.ExpiresAt),
			strconv.FormatBool(token.Revoked),
			formatTime(token.CreatedAt),
		})
	})
}

func (r *AuthRepository) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	var token *domain.RefreshToken
	err := r.wb.View(func(tx *Tx) error {
		tokens, err := tx.Table(RefreshTokensTable)
		if err != nil {
			return err
		}
		for i := 0; i < tokens.Len(); i++ {
			if tokens.Cell(i, tokenColHash) == tokenHash {
				token = tokenFromRow(tokens.Row(i))
				return nil
			}
		}
		return nil
	})
	return token, err
}

func (r *AuthRepository) RevokeRefreshToken(ctx context.Context, id string) error {
	return r.wb.Update(func(tx *Tx) error {
		tokens, err := tx.Table(RefreshTokensTable)
		if err != nil {
			return err
		}
		i, ok := tokens.Lookup(id)
		if !ok {
			return nil
		}
		return tokens.SetCell(i, tokenColRevoked, "true")
	})
}

func tokenFromRow(row []string) *domain.RefreshToken {
	id, _ := uuid.Parse(row[tokenColID])
	userID, _ := uuid.Parse(row[tokenColUserID])
	revoked, _ := strconv.ParseBool(row[tokenColRevoked])
	return &domain.RefreshToken{
		ID:        id,
		UserID:    userID,
		TokenHash: row[tokenColHash],
		ExpiresAt: parseTime(row[tokenColExpiresAt]),
		Revoked:   revoked,
		CreatedAt: parseTime(row[tokenColCreatedAt]),
	}
}
