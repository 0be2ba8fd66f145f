package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	MaxWishIDLength            = 64
	MaxTitleLength             = 200
	MaxDescriptionLength       = 2000
	InitialVotes         int64 = 1
)

type Wish struct {
	ID          string    `json:"id"`
	Votes       int64     `json:"votes"`
	Title       string    `json:"title"`
	Description string    `json:"desc"`
	Creator     string    `json:"creator,omitempty"`
	IsOwner     bool      `json:"is_owner"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidateWishID checks a caller-generated identifier. Ids are opaque, but they
// travel in URLs and sheet cells, so whitespace and oversized values are refused.
func ValidateWishID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if len(id) > MaxWishIDLength {
		return fmt.Errorf("%w: id must be at most %d characters", ErrValidation, MaxWishIDLength)
	}
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: id must not contain whitespace", ErrValidation)
	}
	return nil
}

// NormalizeWishText trims title and description and enforces their limits.
func NormalizeWishText(title, description string) (string, string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" {
		return "", "", fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len([]rune(title)) > MaxTitleLength {
		return "", "", fmt.Errorf("%w: title must be at most %d characters", ErrValidation, MaxTitleLength)
	}
	if len([]rune(description)) > MaxDescriptionLength {
		return "", "", fmt.Errorf("%w: description must be at most %d characters", ErrValidation, MaxDescriptionLength)
	}
	return title, description, nil
}
