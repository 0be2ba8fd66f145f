package domain

import "time"

type VoteEntry struct {
	Voter   string    `json:"voter"`
	WishID  string    `json:"wish_id"`
	VotedAt time.Time `json:"voted_at"`
}
