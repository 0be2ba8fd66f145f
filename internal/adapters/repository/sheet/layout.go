package sheet

import (
	"strconv"
	"time"
)

const (
	WishesTable        = "wishes"
	VoteLogTable       = "vote_log"
	UsersTable         = "users"
	RefreshTokensTable = "refresh_tokens"
)

// Wish rows: vote count, title, description, creator, id, created at.
const (
	wishColVotes = iota
	wishColTitle
	wishColDesc
	wishColCreator
	wishColID
	wishColCreatedAt
)

// Vote log rows: voter, wish id, timestamp.
const (
	logColVoter = iota
	logColWishID
	logColVotedAt
)

const (
	userColID = iota
	userColEmail
	userColName
	userColCreatedAt
)

const (
	tokenColID = iota
	tokenColUserID
	tokenColHash
	tokenColExpiresAt
	tokenColRevoked
	tokenColCreatedAt
)

// Layouts describes every table the wish board keeps.
func Layouts() []Layout {
	return []Layout{
		{Name: WishesTable, Header: []string{"votes", "title", "description", "creator", "id", "created_at"}, KeyCol: wishColID},
		{Name: VoteLogTable, Header: []string{"voter", "wish_id", "voted_at"}, KeyCol: NoKey},
		{Name: UsersTable, Header: []string{"id", "email", "name", "created_at"}, KeyCol: userColID},
		{Name: RefreshTokensTable, Header: []string{"id", "user_id", "token_hash", "expires_at", "revoked", "created_at"}, KeyCol: tokenColID},
	}
}

// OpenBoard opens a workbook with the wish board layouts.
func OpenBoard(dir string) (*Workbook, error) {
	return Open(dir, Layouts()...)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
