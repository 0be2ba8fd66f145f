package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWishID(t *testing.T) {
	assert.NoError(t, ValidateWishID("3f1c7e9a-0d2b-4c55-9b1e-77aa4c2d9f10"))
	assert.NoError(t, ValidateWishID(strings.Repeat("x", MaxWishIDLength)))

	for _, id := range []string{"", "a b", "tab\there", strings.Repeat("x", MaxWishIDLength+1)} {
		assert.ErrorIs(t, ValidateWishID(id), ErrValidation, id)
	}
}

func TestNormalizeWishText(t *testing.T) {
	title, desc, err := NormalizeWishText("  Título ", "\n")
	require.NoError(t, err)
	assert.Equal(t, "Título", title)
	assert.Empty(t, desc)

	// limits count characters, not bytes
	_, _, err = NormalizeWishText(strings.Repeat("é", MaxTitleLength), "")
	assert.NoError(t, err)

	_, _, err = NormalizeWishText(" \t ", "desc")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCanModify(t *testing.T) {
	wish := &Wish{ID: "w1", Creator: "alice@example.com"}

	assert.True(t, Viewer{ID: "alice@example.com"}.CanModify(wish))
	assert.False(t, Viewer{ID: "bob@example.com"}.CanModify(wish))
	assert.True(t, Viewer{ID: "root@example.com", IsAdmin: true}.CanModify(wish))
	assert.False(t, Viewer{}.CanModify(&Wish{ID: "w2"}))
	assert.False(t, Viewer{IsAdmin: true}.CanModify(nil))
}
