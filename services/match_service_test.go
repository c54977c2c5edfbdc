package services

import (
	"context"
	"testing"

	"reconnect_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func level(n int) *int {
	return &n
}

func TestIsMatchSymmetry(t *testing.T) {
	for a := 1; a <= 7; a++ {
		for b := 1; b <= 7; b++ {
			assert.Equal(t, IsMatch(level(a), level(b)), IsMatch(level(b), level(a)),
				"isMatch(%d,%d) must equal isMatch(%d,%d)", a, b, b, a)
		}
	}
}

func TestIsMatchThresholds(t *testing.T) {
	tests := []struct {
		name string
		a, b *int
		want bool
	}{
		{"both at floor, sum below combined floor", level(4), level(4), false},
		{"sum exactly at combined floor", level(5), level(5), true},
		{"floor plus high side reaches combined floor", level(4), level(6), true},
		{"sum one short of combined floor", level(4), level(5), false},
		{"one side below per-user floor", level(3), level(7), false},
		{"missing one side", nil, level(7), false},
		{"missing both sides", nil, nil, false},
		{"maximum mutual interest", level(7), level(7), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMatch(tt.a, tt.b))
		})
	}
}

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name string
		a, b *int
		want int
	}{
		{"maximum", level(7), level(7), 100},
		{"minimum present pair", level(1), level(1), 2},
		{"missing one side", nil, level(5), 0},
		{"missing both sides", nil, nil, 0},
		{"below match threshold still scores", level(4), level(4), 33},
		{"mid range", level(5), level(6), 61},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchScore(tt.a, tt.b))
		})
	}
}

func TestMergeRatingsBothDirections(t *testing.T) {
	outgoing := []models.InterestRating{
		{RaterID: "alice", RatedUserID: "bob", InterestLevel: 6},
	}
	incoming := []models.InterestRating{
		{RaterID: "bob", RatedUserID: "alice", InterestLevel: 5},
	}

	views := MergeRatings(outgoing, incoming)

	require.Contains(t, views, "bob")
	view := views["bob"]
	assert.Equal(t, "bob", view.CounterpartID)
	require.NotNil(t, view.InterestLevel)
	require.NotNil(t, view.TheirInterestLevel)
	assert.Equal(t, 6, *view.InterestLevel)
	assert.Equal(t, 5, *view.TheirInterestLevel)
}

func TestMergeRatingsOneSided(t *testing.T) {
	outgoing := []models.InterestRating{
		{RaterID: "alice", RatedUserID: "carol", InterestLevel: 7},
	}

	views := MergeRatings(outgoing, nil)

	require.Contains(t, views, "carol")
	assert.Equal(t, 7, *views["carol"].InterestLevel)
	assert.Nil(t, views["carol"].TheirInterestLevel)
}

func TestMergeRatingsDuplicateRowsLastWins(t *testing.T) {
	outgoing := []models.InterestRating{
		{RaterID: "alice", RatedUserID: "bob", InterestLevel: 2},
		{RaterID: "alice", RatedUserID: "bob", InterestLevel: 6},
	}
	incoming := []models.InterestRating{
		{RaterID: "bob", RatedUserID: "alice", InterestLevel: 3},
		{RaterID: "bob", RatedUserID: "alice", InterestLevel: 5},
	}

	views := MergeRatings(outgoing, incoming)

	assert.Equal(t, 6, *views["bob"].InterestLevel)
	assert.Equal(t, 5, *views["bob"].TheirInterestLevel)
}

func TestDeriveMatchesExcludesSelf(t *testing.T) {
	views := map[string]models.UserInterestView{
		"alice": {CounterpartID: "alice", InterestLevel: level(7), TheirInterestLevel: level(7)},
		"bob":   {CounterpartID: "bob", InterestLevel: level(6), TheirInterestLevel: level(5)},
		"carol": {CounterpartID: "carol", InterestLevel: level(4), TheirInterestLevel: level(4)},
	}

	matched := DeriveMatches("alice", views)

	assert.NotContains(t, matched, "alice")
	assert.Contains(t, matched, "bob")
	assert.NotContains(t, matched, "carol")
}

func TestRateUserValidation(t *testing.T) {
	service := &MatchService{Ratings: NewMemoryRatingStore()}

	_, err := service.RateUser(context.Background(), "alice", "bob", 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.RateUser(context.Background(), "alice", "bob", 8)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.RateUser(context.Background(), "alice", "alice", 5)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.RateUser(context.Background(), "", "bob", 5)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetMatchesForUserSortsByScore(t *testing.T) {
	ctx := context.Background()
	service := &MatchService{Ratings: NewMemoryRatingStore()}

	pairs := []struct {
		counterpart  string
		mine, theirs int
	}{
		{"bob", 5, 5},   // score 51
		{"carol", 7, 7}, // score 100
		{"dave", 4, 6},  // score 49
	}
	for _, p := range pairs {
		_, err := service.RateUser(ctx, "alice", p.counterpart, p.mine)
		require.NoError(t, err)
		_, err = service.RateUser(ctx, p.counterpart, "alice", p.theirs)
		require.NoError(t, err)
	}
	// One-sided interest never surfaces as a match
	_, err := service.RateUser(ctx, "alice", "eve", 7)
	require.NoError(t, err)

	matches, err := service.GetMatchesForUser(ctx, "alice")
	require.NoError(t, err)

	require.Len(t, matches, 3)
	assert.Equal(t, "carol", matches[0].CounterpartID)
	assert.Equal(t, 100, matches[0].Score)
	assert.Equal(t, "bob", matches[1].CounterpartID)
	assert.Equal(t, "dave", matches[2].CounterpartID)
	assert.Equal(t, 49, matches[2].Score)
}

func TestOneSidedEnthusiasmIsNotAMatch(t *testing.T) {
	ctx := context.Background()
	service := &MatchService{Ratings: NewMemoryRatingStore()}

	// Alice rates Bob highly; Bob has not rated Alice back
	_, err := service.RateUser(ctx, "alice", "bob", 6)
	require.NoError(t, err)

	views, err := service.GetInterestViews(ctx, "alice")
	require.NoError(t, err)
	view := views["bob"]

	assert.False(t, IsMatch(view.InterestLevel, view.TheirInterestLevel))
	assert.Equal(t, 0, MatchScore(view.InterestLevel, view.TheirInterestLevel))

	matches, err := service.GetMatchesForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestReratingOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRatingStore()
	service := &MatchService{Ratings: store}

	_, err := service.RateUser(ctx, "alice", "bob", 2)
	require.NoError(t, err)
	_, err = service.RateUser(ctx, "alice", "bob", 6)
	require.NoError(t, err)

	ratings, err := store.QueryByRater(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, ratings, 1, "re-rating must overwrite, not append")
	assert.Equal(t, 6, ratings[0].InterestLevel)
}
