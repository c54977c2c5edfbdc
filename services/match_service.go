package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"reconnect_server/models"
)

// MatchService computes mutual-interest matches over the rating store.
type MatchService struct {
	Ratings RatingStore
	Cache   *MatchCacheService // optional; nil disables caching
}

// IsMatch reports whether two interest levels form a mutual match: both
// present, both >= MinMutualLevel, and a combined sum >= MinCombinedLevel.
// Both floors apply independently, so 4/4 (sum 8) is not a match while 4/6
// (sum 10) is.
func IsMatch(a, b *int) bool {
	if a == nil || b == nil {
		return false
	}
	if *a < models.MinMutualLevel || *b < models.MinMutualLevel {
		return false
	}
	return *a+*b >= models.MinCombinedLevel
}

// MatchScore normalizes combined interest to 0..100 as round(a*b/49*100).
// It is defined independently of IsMatch: a below-threshold pair still
// scores as long as both ratings exist. Only 7/7 reaches 100.
func MatchScore(a, b *int) int {
	if a == nil || b == nil {
		return 0
	}
	return int(math.Round(float64(*a**b) / 49.0 * 100))
}

// MergeRatings folds both rating directions into per-counterpart views.
// Linear in the combined input size; the inputs need not be sorted or
// deduplicated — if the store ever hands back duplicate rows for a pair,
// the last row seen wins for its field.
func MergeRatings(outgoing, incoming []models.InterestRating) map[string]models.UserInterestView {
	views := make(map[string]models.UserInterestView, len(outgoing)+len(incoming))

	for _, rating := range outgoing {
		view := views[rating.RatedUserID]
		view.CounterpartID = rating.RatedUserID
		level := rating.InterestLevel
		view.InterestLevel = &level
		views[rating.RatedUserID] = view
	}
	for _, rating := range incoming {
		view := views[rating.RaterID]
		view.CounterpartID = rating.RaterID
		level := rating.InterestLevel
		view.TheirInterestLevel = &level
		views[rating.RaterID] = view
	}
	return views
}

// DeriveMatches returns the counterpart ids whose views satisfy IsMatch.
// selfID is never included, even if a self-rating row slipped into the data.
func DeriveMatches(selfID string, views map[string]models.UserInterestView) []string {
	var matched []string
	for counterpartID, view := range views {
		if counterpartID == selfID {
			continue
		}
		if IsMatch(view.InterestLevel, view.TheirInterestLevel) {
			matched = append(matched, counterpartID)
		}
	}
	return matched
}

// RateUser validates and upserts the caller's interest in another user.
// Levels outside 1..7 are rejected, not clamped, so stored data is always in
// range and the pure functions above can assume it.
func (s *MatchService) RateUser(ctx context.Context, raterID, ratedUserID string, interestLevel int) (models.InterestRating, error) {
	if raterID == "" || ratedUserID == "" {
		return models.InterestRating{}, fmt.Errorf("%w: raterId and ratedUserId are required", ErrValidation)
	}
	if raterID == ratedUserID {
		return models.InterestRating{}, fmt.Errorf("%w: cannot rate yourself", ErrValidation)
	}
	if interestLevel < models.MinInterestLevel || interestLevel > models.MaxInterestLevel {
		return models.InterestRating{}, fmt.Errorf("%w: interestLevel must be between %d and %d",
			ErrValidation, models.MinInterestLevel, models.MaxInterestLevel)
	}

	rating, err := s.Ratings.Upsert(ctx, raterID, ratedUserID, interestLevel)
	if err != nil {
		return models.InterestRating{}, err
	}
	log.Printf("✅ Rating stored: %s -> %s (%d)", raterID, ratedUserID, interestLevel)

	if s.Cache != nil {
		// A new rating can change the match list on both sides.
		s.Cache.Invalidate(ctx, raterID)
		s.Cache.Invalidate(ctx, ratedUserID)
	}
	return rating, nil
}

// GetInterestViews returns the user's merged per-counterpart rating views,
// combining ratings they made with ratings made about them.
func (s *MatchService) GetInterestViews(ctx context.Context, userID string) (map[string]models.UserInterestView, error) {
	outgoing, err := s.Ratings.QueryByRater(ctx, userID)
	if err != nil {
		return nil, err
	}
	incoming, err := s.Ratings.QueryByRatee(ctx, userID)
	if err != nil {
		return nil, err
	}
	return MergeRatings(outgoing, incoming), nil
}

// GetMatchesForUser returns the user's mutual matches, highest score first.
func (s *MatchService) GetMatchesForUser(ctx context.Context, userID string) ([]models.MatchSummary, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}

	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, userID); ok {
			return cached, nil
		}
	}

	views, err := s.GetInterestViews(ctx, userID)
	if err != nil {
		return nil, err
	}

	matches := make([]models.MatchSummary, 0)
	for _, counterpartID := range DeriveMatches(userID, views) {
		view := views[counterpartID]
		matches = append(matches, models.MatchSummary{
			CounterpartID: counterpartID,
			Score:         MatchScore(view.InterestLevel, view.TheirInterestLevel),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].CounterpartID < matches[j].CounterpartID
	})

	if s.Cache != nil {
		s.Cache.Set(ctx, userID, matches)
	}
	log.Printf("✅ Found %d matches for %s", len(matches), userID)
	return matches, nil
}
