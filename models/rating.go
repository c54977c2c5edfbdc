package models

// InterestRating records one user's interest in reconnecting with another,
// on a 1-7 scale. Exactly one row exists per (raterId, ratedUserId) pair;
// re-rating overwrites in place, it never appends.
type InterestRating struct {
	RaterID       string `dynamodbav:"raterId" json:"raterId"`
	RatedUserID   string `dynamodbav:"ratedUserId" json:"ratedUserId"`
	InterestLevel int    `dynamodbav:"interestLevel" json:"interestLevel"`
	CreatedAt     string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt     string `dynamodbav:"updatedAt" json:"updatedAt"`
}

// UserInterestView merges both rating directions for one counterpart, from
// the current user's perspective. Either level may be nil when only one
// direction has been rated so far.
type UserInterestView struct {
	CounterpartID      string `json:"counterpartId"`
	InterestLevel      *int   `json:"interestLevel,omitempty"`
	TheirInterestLevel *int   `json:"theirInterestLevel,omitempty"`
}

// MatchSummary is one entry in a user's mutual-match list.
type MatchSummary struct {
	CounterpartID string `json:"counterpartId"`
	Score         int    `json:"score"`
}

// RatingsTable is the DynamoDB table name for interest ratings
const RatingsTable = "Ratings"

// RatedUserIndex is the GSI used to query ratings by the rated side
const RatedUserIndex = "ratedUserId-index"

// Interest levels run 1 (not interested) to 7 (very interested).
const (
	MinInterestLevel = 1
	MaxInterestLevel = 7
)

// A mutual match requires both levels >= MinMutualLevel AND a combined sum
// >= MinCombinedLevel. Both floors apply: 4/4 clears the per-user floor but
// not the combined one.
const (
	MinMutualLevel   = 4
	MinCombinedLevel = 10
)
