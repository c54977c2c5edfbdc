package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"reconnect_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// RatingStore is the record-store boundary for interest ratings.
// MatchService depends on this interface, never on DynamoDB directly, so the
// matching logic runs against the in-memory store in tests.
type RatingStore interface {
	QueryByRater(ctx context.Context, userID string) ([]models.InterestRating, error)
	QueryByRatee(ctx context.Context, userID string) ([]models.InterestRating, error)
	Upsert(ctx context.Context, raterID, ratedUserID string, interestLevel int) (models.InterestRating, error)
}

// DynamoRatingStore keeps ratings in the Ratings table, keyed
// (raterId, ratedUserId), with a GSI for the incoming direction.
type DynamoRatingStore struct {
	Dynamo *DynamoService
}

// QueryByRater fetches all ratings the user has made
func (s *DynamoRatingStore) QueryByRater(ctx context.Context, userID string) ([]models.InterestRating, error) {
	keyCondition := "raterId = :rater"
	expressionValues := map[string]types.AttributeValue{
		":rater": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.RatingsTable, keyCondition, expressionValues, nil, 500)
	if err != nil {
		return nil, storeErr("ratings.queryByRater", err)
	}

	var ratings []models.InterestRating
	if err := attributevalue.UnmarshalListOfMaps(items, &ratings); err != nil {
		return nil, fmt.Errorf("failed to parse ratings: %w", err)
	}
	return ratings, nil
}

// QueryByRatee fetches all ratings made about the user, via the GSI
func (s *DynamoRatingStore) QueryByRatee(ctx context.Context, userID string) ([]models.InterestRating, error) {
	keyCondition := "ratedUserId = :ratee"
	expressionValues := map[string]types.AttributeValue{
		":ratee": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.RatingsTable, models.RatedUserIndex, keyCondition, expressionValues, nil, 500)
	if err != nil {
		return nil, storeErr("ratings.queryByRatee", err)
	}

	var ratings []models.InterestRating
	if err := attributevalue.UnmarshalListOfMaps(items, &ratings); err != nil {
		return nil, fmt.Errorf("failed to parse ratings: %w", err)
	}
	return ratings, nil
}

// Upsert writes the rating as a single atomic UpdateItem. The pair is the
// table key, so there is no read-modify-write gap between "does a rating
// exist" and the insert; createdAt survives re-ratings via if_not_exists.
func (s *DynamoRatingStore) Upsert(ctx context.Context, raterID, ratedUserID string, interestLevel int) (models.InterestRating, error) {
	now := time.Now().UTC().Format(models.TimeLayout)

	key := map[string]types.AttributeValue{
		"raterId":     &types.AttributeValueMemberS{Value: raterID},
		"ratedUserId": &types.AttributeValueMemberS{Value: ratedUserID},
	}
	updateExpression := "SET interestLevel = :level, updatedAt = :now, createdAt = if_not_exists(createdAt, :now)"
	expressionValues := map[string]types.AttributeValue{
		":level": &types.AttributeValueMemberN{Value: strconv.Itoa(interestLevel)},
		":now":   &types.AttributeValueMemberS{Value: now},
	}

	attrs, err := s.Dynamo.UpdateItem(ctx, models.RatingsTable, updateExpression, key, expressionValues, nil)
	if err != nil {
		return models.InterestRating{}, storeErr("ratings.upsert", err)
	}

	var rating models.InterestRating
	if err := attributevalue.UnmarshalMap(attrs, &rating); err != nil {
		return models.InterestRating{}, fmt.Errorf("failed to parse updated rating: %w", err)
	}
	return rating, nil
}
