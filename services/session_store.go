package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"reconnect_server/models"
	"reconnect_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// SessionStore is the record-store boundary for message sessions and their
// messages. FindByPair and FindByID report an absent session as (nil, nil);
// Create reports a lost creation race as ErrConflict.
type SessionStore interface {
	FindByPair(ctx context.Context, idA, idB string) (*models.MessageSession, error)
	FindByID(ctx context.Context, sessionID string) (*models.MessageSession, error)
	Create(ctx context.Context, userID, counterpartID string) (models.MessageSession, error)
	AppendMessage(ctx context.Context, session models.MessageSession, senderID, text string) (models.Message, error)
	ListMessages(ctx context.Context, sessionID string, limit int) ([]models.Message, error)
	MarkMessagesRead(ctx context.Context, sessionID, readerID string) error
}

// monotonicClock hands out strictly increasing timestamps, so two rapid
// consecutive sends can never collide on the createdAt sort key and show up
// reordered.
type monotonicClock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *monotonicClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UTC()
	if !now.After(c.last) {
		now = c.last.Add(time.Microsecond)
	}
	c.last = now
	return now
}

// DynamoSessionStore keeps sessions in the Sessions table keyed by the
// canonical pair key, and messages in the Messages table keyed
// (sessionId, createdAt).
type DynamoSessionStore struct {
	Dynamo *DynamoService
	clock  monotonicClock
}

func (s *DynamoSessionStore) FindByPair(ctx context.Context, idA, idB string) (*models.MessageSession, error) {
	key := map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: utils.PairKey(idA, idB)},
	}

	item, err := s.Dynamo.GetItem(ctx, models.SessionsTable, key)
	if err != nil {
		return nil, storeErr("sessions.findByPair", err)
	}
	if item == nil {
		return nil, nil
	}

	var session models.MessageSession
	if err := attributevalue.UnmarshalMap(item, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &session, nil
}

func (s *DynamoSessionStore) FindByID(ctx context.Context, sessionID string) (*models.MessageSession, error) {
	keyCondition := "sessionId = :sessionId"
	expressionValues := map[string]types.AttributeValue{
		":sessionId": &types.AttributeValueMemberS{Value: sessionID},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.SessionsTable, models.SessionIDIndex, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return nil, storeErr("sessions.findById", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var session models.MessageSession
	if err := attributevalue.UnmarshalMap(items[0], &session); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &session, nil
}

// Create inserts a fresh session for the pair. The pair key is the table
// partition key, so the conditional put is a genuine uniqueness constraint:
// when both participants open the conversation at the same moment, exactly
// one put succeeds and the other side sees ErrConflict and re-reads.
func (s *DynamoSessionStore) Create(ctx context.Context, userID, counterpartID string) (models.MessageSession, error) {
	now := s.clock.Next().Format(models.TimeLayout)
	session := models.MessageSession{
		SessionID:     uuid.New().String(),
		PairKey:       utils.PairKey(userID, counterpartID),
		UserID:        userID,
		CounterpartID: counterpartID,
		CreatedAt:     now,
		LastMessageAt: now,
	}

	err := s.Dynamo.PutItemWithCondition(ctx, models.SessionsTable, session, "attribute_not_exists(pairKey)")
	if errors.Is(err, ErrConflict) {
		return models.MessageSession{}, ErrConflict
	}
	if err != nil {
		return models.MessageSession{}, storeErr("sessions.create", err)
	}
	return session, nil
}

func (s *DynamoSessionStore) AppendMessage(ctx context.Context, session models.MessageSession, senderID, text string) (models.Message, error) {
	createdAt := s.clock.Next().Format(models.TimeLayout)
	message := models.Message{
		SessionID: session.SessionID,
		CreatedAt: createdAt,
		MessageID: uuid.New().String(),
		SenderID:  senderID,
		Text:      text,
		IsUnread:  true,
	}

	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return models.Message{}, storeErr("messages.append", err)
	}

	key := map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: session.PairKey},
	}
	updateExpression := "SET lastMessageAt = :at"
	expressionValues := map[string]types.AttributeValue{
		":at": &types.AttributeValueMemberS{Value: createdAt},
	}
	if _, err := s.Dynamo.UpdateItem(ctx, models.SessionsTable, updateExpression, key, expressionValues, nil); err != nil {
		return models.Message{}, storeErr("sessions.touch", err)
	}

	return message, nil
}

func (s *DynamoSessionStore) ListMessages(ctx context.Context, sessionID string, limit int) ([]models.Message, error) {
	keyCondition := "sessionId = :sessionId"
	expressionValues := map[string]types.AttributeValue{
		":sessionId": &types.AttributeValueMemberS{Value: sessionID},
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, int32(limit), true)
	if err != nil {
		return nil, storeErr("messages.list", err)
	}

	messages := make([]models.Message, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	// The sort key already orders these; keep a stable sort as a guard for
	// rows written before the fixed-width layout was introduced.
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt < messages[j].CreatedAt
	})
	return messages, nil
}

// MarkMessagesRead flips the unread flag on every message the reader
// received in the session. Messages the reader sent are left alone.
func (s *DynamoSessionStore) MarkMessagesRead(ctx context.Context, sessionID, readerID string) error {
	messages, err := s.ListMessages(ctx, sessionID, 500)
	if err != nil {
		return err
	}

	for _, message := range messages {
		if message.SenderID == readerID || !message.IsUnread {
			continue
		}

		key := map[string]types.AttributeValue{
			"sessionId": &types.AttributeValueMemberS{Value: sessionID},
			"createdAt": &types.AttributeValueMemberS{Value: message.CreatedAt},
		}
		updateExpression := "SET isUnread = :false"
		expressionValues := map[string]types.AttributeValue{
			":false": &types.AttributeValueMemberBOOL{Value: false},
		}
		if _, err := s.Dynamo.UpdateItem(ctx, models.MessagesTable, updateExpression, key, expressionValues, nil); err != nil {
			return storeErr("messages.markRead", err)
		}
	}
	return nil
}
