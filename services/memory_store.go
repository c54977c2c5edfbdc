package services

import (
	"context"
	"sync"

	"reconnect_server/models"
	"reconnect_server/utils"

	"github.com/google/uuid"
)

// In-memory implementations of RatingStore and SessionStore. They back the
// test suite and the USE_MEMORY_STORE dev mode, so the core logic runs
// without any ambient environment.

type MemoryRatingStore struct {
	mu      sync.RWMutex
	byRater map[string]map[string]models.InterestRating // raterId -> ratedUserId -> rating
	clock   monotonicClock
}

func NewMemoryRatingStore() *MemoryRatingStore {
	return &MemoryRatingStore{
		byRater: make(map[string]map[string]models.InterestRating),
	}
}

func (s *MemoryRatingStore) QueryByRater(ctx context.Context, userID string) ([]models.InterestRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ratings []models.InterestRating
	for _, rating := range s.byRater[userID] {
		ratings = append(ratings, rating)
	}
	return ratings, nil
}

func (s *MemoryRatingStore) QueryByRatee(ctx context.Context, userID string) ([]models.InterestRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ratings []models.InterestRating
	for _, rated := range s.byRater {
		if rating, ok := rated[userID]; ok {
			ratings = append(ratings, rating)
		}
	}
	return ratings, nil
}

// Upsert overwrites any existing rating for the pair, preserving createdAt.
func (s *MemoryRatingStore) Upsert(ctx context.Context, raterID, ratedUserID string, interestLevel int) (models.InterestRating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Next().Format(models.TimeLayout)
	rating := models.InterestRating{
		RaterID:       raterID,
		RatedUserID:   ratedUserID,
		InterestLevel: interestLevel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if existing, ok := s.byRater[raterID][ratedUserID]; ok {
		rating.CreatedAt = existing.CreatedAt
	}
	if s.byRater[raterID] == nil {
		s.byRater[raterID] = make(map[string]models.InterestRating)
	}
	s.byRater[raterID][ratedUserID] = rating
	return rating, nil
}

type MemorySessionStore struct {
	mu       sync.RWMutex
	byPair   map[string]*models.MessageSession // pairKey -> session
	byID     map[string]*models.MessageSession // sessionId -> session
	messages map[string][]models.Message       // sessionId -> messages in append order
	clock    monotonicClock
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		byPair:   make(map[string]*models.MessageSession),
		byID:     make(map[string]*models.MessageSession),
		messages: make(map[string][]models.Message),
	}
}

func (s *MemorySessionStore) FindByPair(ctx context.Context, idA, idB string) (*models.MessageSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.byPair[utils.PairKey(idA, idB)]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (s *MemorySessionStore) FindByID(ctx context.Context, sessionID string) (*models.MessageSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.byID[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

// Create mirrors the DynamoDB conditional put: one session per pair key,
// ErrConflict for the loser of a creation race.
func (s *MemorySessionStore) Create(ctx context.Context, userID, counterpartID string) (models.MessageSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pairKey := utils.PairKey(userID, counterpartID)
	if _, ok := s.byPair[pairKey]; ok {
		return models.MessageSession{}, ErrConflict
	}

	now := s.clock.Next().Format(models.TimeLayout)
	session := &models.MessageSession{
		SessionID:     uuid.NewString(),
		PairKey:       pairKey,
		UserID:        userID,
		CounterpartID: counterpartID,
		CreatedAt:     now,
		LastMessageAt: now,
	}
	s.byPair[pairKey] = session
	s.byID[session.SessionID] = session
	s.messages[session.SessionID] = []models.Message{}
	return *session, nil
}

func (s *MemorySessionStore) AppendMessage(ctx context.Context, session models.MessageSession, senderID, text string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[session.SessionID]
	if !ok {
		return models.Message{}, storeErr("messages.append", ErrNotFound)
	}

	message := models.Message{
		SessionID: session.SessionID,
		CreatedAt: s.clock.Next().Format(models.TimeLayout),
		MessageID: uuid.NewString(),
		SenderID:  senderID,
		Text:      text,
		IsUnread:  true,
	}
	s.messages[session.SessionID] = append(s.messages[session.SessionID], message)
	stored.LastMessageAt = message.CreatedAt
	return message, nil
}

func (s *MemorySessionStore) ListMessages(ctx context.Context, sessionID string, limit int) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.messages[sessionID]
	if limit > 0 && limit < len(stored) {
		stored = stored[:limit]
	}
	messages := make([]models.Message, len(stored))
	copy(messages, stored)
	return messages, nil
}

func (s *MemorySessionStore) MarkMessagesRead(ctx context.Context, sessionID, readerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.messages[sessionID]
	for i := range stored {
		if stored[i].SenderID != readerID {
			stored[i].IsUnread = false
		}
	}
	return nil
}
