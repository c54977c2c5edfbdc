package models

// MessageSession is the single conversation thread between two users.
// PairKey is the canonical sorted pair and doubles as the table partition
// key, so at most one session can ever exist per pair regardless of which
// side created it.
type MessageSession struct {
	SessionID     string `dynamodbav:"sessionId" json:"sessionId"`
	PairKey       string `dynamodbav:"pairKey" json:"-"`
	UserID        string `dynamodbav:"userId" json:"userId"`
	CounterpartID string `dynamodbav:"counterpartId" json:"counterpartId"`
	CreatedAt     string `dynamodbav:"createdAt" json:"createdAt"`
	LastMessageAt string `dynamodbav:"lastMessageAt" json:"lastMessageAt"`
}

// Message is one chat message. Identity and text are immutable once stored;
// IsUnread is session metadata and the only field that changes afterwards.
type Message struct {
	SessionID string `dynamodbav:"sessionId" json:"sessionId"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
	MessageID string `dynamodbav:"messageId" json:"messageId"`
	SenderID  string `dynamodbav:"senderId" json:"senderId"`
	Text      string `dynamodbav:"text" json:"text"`
	IsUnread  bool   `dynamodbav:"isUnread" json:"isUnread"`
}

// SessionsTable is the DynamoDB table name for message sessions
const SessionsTable = "Sessions"

// SessionIDIndex is the GSI used to look sessions up by their id
const SessionIDIndex = "sessionId-index"

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"

// TimeLayout keeps a fixed-width fractional second so createdAt strings sort
// lexicographically in chronological order. RFC3339Nano trims trailing
// zeros and would not.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"
