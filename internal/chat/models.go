package chat

import (
	"time"

	"github.com/bytebuddy/companion/internal/genai"
)

type Conversation struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"` // ULID
	UserID    uint64    `gorm:"index;not null" json:"-"`
	Title     string    `gorm:"type:varchar(128);not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (Conversation) TableName() string { return "conversations" }

// Message rows are append-only: no edit or per-message delete path exists,
// only the whole-conversation cascade.
type Message struct {
	ID             uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID string           `gorm:"size:26;index;not null" json:"conversation_id"`
	UserID         uint64           `gorm:"index;not null" json:"-"`
	Role           string           `gorm:"type:varchar(16);not null" json:"role"`
	Content        string           `gorm:"type:text;not null" json:"content"`
	Citations      []genai.Citation `gorm:"serializer:json" json:"citations,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (Message) TableName() string { return "chat_messages" }

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// TitleJob records an async conversation-title relabel, queued after the
// first message of a conversation.
type TitleJob struct {
	ID string `gorm:"primaryKey;size:26"` // ULID

	UserID         uint64 `gorm:"index;not null"`
	ConversationID string `gorm:"size:26;index;not null"`

	// Seed is the first user message the title is synthesized from.
	Seed string `gorm:"type:text;not null"`

	Status JobStatus `gorm:"type:varchar(16);index;not null"`
	Error  *string   `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TitleJob) TableName() string { return "title_jobs" }
