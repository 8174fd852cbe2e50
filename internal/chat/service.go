package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/bytebuddy/companion/internal/genai"
	"github.com/bytebuddy/companion/internal/profile"
	"gorm.io/gorm"
)

var (
	ErrUnknownConversation = errors.New("chat: unknown conversation")
	ErrEmptyMessage        = errors.New("chat: empty message")
	// ErrSendInFlight rejects a second concurrent send for the same
	// conversation; the send lock lives in the service, not in the caller.
	ErrSendInFlight = errors.New("chat: send already in flight for this conversation")
)

// ErrorReplyText is appended as an assistant message when generation fails,
// so the conversation never ends on an unanswered user turn.
const ErrorReplyText = "Sorry, I encountered an error. Please try again."

// ProfileSource supplies the health profile folded into chat steering.
type ProfileSource interface {
	Get(ctx context.Context, userID uint64) (*profile.Profile, error)
}

// TitleJobPublisher hands a title job off to the queue. Optional: without one
// the service relabels inline on a background goroutine.
type TitleJobPublisher interface {
	PublishTitleJob(ctx context.Context, jobID string) error
}

type Service struct {
	repo              *Repo
	provider          genai.Provider
	profiles          ProfileSource
	publisher         TitleJobPublisher
	contextWindowSize int

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewService(repo *Repo, provider genai.Provider, profiles ProfileSource, publisher TitleJobPublisher, contextWindowSize int) *Service {
	if contextWindowSize <= 0 || contextWindowSize > 100 {
		contextWindowSize = 20
	}
	return &Service{
		repo:              repo,
		provider:          provider,
		profiles:          profiles,
		publisher:         publisher,
		contextWindowSize: contextWindowSize,
		inflight:          make(map[string]struct{}),
	}
}

func (s *Service) tryAcquireSend(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[conversationID]; busy {
		return false
	}
	s.inflight[conversationID] = struct{}{}
	return true
}

func (s *Service) releaseSend(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, conversationID)
}

// CreateConversation allocates an empty conversation titled "New Chat".
func (s *Service) CreateConversation(ctx context.Context, userID uint64) (*Conversation, error) {
	id, err := NewConversationID()
	if err != nil {
		return nil, err
	}
	conv := &Conversation{
		ID:     id,
		UserID: userID,
		Title:  genai.FallbackTitle,
	}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// ownedConversation resolves the conversation within the account's namespace.
func (s *Service) ownedConversation(ctx context.Context, userID uint64, conversationID string) (*Conversation, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownConversation
		}
		return nil, err
	}
	if conv.UserID != userID {
		return nil, ErrUnknownConversation
	}
	return conv, nil
}

func (s *Service) ListConversations(ctx context.Context, userID uint64) ([]Conversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

// Rename replaces the title; unknown ids are a silent no-op.
func (s *Service) Rename(ctx context.Context, userID uint64, conversationID, title string) error {
	if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
		if errors.Is(err, ErrUnknownConversation) {
			return nil
		}
		return err
	}
	return s.repo.RenameConversation(ctx, conversationID, title)
}

// Remove deletes the conversation and its messages together.
func (s *Service) Remove(ctx context.Context, userID uint64, conversationID string) error {
	if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
		return err
	}
	return s.repo.DeleteConversation(ctx, conversationID)
}

// AppendMessage assigns id and timestamp and appends in insertion order. The
// conversation must exist in the account's namespace; orchestration always
// creates it first, but the store defends the invariant independently.
func (s *Service) AppendMessage(ctx context.Context, userID uint64, conversationID, role, content string, citations []genai.Citation) (*Message, error) {
	if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	msg := &Message{
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
		Content:        content,
		Citations:      citations,
	}
	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Service) ListMessages(ctx context.Context, userID uint64, conversationID string) ([]Message, error) {
	if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, conversationID)
}

type SendResult struct {
	Conversation     *Conversation `json:"conversation"`
	UserMessage      *Message      `json:"user_message"`
	AssistantMessage *Message      `json:"assistant_message"`
	// GenerationFailed marks the assistant message as the error fallback.
	GenerationFailed bool `json:"generation_failed,omitempty"`
}

// SendMessage is the chat orchestration: append the user turn, generate a
// reply with profile steering, append the assistant turn. With an empty
// conversation id a fresh conversation is created first. The first message of
// a conversation queues an async title relabel. Generation failure is not an
// error here: the fallback assistant message is appended and the store stays
// consistent.
func (s *Service) SendMessage(ctx context.Context, userID uint64, conversationID, content string) (*SendResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}

	var conv *Conversation
	if conversationID == "" {
		created, err := s.CreateConversation(ctx, userID)
		if err != nil {
			return nil, err
		}
		conv = created
		conversationID = conv.ID
	} else {
		existing, err := s.ownedConversation(ctx, userID, conversationID)
		if err != nil {
			return nil, err
		}
		conv = existing
	}

	if !s.tryAcquireSend(conversationID) {
		return nil, ErrSendInFlight
	}
	defer s.releaseSend(conversationID)

	prior, err := s.repo.CountMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	firstMessage := prior == 0

	userMsg := &Message{
		ConversationID: conversationID,
		UserID:         userID,
		Role:           RoleUser,
		Content:        content,
	}
	if err := s.repo.InsertMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	history, err := s.historyWindow(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	var prof *profile.Profile
	if s.profiles != nil {
		if p, err := s.profiles.Get(ctx, userID); err == nil {
			prof = p
		} else {
			log.Printf("chat: profile load failed user=%d err=%v", userID, err)
		}
	}

	result := &SendResult{Conversation: conv, UserMessage: userMsg}

	reply, genErr := s.provider.ChatReply(ctx, history, prof)
	if genErr != nil {
		log.Printf("chat: generation failed conversation=%s err=%v", conversationID, genErr)
		fallback := &Message{
			ConversationID: conversationID,
			UserID:         userID,
			Role:           RoleAssistant,
			Content:        ErrorReplyText,
		}
		if err := s.repo.InsertMessage(ctx, fallback); err != nil {
			return nil, err
		}
		result.AssistantMessage = fallback
		result.GenerationFailed = true
		return result, nil
	}

	assistantMsg := &Message{
		ConversationID: conversationID,
		UserID:         userID,
		Role:           RoleAssistant,
		Content:        reply.Text,
		Citations:      reply.Citations,
	}
	if err := s.repo.InsertMessage(ctx, assistantMsg); err != nil {
		return nil, err
	}
	result.AssistantMessage = assistantMsg

	if firstMessage {
		s.enqueueTitleJob(ctx, userID, conversationID, content)
	}
	return result, nil
}

func (s *Service) historyWindow(ctx context.Context, conversationID string) ([]genai.Message, error) {
	recentDesc, err := s.repo.ListRecentMessagesDesc(ctx, conversationID, s.contextWindowSize)
	if err != nil {
		return nil, err
	}
	// reverse to ASC (oldest -> newest)
	history := make([]genai.Message, 0, len(recentDesc))
	for i := len(recentDesc) - 1; i >= 0; i-- {
		m := recentDesc[i]
		history = append(history, genai.Message{Role: m.Role, Content: m.Content})
	}
	return history, nil
}

func (s *Service) enqueueTitleJob(ctx context.Context, userID uint64, conversationID, seed string) {
	jobID, err := NewJobID()
	if err != nil {
		log.Printf("chat: title job id: %v", err)
		return
	}
	job := &TitleJob{
		ID:             jobID,
		UserID:         userID,
		ConversationID: conversationID,
		Seed:           seed,
		Status:         JobQueued,
	}
	if err := s.repo.CreateTitleJob(ctx, job); err != nil {
		log.Printf("chat: title job create: %v", err)
		return
	}

	if s.publisher != nil {
		err := s.publisher.PublishTitleJob(ctx, jobID)
		if err == nil {
			return
		}
		log.Printf("chat: title job publish failed, running inline job=%s err=%v", jobID, err)
	}

	// inline fallback: detach from the request context so navigation away
	// cannot abandon the relabel mid-write
	go func() {
		if err := s.CompleteTitleJob(context.Background(), jobID); err != nil {
			log.Printf("chat: inline title job failed job=%s err=%v", jobID, err)
		}
	}()
}

// CompleteTitleJob synthesizes and applies a conversation title. Title
// synthesis never fails outward: any provider error degrades to the
// "New Chat" fallback and the job still succeeds.
func (s *Service) CompleteTitleJob(ctx context.Context, jobID string) error {
	_ = s.repo.UpdateTitleJobRunning(ctx, jobID)

	job, err := s.repo.GetTitleJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	title := genai.TitleOrFallback(ctx, s.provider, job.Seed)

	if err := s.repo.RenameConversation(ctx, job.ConversationID, title); err != nil {
		_ = s.repo.MarkTitleJobFailed(ctx, jobID, err.Error())
		return err
	}
	return s.repo.MarkTitleJobSucceeded(ctx, jobID)
}
