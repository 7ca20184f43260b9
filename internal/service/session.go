package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bogdan-labs/bogdanai/internal/config"
	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/bogdan-labs/bogdanai/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const welcomeWithKey = `👋 **Добро пожаловать в AI чат!**

Я готов помочь вам с любыми вопросами. Вы можете:

• Задавать вопросы на любые темы
• Прикреплять файлы и изображения
• Переводить тексты
• Генерировать контент

Просто напишите ваш вопрос! 💬`

const welcomeWithoutKey = `👋 **Добро пожаловать!**

⚠️ **Для работы чата нужно настроить API ключ:**

1. Получите бесплатный ключ на openrouter.ai/keys
2. Задайте его в переменной окружения OPENROUTER_API_KEY
3. Перезапустите бота

✅ После этого чат заработает!`

const noSpeaking = -1

// Session is the live per-chat state: the message sequence plus transient
// input-side state (pending attachments, translation cache, speech pointer,
// the session-scoped command interpreter and token accounting).
type Session struct {
	chatID   int64
	messages []domain.Message

	attachments []domain.Attachment

	// Translation cache keyed by message index. generation guards against
	// a stale in-flight translation landing after a language change.
	translations map[int]string
	generation   int

	speakingIndex int

	interp *Interpreter

	totalTokens int
	totalCost   decimal.Decimal

	loading bool
}

// SessionService owns the live sessions and their persistence. All access
// goes through the service mutex; handler goroutines never touch a Session
// directly.
type SessionService struct {
	store         storage.Store
	now           Clock
	hasCredential bool

	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewSessionService(store storage.Store, now Clock, hasCredential bool) *SessionService {
	if now == nil {
		now = time.Now
	}
	return &SessionService{
		store:         store,
		now:           now,
		hasCredential: hasCredential,
		sessions:      make(map[int64]*Session),
	}
}

// session returns the live session for the chat, hydrating it from the
// store on first contact. Malformed persisted history is logged and
// discarded, leaving the session empty; a missing history seeds exactly one
// assistant welcome message whose text depends on credential presence.
func (s *SessionService) session(ctx context.Context, chatID int64) (*Session, error) {
	if sess, ok := s.sessions[chatID]; ok {
		return sess, nil
	}

	sess := &Session{
		chatID:        chatID,
		translations:  make(map[int]string),
		speakingIndex: noSpeaking,
		interp:        NewInterpreter(s.now),
	}

	raw, ok, err := s.store.Get(ctx, storage.HistoryKey(chatID))
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	switch {
	case !ok:
		welcome := welcomeWithKey
		if !s.hasCredential {
			welcome = welcomeWithoutKey
		}
		sess.messages = []domain.Message{{
			Role:      domain.RoleAssistant,
			Content:   welcome,
			Timestamp: s.now().UnixMilli(),
		}}
		if err := s.flush(ctx, sess); err != nil {
			return nil, err
		}
	default:
		var msgs []domain.Message
		if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
			slog.Error("malformed chat history, starting empty", "chat_id", chatID, "error", err)
		} else {
			sess.messages = msgs
		}
	}

	s.sessions[chatID] = sess
	return sess, nil
}

// flush persists the entire message sequence, truncating the oldest
// messages beyond the history cap first. Persisted history would otherwise
// grow until the store rejects it; the cap is the documented policy.
func (s *SessionService) flush(ctx context.Context, sess *Session) error {
	if len(sess.messages) > config.MaxHistoryMessages {
		dropped := len(sess.messages) - config.MaxHistoryMessages
		sess.messages = append(sess.messages[:0:0], sess.messages[dropped:]...)
		slog.Info("history truncated", "chat_id", sess.chatID, "dropped", dropped)
	}
	if len(sess.messages) == 0 {
		return nil
	}
	raw, err := json.Marshal(sess.messages)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := s.store.Set(ctx, storage.HistoryKey(sess.chatID), string(raw)); err != nil {
		return fmt.Errorf("flush history: %w", err)
	}
	return nil
}

// Append adds a message to the end of the sequence and flushes the full
// sequence. A zero timestamp is filled from the clock; timestamps are
// clamped so the sequence stays monotonically non-decreasing.
func (s *SessionService) Append(ctx context.Context, chatID int64, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return err
	}

	if msg.Timestamp == 0 {
		msg.Timestamp = s.now().UnixMilli()
	}
	if n := len(sess.messages); n > 0 && msg.Timestamp < sess.messages[n-1].Timestamp {
		msg.Timestamp = sess.messages[n-1].Timestamp
	}

	sess.messages = append(sess.messages, msg)
	return s.flush(ctx, sess)
}

// History returns a copy of the message sequence.
func (s *SessionService) History(ctx context.Context, chatID int64) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Message, len(sess.messages))
	copy(out, sess.messages)
	return out, nil
}

// ClearHistory wipes the live sequence, token counters and the persisted
// key. The next contact seeds a fresh welcome.
func (s *SessionService) ClearHistory(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, storage.HistoryKey(chatID)); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	delete(s.sessions, chatID)
	return nil
}

// ReplaceHistory swaps the live sequence for the given messages,
// invalidating cached translations, and persists the result.
func (s *SessionService) ReplaceHistory(ctx context.Context, chatID int64, messages []domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return err
	}
	sess.messages = append(sess.messages[:0:0], messages...)
	sess.translations = map[int]string{}
	sess.generation++
	sess.speakingIndex = noSpeaking
	return s.flush(ctx, sess)
}

// AttachFile adds a pending attachment, enforcing count and size limits.
func (s *SessionService) AttachFile(ctx context.Context, chatID int64, att domain.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return err
	}
	if len(sess.attachments) >= config.MaxAttachments {
		return domain.ErrTooManyFiles
	}
	sess.attachments = append(sess.attachments, att)
	return nil
}

// DetachFile removes the pending attachment at index.
func (s *SessionService) DetachFile(ctx context.Context, chatID int64, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(sess.attachments) {
		return domain.ErrNotFound
	}
	sess.attachments = append(sess.attachments[:index], sess.attachments[index+1:]...)
	return nil
}

// TakeAttachments returns the pending attachments and clears them; called
// when the message carrying them is sent.
func (s *SessionService) TakeAttachments(ctx context.Context, chatID int64) ([]domain.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return nil, err
	}
	atts := sess.attachments
	sess.attachments = nil
	return atts, nil
}

// Attachments returns the pending attachments without clearing them.
func (s *SessionService) Attachments(ctx context.Context, chatID int64) ([]domain.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Attachment, len(sess.attachments))
	copy(out, sess.attachments)
	return out, nil
}

// TranslationGeneration returns the cache generation to pair with an
// in-flight translation request.
func (s *SessionService) TranslationGeneration(ctx context.Context, chatID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return 0, err
	}
	return sess.generation, nil
}

// SetTranslation stores a translated message text. A result from a stale
// generation (language changed while the request was in flight) is dropped.
func (s *SessionService) SetTranslation(ctx context.Context, chatID int64, index int, text string, generation int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return err
	}
	if generation != sess.generation {
		return nil
	}
	sess.translations[index] = text
	return nil
}

// Translation returns the cached translation for a message index.
func (s *SessionService) Translation(ctx context.Context, chatID int64, index int) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return "", false, err
	}
	t, ok := sess.translations[index]
	return t, ok, nil
}

// InvalidateTranslations wipes the whole cache and bumps the generation.
// Called on every display-language change.
func (s *SessionService) InvalidateTranslations(ctx context.Context, chatID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return 0, err
	}
	sess.translations = make(map[int]string)
	sess.generation++
	return sess.generation, nil
}

// SetSpeaking records which message is being voiced, or none for index < 0.
func (s *SessionService) SetSpeaking(ctx context.Context, chatID int64, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return err
	}
	if index < 0 {
		sess.speakingIndex = noSpeaking
	} else {
		sess.speakingIndex = index
	}
	return nil
}

// Speaking returns the currently voiced message index, false when none.
func (s *SessionService) Speaking(ctx context.Context, chatID int64) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return 0, false, err
	}
	if sess.speakingIndex == noSpeaking {
		return 0, false, nil
	}
	return sess.speakingIndex, true, nil
}

// SetLoading flags an in-flight model request for the chat surface.
func (s *SessionService) SetLoading(ctx context.Context, chatID int64, loading bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return err
	}
	sess.loading = loading
	return nil
}

// Loading reports whether a model request is in flight.
func (s *SessionService) Loading(ctx context.Context, chatID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return false, err
	}
	return sess.loading, nil
}

// AddUsage accumulates token usage and cost for the session.
func (s *SessionService) AddUsage(ctx context.Context, chatID int64, tokens int, cost decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return err
	}
	sess.totalTokens += tokens
	sess.totalCost = sess.totalCost.Add(cost)
	return nil
}

// Usage returns the accumulated token count and cost.
func (s *SessionService) Usage(ctx context.Context, chatID int64) (int, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return 0, decimal.Zero, err
	}
	return sess.totalTokens, sess.totalCost, nil
}

// Interpret runs the chat's session-scoped command interpreter.
func (s *SessionService) Interpret(ctx context.Context, chatID int64, text string) (CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, chatID)
	if err != nil {
		return CommandResult{}, err
	}
	return sess.interp.Interpret(text), nil
}

// KnownChats counts chats that have a stored history.
func (s *SessionService) KnownChats(ctx context.Context) (int, error) {
	keys, err := s.store.Keys(ctx, "chat:")
	if err != nil {
		return 0, fmt.Errorf("list chat keys: %w", err)
	}
	count := 0
	for _, k := range keys {
		if strings.HasSuffix(k, ":history") {
			count++
		}
	}
	return count, nil
}

// SessionID returns the chat's stable generated identifier, creating and
// persisting it on first use.
func (s *SessionService) SessionID(ctx context.Context, chatID int64) (string, error) {
	key := storage.SessionIDKey(chatID)
	id, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("load session id: %w", err)
	}
	if ok {
		return id, nil
	}
	id = uuid.NewString()
	if err := s.store.Set(ctx, key, id); err != nil {
		return "", fmt.Errorf("save session id: %w", err)
	}
	return id, nil
}
