package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"FlowShift/internal/domain/models"
	drepo "FlowShift/internal/domain/repository"
	"FlowShift/internal/repository"
	"FlowShift/pkg/logger"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrRequestInFlight = errors.New("a request is already in flight for this session")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

const (
	WelcomeMessage = "I've reviewed your MQL5 code. How can I help you improve the strategy or debug the logic?"
	NoReplyMessage = "I'm sorry, I couldn't process that."
)

type Advisor interface {
	Analyze(ctx context.Context, code string) string
	Converse(ctx context.Context, message, code string) string
}

type SessionOption func(*SessionService)

// WithGuardTTL bounds how long a crashed request can hold a session's guard.
func WithGuardTTL(d time.Duration) SessionOption {
	return func(s *SessionService) {
		if d > 0 {
			s.guardTTL = d
		}
	}
}

func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionService) { s.now = now }
}

// SessionService holds each dashboard view's configuration, series and chat.
// At most one advisor request runs per session.
type SessionService struct {
	store    drepo.SessionStore
	sim      SeriesGenerator
	advisor  Advisor
	code     string
	log      *logger.Logger
	validate *validator.Validate
	guardTTL time.Duration
	now      func() time.Time
}

func NewSessionService(store drepo.SessionStore, sim SeriesGenerator, advisor Advisor, code string, log *logger.Logger, opts ...SessionOption) *SessionService {
	s := &SessionService{
		store:    store,
		sim:      sim,
		advisor:  advisor,
		code:     code,
		log:      log,
		validate: validator.New(),
		guardTTL: 2 * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession starts a session with the default configuration.
func (s *SessionService) CreateSession(ctx context.Context) (*models.Session, error) {
	cfg := models.DefaultEAConfig()
	sess := &models.Session{
		ID:        uuid.NewString(),
		Config:    cfg,
		Series:    s.sim.Generate(cfg.Symbol),
		Messages:  []models.ChatMessage{},
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.log.Terminal(logger.KindInfo, fmt.Sprintf("Session started on %s %s", cfg.Symbol, cfg.Timeframe),
		logger.String("session_id", sess.ID))
	return sess, nil
}

func (s *SessionService) Session(ctx context.Context, id string) (*models.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionMissing) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *SessionService) Config(ctx context.Context, id string) (models.EAConfig, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return models.EAConfig{}, err
	}
	return sess.Config, nil
}

// UpdateConfig replaces the configuration. The series is regenerated only
// when the symbol changes.
func (s *SessionService) UpdateConfig(ctx context.Context, id string, cfg models.EAConfig) (*models.Session, error) {
	cfg.Symbol = strings.TrimSpace(cfg.Symbol)
	if err := s.validate.StructCtx(ctx, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	sess, err := s.Session(ctx, id)
	if err != nil {
		return nil, err
	}

	prev := sess.Config
	sess.Config = cfg
	if cfg.Symbol != prev.Symbol {
		sess.Series = s.sim.Generate(cfg.Symbol)
		s.log.Terminal(logger.KindInfo, fmt.Sprintf("Symbol changed: %s -> %s", prev.Symbol, cfg.Symbol),
			logger.String("session_id", id))
	}
	if cfg.Timeframe != prev.Timeframe {
		s.log.Terminal(logger.KindInfo, fmt.Sprintf("Timeframe set to %s", cfg.Timeframe),
			logger.String("session_id", id))
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("update config: %w", err)
	}
	return sess, nil
}

func (s *SessionService) Series(ctx context.Context, id string) ([]models.PricePoint, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Series, nil
}

func (s *SessionService) Messages(ctx context.Context, id string) ([]models.ChatMessage, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Messages, nil
}

// Analyze asks for the opening strategy summary. The summary starts a new
// transcript: any earlier messages are discarded.
func (s *SessionService) Analyze(ctx context.Context, id string) (models.ChatMessage, error) {
	release, err := s.acquire(ctx, id)
	if err != nil {
		return models.ChatMessage{}, err
	}
	defer release()

	if _, err := s.Session(ctx, id); err != nil {
		return models.ChatMessage{}, err
	}

	reply := s.advisor.Analyze(ctx, s.code)
	if strings.TrimSpace(reply) == "" {
		reply = WelcomeMessage
	}
	msg := s.message(models.RoleAssistant, reply)
	sess, err := s.Session(ctx, id)
	if err != nil {
		return models.ChatMessage{}, err
	}
	sess.Messages = []models.ChatMessage{msg}
	if err := s.store.Save(ctx, sess); err != nil {
		return models.ChatMessage{}, fmt.Errorf("analyze: %w", err)
	}
	return msg, nil
}

// Chat records the user's question, asks the advisor, and records the reply.
// It fails with ErrRequestInFlight while another request for id is running.
func (s *SessionService) Chat(ctx context.Context, id, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}

	release, err := s.acquire(ctx, id)
	if err != nil {
		return models.ChatMessage{}, err
	}
	defer release()

	if err := s.append(ctx, id, s.message(models.RoleUser, text)); err != nil {
		return models.ChatMessage{}, err
	}

	reply := s.advisor.Converse(ctx, text, s.code)
	if strings.TrimSpace(reply) == "" {
		reply = NoReplyMessage
	}
	msg := s.message(models.RoleAssistant, reply)
	if err := s.append(ctx, id, msg); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// EndSession discards the session. Ending an unknown session is not an error.
func (s *SessionService) EndSession(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	s.log.Debug("session ended", logger.String("session_id", id))
	return nil
}

func (s *SessionService) acquire(ctx context.Context, id string) (func(), error) {
	ok, err := s.store.Acquire(ctx, id, s.guardTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire session guard: %w", err)
	}
	if !ok {
		return nil, ErrRequestInFlight
	}
	return func() {
		// The request context may already be cancelled.
		if err := s.store.Release(context.WithoutCancel(ctx), id); err != nil {
			s.log.Warn("release session guard", logger.String("session_id", id), logger.Error(err))
		}
	}, nil
}

// append reloads the session so edits made while the advisor was busy survive.
func (s *SessionService) append(ctx context.Context, id string, msg models.ChatMessage) error {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return err
	}
	sess.Messages = append(sess.Messages, msg)
	if err := s.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (s *SessionService) message(role models.Role, content string) models.ChatMessage {
	return models.ChatMessage{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
		Time:    s.now().UTC(),
	}
}
