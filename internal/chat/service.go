package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/suPer8Hu/car-advisor/internal/ai"
	"github.com/suPer8Hu/car-advisor/internal/catalog"
	"github.com/suPer8Hu/car-advisor/internal/common"
	"github.com/suPer8Hu/car-advisor/internal/logging"
	"github.com/suPer8Hu/car-advisor/internal/metrics"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound = errors.New("chat session not found")
	// ErrGeneration wraps a text generator failure. The apology reply is still stored.
	ErrGeneration = errors.New("text generation failed")
)

const (
	BudgetApology    = "Sorry, I couldn't find a budget amount in your message. Please include it as a number, e.g. 'my budget is 500000'."
	GeneratorApology = "Sorry, I couldn't come up with a reply right now. Please try again in a moment."
)

// Recommender picks a car within budget. catalog.Engine implements it.
type Recommender interface {
	Recommend(budget float64, fuel, transmission string) (catalog.Record, error)
}

type Options struct {
	MaxReplyRunes       int
	DefaultFuel         string
	DefaultTransmission string
}

type Route string

const (
	RouteRecommendation Route = "recommendation"
	RouteGeneration     Route = "generation"
)

type Recommendation struct {
	Budget      float64         `json:"budget"`
	Preferences Preferences     `json:"preferences"`
	Car         *catalog.Record `json:"car,omitempty"`
}

// Reply is the assistant side of one exchange.
type Reply struct {
	Route              Route           `json:"route"`
	Content            string          `json:"content"`
	Recommendation     *Recommendation `json:"recommendation,omitempty"`
	UserMessageID      uint64          `json:"user_message_id"`
	AssistantMessageID uint64          `json:"assistant_message_id"`
}

type Service struct {
	repo        *Repo
	recommender Recommender
	generator   ai.Provider
	opts        Options

	locks sessionLocks
}

func NewService(repo *Repo, recommender Recommender, generator ai.Provider, opts Options) *Service {
	if opts.MaxReplyRunes <= 0 {
		opts.MaxReplyRunes = 500
	}
	if opts.DefaultFuel == "" {
		opts.DefaultFuel = "Petrol"
	}
	if opts.DefaultTransmission == "" {
		opts.DefaultTransmission = "Automatic"
	}
	return &Service{repo: repo, recommender: recommender, generator: generator, opts: opts}
}

func (s *Service) CreateSession(ctx context.Context) (*Session, error) {
	sid, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	session := &Session{SessionID: sid}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) ValidateSession(ctx context.Context, sessionID string) error {
	if _, err := s.repo.GetSessionBySessionID(ctx, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// EndSession deletes the session and its transcript.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	unlock := s.lock(sessionID)
	defer unlock()

	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

func (s *Service) lock(sessionID string) func() {
	return s.locks.lock(sessionID)
}

// sessionLocks hands out one mutex per session id. An entry lives only
// while someone holds or waits for it.
type sessionLocks struct {
	mu      sync.Mutex
	entries map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func (l *sessionLocks) lock(key string) func() {
	l.mu.Lock()
	if l.entries == nil {
		l.entries = make(map[string]*sessionLock)
	}
	e, ok := l.entries[key]
	if !ok {
		e = &sessionLock{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Handle answers one chat message and appends the user message and the reply
// to the session transcript. ErrBudgetUnparseable and ErrGeneration come back
// together with a stored apology reply. Any other error means nothing was stored.
func (s *Service) Handle(ctx context.Context, sessionID, message string) (Reply, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	if err := s.ValidateSession(ctx, sessionID); err != nil {
		return Reply{}, err
	}

	reply, routeErr := s.respond(ctx, message)
	if routeErr != nil && !apologized(routeErr) {
		return Reply{}, routeErr
	}
	metrics.ChatMessagesTotal.WithLabelValues(string(reply.Route)).Inc()

	userMsg, assistantMsg, err := s.repo.AppendExchange(ctx, sessionID, message, reply.Content)
	if err != nil {
		return Reply{}, fmt.Errorf("append transcript: %w", err)
	}
	reply.UserMessageID = userMsg.ID
	reply.AssistantMessageID = assistantMsg.ID

	return reply, routeErr
}

// apologized reports whether err came back with a stored apology reply.
func apologized(err error) bool {
	return errors.Is(err, ErrBudgetUnparseable) || errors.Is(err, ErrGeneration)
}

func (s *Service) respond(ctx context.Context, message string) (Reply, error) {
	if MentionsBudget(message) {
		return s.recommend(message)
	}

	reply := Reply{Route: RouteGeneration}
	out, err := ai.Generate(ctx, s.generator, message)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("text generator failed")
		reply.Content = GeneratorApology
		return reply, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	reply.Content = truncateRunes(strings.TrimSpace(out), s.opts.MaxReplyRunes)
	return reply, nil
}

func (s *Service) recommend(message string) (Reply, error) {
	reply := Reply{Route: RouteRecommendation}

	budget, err := ParseBudget(message)
	if err != nil {
		reply.Content = BudgetApology
		return reply, err
	}

	prefs := ResolvePreferences(message, s.opts.DefaultFuel, s.opts.DefaultTransmission)
	reply.Recommendation = &Recommendation{Budget: budget, Preferences: prefs}

	var b strings.Builder
	if prefs.Assumed {
		fmt.Fprintf(&b, "Assuming %s / %s (mention a fuel type or transmission to change this).\n\n", prefs.FuelType, prefs.Transmission)
	}

	car, err := s.recommender.Recommend(budget, prefs.FuelType, prefs.Transmission)
	switch {
	case errors.Is(err, catalog.ErrNoMatch):
		b.WriteString(catalog.NoMatchMessage)
	case err != nil:
		return reply, fmt.Errorf("recommend: %w", err)
	default:
		reply.Recommendation.Car = &car
		b.WriteString(car.Describe())
	}
	reply.Content = b.String()
	return reply, nil
}

func (s *Service) ListMessages(ctx context.Context, sessionID string, limit int, afterID uint64) ([]Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListMessages(ctx, sessionID, limit, afterID)
}

func (s *Service) GetJob(ctx context.Context, jobID string) (*Job, error) {
	return s.repo.GetJobByID(ctx, jobID)
}

// EnqueueJob records a queued job for the message. With an idempotency key,
// a repeated request returns the job created the first time and created=false.
func (s *Service) EnqueueJob(ctx context.Context, sessionID, prompt string, idempotencyKey *string) (job *Job, created bool, err error) {
	if err := s.ValidateSession(ctx, sessionID); err != nil {
		return nil, false, err
	}
	id, err := common.NewULID()
	if err != nil {
		return nil, false, err
	}
	return s.repo.CreateJobOrGetExisting(ctx, &Job{
		ID:             id,
		SessionID:      sessionID,
		Prompt:         prompt,
		IdempotencyKey: idempotencyKey,
		Status:         JobQueued,
	})
}

// ProcessJob runs a queued job through Handle. Jobs that are no longer
// queued are skipped, so redelivered messages are harmless.
func (s *Service) ProcessJob(ctx context.Context, jobID string) error {
	job, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != JobQueued {
		return nil
	}
	claimed, err := s.repo.ClaimJob(ctx, job.ID)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	reply, err := s.Handle(ctx, job.SessionID, job.Prompt)
	if err != nil && !apologized(err) {
		metrics.ChatJobsTotal.WithLabelValues(string(JobFailed)).Inc()
		if markErr := s.repo.MarkJobFailed(ctx, job.ID, err.Error()); markErr != nil {
			return markErr
		}
		return err
	}

	metrics.ChatJobsTotal.WithLabelValues(string(JobSucceeded)).Inc()
	return s.repo.MarkJobSucceeded(ctx, job.ID, reply.AssistantMessageID)
}
