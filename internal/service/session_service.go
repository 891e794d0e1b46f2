package service

import (
	"alcyxob/workout-journey/internal/domain"
	"alcyxob/workout-journey/internal/notify"
	"alcyxob/workout-journey/internal/repository"
	"alcyxob/workout-journey/internal/rewards"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound = errors.New("session not found")
)

// Metrics is the dashboard payload: everything the client needs to
// render progress in one read.
type Metrics struct {
	Sessions    []domain.Session      `json:"sessions"`
	Unlocks     []domain.RewardUnlock `json:"unlocks"`
	CurrentDay  int                   `json:"currentDay"`
	WeeklyCount int                   `json:"weeklyCount"`
}

// SessionService orchestrates the write path (log a session, evaluate
// rewards, persist unlocks, notify) and the dashboard read path.
type SessionService interface {
	// LogSession records a workout and returns the created session plus
	// the tiers newly unlocked by it, in catalog order. minutes and
	// date are optional; they default to the qualifying minimum (30)
	// and the current time.
	LogSession(ctx context.Context, userID string, minutes *int, notes string, date *time.Time) (*domain.Session, []domain.RewardUnlock, error)

	// GetMetrics returns the dashboard payload for the user.
	GetMetrics(ctx context.Context, userID string, now time.Time) (*Metrics, error)

	// SetupSubject materializes the configured subject's identity
	// record. Idempotent.
	SetupSubject(ctx context.Context) (*domain.User, error)

	// DeleteSession removes a session (administrative override).
	// Unlocks already granted on the strength of that session stay:
	// they are durable facts of record.
	DeleteSession(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
}

// sessionService implements the SessionService interface.
type sessionService struct {
	sessionRepo  repository.SessionRepository
	unlockRepo   repository.UnlockRepository
	userRepo     repository.UserRepository
	notifier     notify.Notifier
	catalog      rewards.Catalog
	subjectID    string
	subjectName  string
	programStart time.Time

	// now is swappable in tests; everywhere else it is time.Now.
	now func() time.Time

	// Per-user locks serialize the evaluate-then-persist-unlock
	// sequence so two concurrent logs cannot both decide "not yet
	// unlocked". The unlock store's unique index is the durable
	// backstop; this keeps the common case clean.
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	unlockRepo repository.UnlockRepository,
	userRepo repository.UserRepository,
	notifier notify.Notifier,
	catalog rewards.Catalog,
	subjectID string,
	subjectName string,
	programStart time.Time,
) SessionService {
	return &sessionService{
		sessionRepo:  sessionRepo,
		unlockRepo:   unlockRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		catalog:      catalog,
		subjectID:    subjectID,
		subjectName:  subjectName,
		programStart: programStart,
		now:          time.Now,
		userLocks:    make(map[string]*sync.Mutex),
	}
}

func (s *sessionService) lockFor(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[userID] = l
	}
	return l
}

// === Write path ===

func (s *sessionService) LogSession(ctx context.Context, userID string, minutes *int, notes string, date *time.Time) (*domain.Session, []domain.RewardUnlock, error) {
	now := s.now().UTC()

	// 1. Validate before any write.
	if userID == "" {
		return nil, nil, fmt.Errorf("%w: userId is required", domain.ErrValidation)
	}
	mins := rewards.MinSessionMinutes
	if minutes != nil {
		if *minutes < 0 {
			return nil, nil, fmt.Errorf("%w: minutes must be non-negative", domain.ErrValidation)
		}
		mins = *minutes
	}
	when := now
	if date != nil {
		when = date.UTC()
		if when.After(now) {
			return nil, nil, fmt.Errorf("%w: session date %s is in the future", domain.ErrValidation, when.Format(time.RFC3339))
		}
	}

	// 2. Serialize evaluate-then-unlock per user.
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	// 3. Persist the session. Failure aborts the whole operation.
	session := &domain.Session{
		UserID:  userID,
		Date:    when,
		Minutes: mins,
		Notes:   notes,
	}
	if _, err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("%w: create session: %w", domain.ErrPersistence, err)
	}

	// 4. Evaluate against freshly-read history and prior unlocks.
	// History only needs to cover the longest catalog window.
	historyStart := now.AddDate(0, 0, -s.catalog.MaxWindowDays())
	history, err := s.sessionRepo.ListSince(ctx, userID, historyStart, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read session history: %w", domain.ErrPersistence, err)
	}
	prior, err := s.unlockRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read prior unlocks: %w", domain.ErrPersistence, err)
	}

	qualified, err := s.catalog.Evaluate(now, userID, history, prior)
	if err != nil {
		return nil, nil, err
	}

	// 5. Persist each unlock in catalog order, then notify. A losing
	// race on the unique index is a benign no-op; a notification
	// failure is logged and swallowed because the unlock is already
	// the durable fact of record.
	newUnlocks := []domain.RewardUnlock{}
	for _, tier := range qualified {
		unlock := &domain.RewardUnlock{
			UserID:      userID,
			RewardName:  tier.Label,
			UnlockedAt:  now,
			WindowEpoch: tier.WindowEpoch(now),
		}
		if _, err := s.unlockRepo.Create(ctx, unlock); err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				log.Printf("WARN: Reward %q already unlocked for user %s (concurrent request won the race)", tier.Label, userID)
				continue
			}
			return session, newUnlocks, fmt.Errorf("%w: create unlock %q: %w", domain.ErrPersistence, tier.Label, err)
		}
		newUnlocks = append(newUnlocks, *unlock)

		s.dispatchNotification(ctx, tier.Label, userID)
	}

	return session, newUnlocks, nil
}

// dispatchNotification calls the notifier with a bounded timeout and
// never lets the error escape.
func (s *sessionService) dispatchNotification(ctx context.Context, rewardName, userID string) {
	dispatchCtx, cancel := context.WithTimeout(ctx, notify.DefaultDispatchTimeout)
	defer cancel()

	if err := s.notifier.NotifyUnlock(dispatchCtx, rewardName, userID); err != nil {
		log.Printf("ERROR: %v: reward %q for user %s: %v", domain.ErrDispatch, rewardName, userID, err)
	}
}

// === Read path ===

func (s *sessionService) GetMetrics(ctx context.Context, userID string, now time.Time) (*Metrics, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", domain.ErrValidation)
	}
	now = now.UTC()

	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list sessions: %w", domain.ErrPersistence, err)
	}
	unlocks, err := s.unlockRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list unlocks: %w", domain.ErrPersistence, err)
	}
	weekly, err := s.sessionRepo.CountSince(ctx, userID, now.AddDate(0, 0, -7), 0)
	if err != nil {
		return nil, fmt.Errorf("%w: weekly count: %w", domain.ErrPersistence, err)
	}

	return &Metrics{
		Sessions:    sessions,
		Unlocks:     unlocks,
		CurrentDay:  currentProgramDay(now, s.programStart),
		WeeklyCount: int(weekly),
	}, nil
}

// currentProgramDay numbers days from the program start, floored at 1:
// before the program begins the dashboard still shows day 1.
func currentProgramDay(now, start time.Time) int {
	day := int(now.Sub(start)/(24*time.Hour)) + 1
	if day < 1 {
		return 1
	}
	return day
}

// === Subject setup ===

func (s *sessionService) SetupSubject(ctx context.Context) (*domain.User, error) {
	user := &domain.User{
		ID:   s.subjectID,
		Name: s.subjectName,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: upsert subject: %w", domain.ErrPersistence, err)
	}
	return s.userRepo.GetByID(ctx, s.subjectID)
}

// === Administrative override ===

func (s *sessionService) DeleteSession(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	session, err := s.sessionRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: delete session: %w", domain.ErrPersistence, err)
	}
	return session, nil
}
