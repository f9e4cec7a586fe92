package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"rehearse/internal/modules/session/domain"
	sessionout "rehearse/internal/modules/session/port/out"
	"rehearse/internal/platform/clock"
	apperrors "rehearse/internal/platform/errors"
	"rehearse/internal/platform/id"
)

// SessionService owns the authoritative session collection, the current
// session pointer, and the process-wide readiness scalar. Mutations arrive
// from separate UI command goroutines and can overlap, so a mutex serializes
// every method.
type SessionService struct {
	clock      clock.Clock
	idGen      id.Generator
	store      sessionout.SessionStore
	log        *slog.Logger
	gainFactor float64

	mu        sync.Mutex
	sessions  []domain.Session
	currentID string
	readiness float64
}

func NewSessionService(clk clock.Clock, idGen id.Generator, store sessionout.SessionStore, log *slog.Logger, gainFactor float64) *SessionService {
	if log == nil {
		log = slog.Default()
	}
	if gainFactor <= 0 {
		gainFactor = 0.1
	}
	s := &SessionService{clock: clk, idGen: idGen, store: store, log: log, gainFactor: gainFactor}
	s.restore(context.Background())
	return s
}

// restore loads the persisted collection and readiness. A missing or corrupt
// store degrades to an empty set, never an error to the caller.
func (s *SessionService) restore(ctx context.Context) {
	if s.store == nil {
		return
	}
	sessions, err := s.store.LoadAll(ctx)
	if err != nil {
		s.log.Warn("session store unreadable, starting empty", "err", err)
		sessions = nil
	}
	s.sessions = sessions
	readiness, err := s.store.LoadReadiness(ctx)
	if err != nil {
		s.log.Warn("readiness unreadable, starting at zero", "err", err)
		readiness = 0
	}
	s.readiness = domain.ClampReadiness(readiness)
}

func (s *SessionService) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveAll(ctx, s.sessions); err != nil {
		s.log.Warn("session store write failed", "err", err)
	}
	if err := s.store.SaveReadiness(ctx, s.readiness); err != nil {
		s.log.Warn("readiness write failed", "err", err)
	}
}

// CreateSession starts a new in-progress session and makes it current. Any
// previous current session keeps its last status but is no longer tracked.
func (s *SessionService) CreateSession(ctx context.Context, company, difficulty, mode string, targetReadiness float64) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	session := domain.Session{
		ID:              s.idGen.New(),
		CreatedAt:       now,
		Company:         company,
		Difficulty:      difficulty,
		Mode:            mode,
		Status:          domain.StatusInProgress,
		StartedAt:       now,
		TargetReadiness: targetReadiness,
	}
	s.sessions = append(s.sessions, session)
	s.currentID = session.ID
	s.persist(ctx)
	return session
}

func (s *SessionService) current() *domain.Session {
	if s.currentID == "" {
		return nil
	}
	for i := range s.sessions {
		if s.sessions[i].ID == s.currentID {
			return &s.sessions[i]
		}
	}
	return nil
}

// AddQuestion appends a question to the current session. Without a current
// session, or once it is completed, this is a no-op.
func (s *SessionService) AddQuestion(ctx context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.current()
	if cur == nil || cur.Status == domain.StatusCompleted {
		return
	}
	cur.Questions = append(cur.Questions, domain.Question{
		Text:    text,
		Index:   len(cur.Questions),
		AskedAt: s.clock.Now(),
	})
	s.persist(ctx)
}

// AddAnswer appends an answer with derived quality and the local heuristic
// feedback. One answer per question at most.
func (s *SessionService) AddAnswer(ctx context.Context, text string, confidence, clarity, structure float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.current()
	if cur == nil || cur.Status == domain.StatusCompleted {
		return
	}
	if len(cur.Answers) >= len(cur.Questions) {
		return
	}
	cur.Answers = append(cur.Answers, domain.Answer{
		Text:       text,
		AnsweredAt: s.clock.Now(),
		Confidence: confidence,
		Clarity:    clarity,
		Structure:  structure,
		Quality:    domain.Quality(confidence, clarity, structure),
		Feedback:   quickFeedback(text, confidence, clarity, structure),
	})
	s.persist(ctx)
}

// quickFeedback is the session manager's own coarse annotation pass. It is
// deliberately simpler than the behavior analyzer: answers may be recorded
// without a full analysis.
func quickFeedback(text string, confidence, clarity, structure float64) []domain.Feedback {
	var fb []domain.Feedback
	switch {
	case len(text) < 50:
		fb = append(fb, domain.Feedback{Type: domain.FeedbackWarning, Message: "Answer is very short", Severity: domain.SeverityCritical})
	case len(text) > 500:
		fb = append(fb, domain.Feedback{Type: domain.FeedbackWarning, Message: "Answer is long", Severity: domain.SeverityAdvisory})
	}
	if clarity < 0.5 {
		fb = append(fb, domain.Feedback{Type: domain.FeedbackWarning, Message: "Low clarity", Severity: domain.SeverityAdvisory})
	}
	if structure < 0.5 {
		fb = append(fb, domain.Feedback{Type: domain.FeedbackWarning, Message: "Weak structure", Severity: domain.SeverityAdvisory})
	}
	if confidence >= 0.8 {
		fb = append(fb, domain.Feedback{Type: domain.FeedbackSuccess, Message: "Confident delivery", Severity: domain.SeverityPositive})
	}
	return fb
}

// CompleteSession finishes the current session and applies the readiness
// gain. A no-op when no current session exists.
func (s *SessionService) CompleteSession(ctx context.Context, score float64, feedback []domain.Feedback) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.current()
	if cur == nil {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	if !domain.CanTransition(cur.Status, domain.StatusCompleted) {
		return domain.Session{}, apperrors.ErrSessionCompleted
	}
	now := s.clock.Now()
	cur.EndedAt = now
	cur.Duration = now.Sub(cur.StartedAt)
	if cur.Duration < 0 {
		cur.Duration = 0
	}
	cur.Score = score
	cur.Status = domain.StatusCompleted
	cur.ReadinessGain = domain.ReadinessGain(score)
	if len(feedback) > 0 && len(cur.Answers) > 0 {
		last := &cur.Answers[len(cur.Answers)-1]
		last.Feedback = append(last.Feedback, feedback...)
	}
	s.readiness = domain.ClampReadiness(s.readiness + score*s.gainFactor)
	completed := *cur
	s.currentID = ""
	s.persist(ctx)
	return completed, nil
}

func (s *SessionService) PauseSession(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.current()
	if cur == nil || !domain.CanTransition(cur.Status, domain.StatusPaused) {
		return
	}
	cur.Status = domain.StatusPaused
	s.persist(ctx)
}

func (s *SessionService) ResumeSession(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.current()
	if cur == nil || cur.Status != domain.StatusPaused {
		return
	}
	cur.Status = domain.StatusInProgress
	s.persist(ctx)
}

func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].ID == sessionID {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			if s.currentID == sessionID {
				s.currentID = ""
			}
			s.persist(ctx)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (s *SessionService) GetSession(sessionID string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].ID == sessionID {
			return s.sessions[i], nil
		}
	}
	return domain.Session{}, apperrors.ErrNotFound
}

func (s *SessionService) GetSessions() []domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

func (s *SessionService) CurrentSession() (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.current()
	if cur == nil {
		return domain.Session{}, false
	}
	return *cur, true
}

func (s *SessionService) Readiness() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readiness
}

// GetStats recomputes aggregates from the completed set on every call so it
// can never go stale.
func (s *SessionService) GetStats() domain.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := domain.Stats{}
	companies := map[string]struct{}{}
	var completed []domain.Session
	for _, session := range s.sessions {
		if session.Status != domain.StatusCompleted {
			continue
		}
		completed = append(completed, session)
		stats.TotalInterviews++
		stats.AverageScore += session.Score
		if session.Score > stats.BestScore {
			stats.BestScore = session.Score
		}
		stats.TotalDuration += session.Duration
		stats.ReadinessGainSum += session.ReadinessGain
		if session.Company != "" {
			companies[session.Company] = struct{}{}
		}
	}
	if stats.TotalInterviews > 0 {
		stats.AverageScore /= float64(stats.TotalInterviews)
	}
	for company := range companies {
		stats.Companies = append(stats.Companies, company)
	}
	sort.Strings(stats.Companies)

	sort.Slice(completed, func(i, j int) bool { return completed[i].EndedAt.Before(completed[j].EndedAt) })
	trendFrom := len(completed) - 5
	if trendFrom < 0 {
		trendFrom = 0
	}
	for _, session := range completed[trendFrom:] {
		stats.RecentTrend = append(stats.RecentTrend, session.Score)
	}
	return stats
}

// GetSessionTimeline lists completed sessions in chronological order.
func (s *SessionService) GetSessionTimeline() []domain.TimelineEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []domain.TimelineEntry
	for _, session := range s.sessions {
		if session.Status != domain.StatusCompleted {
			continue
		}
		entries = append(entries, domain.TimelineEntry{
			SessionID: session.ID,
			Company:   session.Company,
			EndedAt:   session.EndedAt,
			Duration:  session.Duration,
			Score:     session.Score,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].EndedAt.Before(entries[j].EndedAt) })
	return entries
}

// ExportSessions serializes the full collection.
func (s *SessionService) ExportSessions() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return marshalExport(exportEnvelope{
		SchemaVersion: domain.SchemaVersion,
		ExportedAt:    s.clock.Now(),
		Readiness:     s.readiness,
		Sessions:      s.sessions,
	})
}

// ImportSessions merges a previously exported blob into the collection.
// Sessions whose IDs are already present are skipped, so importing an export
// of the same store is idempotent.
func (s *SessionService) ImportSessions(ctx context.Context, blob []byte) (int, error) {
	envelope, err := unmarshalExport(blob)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	known := map[string]struct{}{}
	for _, session := range s.sessions {
		known[session.ID] = struct{}{}
	}
	added := 0
	for _, session := range envelope.Sessions {
		if _, dup := known[session.ID]; dup {
			continue
		}
		s.sessions = append(s.sessions, session)
		added++
	}
	if added > 0 {
		s.persist(ctx)
	}
	return added, nil
}

type exportEnvelope struct {
	SchemaVersion int              `json:"schema_version"`
	ExportedAt    time.Time        `json:"exported_at"`
	Readiness     float64          `json:"readiness"`
	Sessions      []domain.Session `json:"sessions"`
}
