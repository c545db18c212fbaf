package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/examkit/examkit/internal/domain"
)

// MemoryStore is a mutex-guarded in-memory implementation of every store
// interface, used by tests and local development.
type MemoryStore struct {
	mu        sync.RWMutex
	questions map[string]*domain.Question
	attempts  map[string][]*domain.ScoreResult
	profiles  map[string]*domain.UserProfile
	templates []*domain.QuestionTemplate
	keywords  map[string]*domain.DifficultyKeywords

	// FailSaves forces SaveQuestion and SaveAttempt to error, letting tests
	// exercise failure paths.
	FailSaves bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		questions: make(map[string]*domain.Question),
		attempts:  make(map[string][]*domain.ScoreResult),
		profiles:  make(map[string]*domain.UserProfile),
		keywords:  make(map[string]*domain.DifficultyKeywords),
	}
}

func keywordKey(difficulty int, category string) string {
	return fmt.Sprintf("%d/%s", difficulty, category)
}

// SaveQuestion stores a copy of q keyed by its ID.
func (s *MemoryStore) SaveQuestion(_ context.Context, q *domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves {
		return fmt.Errorf("memory store: save disabled")
	}
	clone := *q
	s.questions[q.ID] = &clone
	return nil
}

// GetQuestion returns the stored question or ErrNotFound.
func (s *MemoryStore) GetQuestion(_ context.Context, id string) (*domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, fmt.Errorf("question %q: %w", id, ErrNotFound)
	}
	clone := *q
	return &clone, nil
}

// ListQuestionsByRound returns all questions minted in a round.
func (s *MemoryStore) ListQuestionsByRound(_ context.Context, roundID string) ([]*domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Question
	for _, q := range s.questions {
		if q.RoundID == roundID {
			clone := *q
			out = append(out, &clone)
		}
	}
	return out, nil
}

// SaveAttempt appends a graded attempt under its session.
func (s *MemoryStore) SaveAttempt(_ context.Context, r *domain.ScoreResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves {
		return fmt.Errorf("memory store: save disabled")
	}
	s.attempts[r.SessionID] = append(s.attempts[r.SessionID], r.Clone())
	return nil
}

// ListAttemptsBySession returns every attempt recorded for a session.
func (s *MemoryStore) ListAttemptsBySession(_ context.Context, sessionID string) ([]*domain.ScoreResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempts := s.attempts[sessionID]
	out := make([]*domain.ScoreResult, len(attempts))
	for i, a := range attempts {
		out[i] = a.Clone()
	}
	return out, nil
}

// PutProfile seeds a profile for tests.
func (s *MemoryStore) PutProfile(p *domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *p
	s.profiles[p.UserID] = &clone
}

// GetProfile returns the stored profile or ErrNotFound.
func (s *MemoryStore) GetProfile(_ context.Context, userID string) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %q: %w", userID, ErrNotFound)
	}
	clone := *p
	return &clone, nil
}

// PutTemplate seeds a template for tests.
func (s *MemoryStore) PutTemplate(t *domain.QuestionTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *t
	s.templates = append(s.templates, &clone)
}

// SearchTemplates filters seeded templates. No match returns an empty slice.
func (s *MemoryStore) SearchTemplates(_ context.Context, qType domain.QuestionType, category string, difficulty int) ([]*domain.QuestionTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*domain.QuestionTemplate{}
	for _, t := range s.templates {
		if t.Type == qType && t.Category == category && t.Difficulty == difficulty {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

// PutKeywords seeds a keyword vocabulary cell.
func (s *MemoryStore) PutKeywords(k *domain.DifficultyKeywords) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *k
	s.keywords[keywordKey(k.Difficulty, k.Category)] = &clone
}

// GetKeywords returns the vocabulary for one cell or ErrNotFound.
func (s *MemoryStore) GetKeywords(_ context.Context, difficulty int, category string) (*domain.DifficultyKeywords, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.keywords[keywordKey(difficulty, category)]
	if !ok {
		return nil, fmt.Errorf("keywords %d/%s: %w", difficulty, category, ErrNotFound)
	}
	clone := *k
	return &clone, nil
}
