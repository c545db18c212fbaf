package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/examkit/examkit/internal/domain"
)

// questionRow is the gorm persistence shape for a question. Slice fields are
// stored as JSON text columns.
type questionRow struct {
	ID              string    `gorm:"primarykey;type:varchar(64)"`
	RoundID         string    `gorm:"type:varchar(255);not null;index"`
	Type            string    `gorm:"type:varchar(32);not null"`
	Stem            string    `gorm:"type:text;not null"`
	Difficulty      int       `gorm:"not null"`
	Categories      string    `gorm:"type:text"`
	Choices         string    `gorm:"type:text"`
	CorrectKey      string    `gorm:"type:varchar(255)"`
	CorrectKeywords string    `gorm:"type:text"`
	ValidationScore float64   `gorm:"type:decimal(4,3)"`
	Explanation     string    `gorm:"type:text"`
	CreatedAt       time.Time
}

func (questionRow) TableName() string { return "questions" }

// attemptRow is the gorm persistence shape for a graded attempt.
type attemptRow struct {
	AttemptID      string    `gorm:"primarykey;type:varchar(64)"`
	SessionID      string    `gorm:"type:varchar(255);not null;index"`
	QuestionID     string    `gorm:"type:varchar(64);not null;index"`
	UserID         string    `gorm:"type:varchar(64);not null"`
	IsCorrect      bool      `gorm:"not null"`
	Score          int       `gorm:"not null"`
	Explanation    string    `gorm:"type:text"`
	KeywordMatches string    `gorm:"type:text"`
	Feedback       string    `gorm:"type:text"`
	GradedAt       time.Time `gorm:"not null"`
}

func (attemptRow) TableName() string { return "attempts" }

// GormStore implements QuestionStore and AttemptStore on MySQL.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore dials MySQL and migrates the schema.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.AutoMigrate(&questionRow{}, &attemptRow{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &GormStore{db: db}, nil
}

func encodeStrings(s []string) string {
	if len(s) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(s)
	return string(b)
}

func decodeStrings(raw string) []string {
	out := []string{}
	if raw == "" {
		return out
	}
	_ = json.Unmarshal([]byte(raw), &out)
	return out
}

// SaveQuestion upserts one question row.
func (s *GormStore) SaveQuestion(ctx context.Context, q *domain.Question) error {
	row := questionRow{
		ID:              q.ID,
		RoundID:         q.RoundID,
		Type:            string(q.Type),
		Stem:            q.Stem,
		Difficulty:      q.Difficulty,
		Categories:      encodeStrings(q.Categories),
		Choices:         encodeStrings(q.Choices),
		CorrectKey:      q.CorrectKey,
		CorrectKeywords: encodeStrings(q.CorrectKeywords),
		ValidationScore: q.ValidationScore,
		Explanation:     q.Explanation,
		CreatedAt:       q.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save question %q: %w", q.ID, err)
	}
	return nil
}

// GetQuestion loads one question or ErrNotFound.
func (s *GormStore) GetQuestion(ctx context.Context, id string) (*domain.Question, error) {
	var row questionRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("question %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get question %q: %w", id, err)
	}
	return rowToQuestion(&row), nil
}

// ListQuestionsByRound loads every question minted in a round.
func (s *GormStore) ListQuestionsByRound(ctx context.Context, roundID string) ([]*domain.Question, error) {
	var rows []questionRow
	if err := s.db.WithContext(ctx).Where("round_id = ?", roundID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list questions for round %q: %w", roundID, err)
	}
	out := make([]*domain.Question, len(rows))
	for i := range rows {
		out[i] = rowToQuestion(&rows[i])
	}
	return out, nil
}

func rowToQuestion(row *questionRow) *domain.Question {
	return &domain.Question{
		ID:              row.ID,
		RoundID:         row.RoundID,
		Type:            domain.QuestionType(row.Type),
		Stem:            row.Stem,
		Difficulty:      row.Difficulty,
		Categories:      decodeStrings(row.Categories),
		Choices:         decodeStrings(row.Choices),
		CorrectKey:      row.CorrectKey,
		CorrectKeywords: decodeStrings(row.CorrectKeywords),
		ValidationScore: row.ValidationScore,
		Explanation:     row.Explanation,
		CreatedAt:       row.CreatedAt,
	}
}

// SaveAttempt inserts one graded attempt.
func (s *GormStore) SaveAttempt(ctx context.Context, r *domain.ScoreResult) error {
	row := attemptRow{
		AttemptID:      r.AttemptID,
		SessionID:      r.SessionID,
		QuestionID:     r.QuestionID,
		UserID:         r.UserID,
		IsCorrect:      r.IsCorrect,
		Score:          r.Score,
		Explanation:    r.Explanation,
		KeywordMatches: encodeStrings(r.KeywordMatches),
		Feedback:       r.Feedback,
		GradedAt:       r.GradedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save attempt %q: %w", r.AttemptID, err)
	}
	return nil
}

// ListAttemptsBySession loads every attempt for a session, oldest first.
func (s *GormStore) ListAttemptsBySession(ctx context.Context, sessionID string) ([]*domain.ScoreResult, error) {
	var rows []attemptRow
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("graded_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list attempts for session %q: %w", sessionID, err)
	}
	out := make([]*domain.ScoreResult, len(rows))
	for i, row := range rows {
		out[i] = &domain.ScoreResult{
			AttemptID:      row.AttemptID,
			SessionID:      row.SessionID,
			QuestionID:     row.QuestionID,
			UserID:         row.UserID,
			IsCorrect:      row.IsCorrect,
			Score:          row.Score,
			Explanation:    row.Explanation,
			KeywordMatches: decodeStrings(row.KeywordMatches),
			Feedback:       row.Feedback,
			GradedAt:       row.GradedAt,
		}
	}
	return out, nil
}
