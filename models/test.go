package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Test struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title           string     `json:"title" gorm:"not null"`
	Description     *string    `json:"description"`
	Difficulty      Difficulty `json:"difficulty" gorm:"not null;default:'medium'"`
	DurationMinutes int        `json:"duration_minutes" gorm:"not null"`
	TotalMarks      int        `json:"total_marks" gorm:"not null"`
	PassingMarks    int        `json:"passing_marks" gorm:"not null"`
	CreatedBy       uuid.UUID  `json:"created_by" gorm:"type:uuid;not null;index;<-:create"`
	IsActive        bool       `json:"is_active" gorm:"not null;default:true;index"`
	IsPublished     bool       `json:"is_published" gorm:"not null;default:false"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// QuestionCount is filled on single-test reads.
	QuestionCount int64 `json:"question_count" gorm:"-"`
}

func (t *Test) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TestAttempt is only counted for statistics; attempts are not created here.
type TestAttempt struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	TestID      uuid.UUID     `json:"test_id" gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	StartedAt   time.Time     `json:"started_at"`
	SubmittedAt *time.Time    `json:"submitted_at"`
	Score       int           `json:"score" gorm:"not null;default:0"`
	Status      AttemptStatus `json:"status" gorm:"not null;default:'in_progress'"`
}

// TestStats aggregates the active questions and all attempts of a test.
type TestStats struct {
	TotalQuestions int64 `json:"total_questions"`
	MCQCount       int64 `json:"mcq_count"`
	TheoryCount    int64 `json:"theory_count"`
	CodingCount    int64 `json:"coding_count"`
	TotalMarks     int64 `json:"total_marks"`
	TotalAttempts  int64 `json:"total_attempts"`
}
