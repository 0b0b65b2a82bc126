package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	TestID       uuid.UUID    `json:"test_id" gorm:"type:uuid;not null;index"`
	QuestionType QuestionType `json:"question_type" gorm:"not null;<-:create"`
	QuestionText string       `json:"question_text" gorm:"not null"`
	Marks        int          `json:"marks" gorm:"not null;default:1"`
	OrderNo      int          `json:"order_no" gorm:"not null;default:1"`
	IsActive     bool         `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// QuestionDetail is the type specific half of a question: one of *MCQOption,
// *TheoryDetail or *CodingDetail.
type QuestionDetail interface {
	DetailType() QuestionType
}

// QuestionView is a question assembled with its detail record. MCQ options are
// rendered under "options", theory and coding details under "details". A view
// without a detail (orphaned base row) renders neither key.
type QuestionView struct {
	Question
	Detail QuestionDetail `json:"-"`
}

func (v QuestionView) MarshalJSON() ([]byte, error) {
	out := struct {
		Question
		Options *MCQOption  `json:"options,omitempty"`
		Details interface{} `json:"details,omitempty"`
	}{Question: v.Question}

	switch d := v.Detail.(type) {
	case *MCQOption:
		out.Options = d
	case *TheoryDetail:
		out.Details = d
	case *CodingDetail:
		out.Details = d
	}
	return json.Marshal(out)
}
