package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type MCQOption struct {
	QuestionID    uuid.UUID     `json:"question_id" gorm:"type:uuid;primaryKey"`
	OptionA       string        `json:"option_a" gorm:"not null"`
	OptionB       string        `json:"option_b" gorm:"not null"`
	OptionC       string        `json:"option_c" gorm:"not null"`
	OptionD       string        `json:"option_d" gorm:"not null"`
	CorrectOption CorrectOption `json:"correct_option" gorm:"not null"`
	Explanation   *string       `json:"explanation"`
}

func (MCQOption) TableName() string { return "mcq_options" }

func (*MCQOption) DetailType() QuestionType { return QuestionTypeMCQ }

type TheoryDetail struct {
	QuestionID   uuid.UUID      `json:"question_id" gorm:"type:uuid;primaryKey"`
	WordLimit    int            `json:"word_limit" gorm:"not null;default:500"`
	SampleAnswer *string        `json:"sample_answer"`
	Keywords     pq.StringArray `json:"keywords" gorm:"type:text[]"`
}

func (TheoryDetail) TableName() string { return "theory_details" }

func (*TheoryDetail) DetailType() QuestionType { return QuestionTypeTheory }

// TestCase is one input/expected output pair of a coding question. Hidden
// cases are not meant to be shown to candidates.
type TestCase struct {
	Input          string `json:"input" binding:"required"`
	ExpectedOutput string `json:"expected_output" binding:"required"`
	IsHidden       bool   `json:"is_hidden"`
}

type CodingDetail struct {
	QuestionID          uuid.UUID                     `json:"question_id" gorm:"type:uuid;primaryKey"`
	ProgrammingLanguage ProgrammingLanguage           `json:"programming_language" gorm:"not null;default:'python'"`
	StarterCode         *string                       `json:"starter_code"`
	SolutionCode        *string                       `json:"solution_code"`
	TimeLimitSeconds    int                           `json:"time_limit_seconds" gorm:"not null;default:5"`
	MemoryLimitMB       int                           `json:"memory_limit_mb" gorm:"column:memory_limit_mb;not null;default:256"`
	TestCases           datatypes.JSONSlice[TestCase] `json:"test_cases" gorm:"type:jsonb"`
}

func (CodingDetail) TableName() string { return "coding_details" }

func (*CodingDetail) DetailType() QuestionType { return QuestionTypeCoding }
