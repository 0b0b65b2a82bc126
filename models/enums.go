package models

import "fmt"

type Role string

const (
	RoleUser        Role = "user"
	RoleInstitution Role = "institution"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

type City string

const (
	CityBhopal City = "Bhopal"
	CityIndore City = "Indore"
)

type State string

const StateMadhyaPradesh State = "Madhya Pradesh"

type Country string

const CountryIndia Country = "India"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// QuestionType is the discriminant of a question. It is fixed at creation.
type QuestionType string

const (
	QuestionTypeMCQ    QuestionType = "mcq"
	QuestionTypeTheory QuestionType = "theory"
	QuestionTypeCoding QuestionType = "coding"
)

type CorrectOption string

const (
	OptionA CorrectOption = "a"
	OptionB CorrectOption = "b"
	OptionC CorrectOption = "c"
	OptionD CorrectOption = "d"
)

type ProgrammingLanguage string

const (
	LanguagePython     ProgrammingLanguage = "python"
	LanguageJavaScript ProgrammingLanguage = "javascript"
	LanguageJava       ProgrammingLanguage = "java"
	LanguageCPP        ProgrammingLanguage = "cpp"
	LanguageC          ProgrammingLanguage = "c"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
	AttemptEvaluated  AttemptStatus = "evaluated"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleInstitution
}

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

func (c City) Valid() bool {
	return c == CityBhopal || c == CityIndore
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMCQ, QuestionTypeTheory, QuestionTypeCoding:
		return true
	}
	return false
}

// ParseRole decodes a query or claim value into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}

// ParseQuestionType decodes a stored or requested question type.
func ParseQuestionType(s string) (QuestionType, error) {
	t := QuestionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid question type %q", s)
	}
	return t, nil
}
