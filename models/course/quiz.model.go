package course

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DefaultQuizTitle    = "Course Assessment"
	DefaultPassingScore = 70
)

type Question struct {
	ID            uuid.UUID `json:"id"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectAnswer int       `json:"correct_answer"`
	Explanation   string    `json:"explanation"`
	Points        int       `json:"points"`
}

// Quiz is the assessment linked to a course through Course.QuizID.
type Quiz struct {
	Base
	CourseID           uuid.UUID                     `json:"course_id" gorm:"type:uuid;index;not null"`
	Title              string                        `json:"title" gorm:"not null"`
	Description        string                        `json:"description" gorm:"type:text"`
	Questions          datatypes.JSONSlice[Question] `json:"questions"`
	PassingScore       int                           `json:"passing_score" gorm:"not null"`
	TimeLimit          int                           `json:"time_limit"` // minutes, 0 means untimed
	MaxAttempts        *int                          `json:"max_attempts"`
	ShuffleQuestions   bool                          `json:"shuffle_questions"`
	ShuffleOptions     bool                          `json:"shuffle_options"`
	ShowCorrectAnswers bool                          `json:"show_correct_answers"`
	CreatedBy          uuid.UUID                     `json:"created_by" gorm:"type:uuid"`
}

// Validate checks the quiz definition. Field keys follow the json names.
func (q *Quiz) Validate() error {
	errs := make(map[string]string)
	if q.PassingScore < 0 || q.PassingScore > 100 {
		errs["passing_score"] = "Passing score must be between 0 and 100!"
	}
	if q.TimeLimit < 0 {
		errs["time_limit"] = "Time limit cannot be negative!"
	}
	if q.MaxAttempts != nil && *q.MaxAttempts < 1 {
		errs["max_attempts"] = "Max attempts must be at least 1!"
	}
	for i, question := range q.Questions {
		prefix := fmt.Sprintf("questions[%d]", i)
		if question.Question == "" {
			errs[prefix+".question"] = "Question text is required!"
		}
		if len(question.Options) < 2 {
			errs[prefix+".options"] = "At least 2 options are required!"
		}
		if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
			errs[prefix+".correct_answer"] = "Correct answer is out of range!"
		}
		if question.Points < 1 {
			errs[prefix+".points"] = "Points must be at least 1!"
		}
	}
	if len(errs) > 0 {
		return NewValidationError(errs)
	}
	return nil
}

// AddQuestions assigns ids and default points before appending.
func (q *Quiz) AddQuestions(questions ...Question) {
	for _, question := range questions {
		if question.ID == uuid.Nil {
			question.ID = uuid.New()
		}
		if question.Points == 0 {
			question.Points = 1
		}
		q.Questions = append(q.Questions, question)
	}
}

func (q *Quiz) QuestionIndex(id uuid.UUID) int {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return i
		}
	}
	return -1
}

func (q *Quiz) AttemptsRemaining(used int) (int, bool) {
	if q.MaxAttempts == nil {
		return 0, false
	}
	left := *q.MaxAttempts - used
	if left < 0 {
		left = 0
	}
	return left, true
}

type AttemptAnswer struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption *int      `json:"selected_option"`
	IsCorrect      bool      `json:"is_correct"`
}

// QuizAttempt is stored inside the enrollment's quiz_attempts JSON column.
type QuizAttempt struct {
	AttemptDate   time.Time       `json:"attempt_date"`
	Score         int             `json:"score"`
	Passed        bool            `json:"passed"`
	Answers       []AttemptAnswer `json:"answers"`
	TimeTaken     int             `json:"time_taken"`
	AttemptNumber int             `json:"attempt_number"`
}
