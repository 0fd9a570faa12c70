package course

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type NewLesson struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content"`
	Sequence int    `json:"sequence" validate:"min=0"`
}

func (n NewLesson) Build() Lesson {
	return Lesson{Title: n.Title, Content: n.Content, Sequence: n.Sequence}
}

type NewCourse struct {
	Title          string          `json:"title" validate:"required,max=100"`
	Description    string          `json:"description" validate:"required"`
	Category       string          `json:"category" validate:"required"`
	Thumbnail      string          `json:"thumbnail" validate:"omitempty,uri"`
	Price          decimal.Decimal `json:"price"`
	Currency       string          `json:"currency" validate:"omitempty,len=3"`
	RequirePassing bool            `json:"require_passing_quiz"`
	Lessons        []NewLesson     `json:"lessons" validate:"dive"`
}

func (n NewCourse) Build(instructorID uuid.UUID) (*Course, error) {
	if n.Price.IsNegative() {
		return nil, NewValidationError(map[string]string{"price": "Price cannot be negative!"})
	}
	c := &Course{
		Title:             n.Title,
		Description:       n.Description,
		Category:          n.Category,
		Thumbnail:         n.Thumbnail,
		InstructorID:      instructorID,
		Price:             n.Price,
		Currency:          n.Currency,
		RequirePassing:    n.RequirePassing,
		QuizRetryCooldown: 1,
	}
	for _, l := range n.Lessons {
		c.Lessons = append(c.Lessons, l.Build())
	}
	return c, nil
}

// UpdateCourse lists the only course fields an author may change after creation.
type UpdateCourse struct {
	Title             *string          `json:"title" validate:"omitempty,min=1,max=100"`
	Description       *string          `json:"description"`
	Category          *string          `json:"category" validate:"omitempty,min=1"`
	Thumbnail         *string          `json:"thumbnail" validate:"omitempty,uri"`
	Price             *decimal.Decimal `json:"price"`
	RequirePassing    *bool            `json:"require_passing_quiz"`
	QuizRetryCooldown *int             `json:"quiz_retry_cooldown" validate:"omitempty,min=0"`
}

func (u UpdateCourse) Apply(c *Course) error {
	if u.Price != nil && u.Price.IsNegative() {
		return NewValidationError(map[string]string{"price": "Price cannot be negative!"})
	}
	if u.Title != nil {
		c.Title = *u.Title
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Category != nil {
		c.Category = *u.Category
	}
	if u.Thumbnail != nil {
		c.Thumbnail = *u.Thumbnail
	}
	if u.Price != nil {
		c.Price = *u.Price
	}
	if u.RequirePassing != nil {
		c.RequirePassing = *u.RequirePassing
	}
	if u.QuizRetryCooldown != nil {
		c.QuizRetryCooldown = *u.QuizRetryCooldown
	}
	return nil
}

type DiscountInput struct {
	Amount    decimal.Decimal `json:"amount"`
	ExpiresAt *time.Time      `json:"expires_at"`
	// ExpiresOn is a YYYY-MM-DD date; the discount runs until the end of that day.
	ExpiresOn string `json:"expires_on" validate:"omitempty,datetime=2006-01-02"`
}

type PaymentInfo struct {
	Amount *decimal.Decimal `json:"amount"`
	Method PaymentMethod    `json:"method" validate:"omitempty,oneof=payfast manual free"`
}

type NewQuestion struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"min=2,dive,required"`
	CorrectAnswer *int     `json:"correct_answer" validate:"required,min=0"`
	Explanation   string   `json:"explanation"`
	Points        int      `json:"points" validate:"omitempty,min=1"`
}

func (n NewQuestion) Build() Question {
	q := Question{
		Question:    n.Question,
		Options:     n.Options,
		Explanation: n.Explanation,
		Points:      n.Points,
	}
	if n.CorrectAnswer != nil {
		q.CorrectAnswer = *n.CorrectAnswer
	}
	return q
}

type NewQuiz struct {
	Title              string        `json:"title" validate:"omitempty,max=200"`
	Description        string        `json:"description"`
	PassingScore       *int          `json:"passing_score" validate:"omitempty,min=0,max=100"`
	TimeLimit          *int          `json:"time_limit" validate:"omitempty,min=1"`
	MaxAttempts        *int          `json:"max_attempts" validate:"omitempty,min=1"`
	ShuffleQuestions   *bool         `json:"shuffle_questions"`
	ShuffleOptions     *bool         `json:"shuffle_options"`
	ShowCorrectAnswers *bool         `json:"show_correct_answers"`
	Questions          []NewQuestion `json:"questions" validate:"dive"`
}

func (n NewQuiz) Build(courseID, createdBy uuid.UUID) *Quiz {
	q := &Quiz{
		CourseID:         courseID,
		Title:            DefaultQuizTitle,
		Description:      n.Description,
		PassingScore:     DefaultPassingScore,
		MaxAttempts:      n.MaxAttempts,
		ShuffleQuestions: true,
		ShuffleOptions:   true,
		CreatedBy:        createdBy,
	}
	if n.Title != "" {
		q.Title = n.Title
	}
	if n.PassingScore != nil {
		q.PassingScore = *n.PassingScore
	}
	if n.TimeLimit != nil {
		q.TimeLimit = *n.TimeLimit
	}
	if n.ShuffleQuestions != nil {
		q.ShuffleQuestions = *n.ShuffleQuestions
	}
	if n.ShuffleOptions != nil {
		q.ShuffleOptions = *n.ShuffleOptions
	}
	if n.ShowCorrectAnswers != nil {
		q.ShowCorrectAnswers = *n.ShowCorrectAnswers
	}
	for _, question := range n.Questions {
		q.AddQuestions(question.Build())
	}
	return q
}

// UpdateQuiz is the allow-list for quiz edits. Questions, course and author are not editable here.
type UpdateQuiz struct {
	Title              *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description        *string `json:"description"`
	PassingScore       *int    `json:"passing_score" validate:"omitempty,min=0,max=100"`
	TimeLimit          *int    `json:"time_limit" validate:"omitempty,min=0"`
	MaxAttempts        *int    `json:"max_attempts" validate:"omitempty,min=1"`
	ShuffleQuestions   *bool   `json:"shuffle_questions"`
	ShuffleOptions     *bool   `json:"shuffle_options"`
	ShowCorrectAnswers *bool   `json:"show_correct_answers"`
}

func (u UpdateQuiz) Apply(q *Quiz) {
	if u.Title != nil {
		q.Title = *u.Title
	}
	if u.Description != nil {
		q.Description = *u.Description
	}
	if u.PassingScore != nil {
		q.PassingScore = *u.PassingScore
	}
	if u.TimeLimit != nil {
		q.TimeLimit = *u.TimeLimit
	}
	if u.MaxAttempts != nil {
		q.MaxAttempts = u.MaxAttempts
	}
	if u.ShuffleQuestions != nil {
		q.ShuffleQuestions = *u.ShuffleQuestions
	}
	if u.ShuffleOptions != nil {
		q.ShuffleOptions = *u.ShuffleOptions
	}
	if u.ShowCorrectAnswers != nil {
		q.ShowCorrectAnswers = *u.ShowCorrectAnswers
	}
}

type UpdateQuestion struct {
	Question      *string  `json:"question" validate:"omitempty,min=1"`
	Options       []string `json:"options" validate:"omitempty,min=2,dive,required"`
	CorrectAnswer *int     `json:"correct_answer" validate:"omitempty,min=0"`
	Explanation   *string  `json:"explanation"`
	Points        *int     `json:"points" validate:"omitempty,min=1"`
}

func (u UpdateQuestion) Apply(q *Question) {
	if u.Question != nil {
		q.Question = *u.Question
	}
	if u.Options != nil {
		q.Options = u.Options
	}
	if u.CorrectAnswer != nil {
		q.CorrectAnswer = *u.CorrectAnswer
	}
	if u.Explanation != nil {
		q.Explanation = *u.Explanation
	}
	if u.Points != nil {
		q.Points = *u.Points
	}
}

type SubmitQuiz struct {
	Answers   map[string]any `json:"answers" validate:"required"`
	TimeTaken int            `json:"time_taken" validate:"min=0"`
}
