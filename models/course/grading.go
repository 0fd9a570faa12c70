package course

import (
	"encoding/json"
	"math"
	"strings"
	"time"
	"unicode"
)

// MissingAnswers counts quiz questions with no entry in answers. Extra keys are ignored.
func MissingAnswers(q *Quiz, answers map[string]any) int {
	missing := 0
	for _, question := range q.Questions {
		if _, ok := answers[question.ID.String()]; !ok {
			missing++
		}
	}
	return missing
}

// Grade scores answers against the quiz. answers must cover every question.
func Grade(q *Quiz, answers map[string]any, timeTaken int, attemptNumber int, now time.Time) QuizAttempt {
	graded := make([]AttemptAnswer, 0, len(q.Questions))
	correct := 0
	for _, question := range q.Questions {
		selected, ok := ParseOptionIndex(answers[question.ID.String()])
		answer := AttemptAnswer{QuestionID: question.ID}
		if ok {
			answer.SelectedOption = &selected
			answer.IsCorrect = selected == question.CorrectAnswer
		}
		if answer.IsCorrect {
			correct++
		}
		graded = append(graded, answer)
	}
	score := Percent(correct, len(q.Questions))
	return QuizAttempt{
		AttemptDate:   now,
		Score:         score,
		Passed:        score >= q.PassingScore,
		Answers:       graded,
		TimeTaken:     timeTaken,
		AttemptNumber: attemptNumber,
	}
}

// ParseOptionIndex reads the leading integer of an answer the way clients send it: JSON
// numbers (truncated), numeric strings, or strings with a numeric prefix such as "2abc".
func ParseOptionIndex(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		return parseIntPrefix(t.String())
	case string:
		return parseIntPrefix(t)
	default:
		return 0, false
	}
}

func parseIntPrefix(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		if n > math.MaxInt32 {
			break
		}
		n = n*10 + int(s[digits]-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
