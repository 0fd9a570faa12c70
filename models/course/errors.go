package course

import "fmt"

type ErrorKind string

const (
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindNotEnrolled          ErrorKind = "NOT_ENROLLED"
	KindAlreadyEnrolled      ErrorKind = "ALREADY_ENROLLED"
	KindNotApproved          ErrorKind = "NOT_APPROVED"
	KindQuizIncomplete       ErrorKind = "QUIZ_INCOMPLETE"
	KindMissingAnswers       ErrorKind = "MISSING_ANSWERS"
	KindNoAttempts           ErrorKind = "NO_ATTEMPTS"
	KindCertificateNotEarned ErrorKind = "CERTIFICATE_NOT_EARNED"
	KindAttemptsExhausted    ErrorKind = "ATTEMPTS_EXHAUSTED"
	KindForbidden            ErrorKind = "FORBIDDEN"
	KindValidation           ErrorKind = "VALIDATION_ERROR"
	KindConflict             ErrorKind = "CONFLICT"
)

// Error is a domain failure the HTTP layer can map to a status code.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Missing int
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Code so wrapped copies still compare equal to the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrCourseNotFound       = &Error{Kind: KindNotFound, Code: "COURSE_NOT_FOUND", Message: "Course not found!"}
	ErrLessonNotFound       = &Error{Kind: KindNotFound, Code: "LESSON_NOT_FOUND", Message: "Lesson not found!"}
	ErrQuizNotFound         = &Error{Kind: KindNotFound, Code: "QUIZ_NOT_FOUND", Message: "Quiz not found!"}
	ErrQuestionNotFound     = &Error{Kind: KindNotFound, Code: "QUESTION_NOT_FOUND", Message: "Question not found!"}
	ErrCertificateNotFound  = &Error{Kind: KindNotFound, Code: "CERTIFICATE_NOT_FOUND", Message: "Certificate not found!"}
	ErrUserNotFound         = &Error{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "User not found!"}
	ErrNotEnrolled          = &Error{Kind: KindNotEnrolled, Code: "NOT_ENROLLED", Message: "You are not enrolled in this course!"}
	ErrAlreadyEnrolled      = &Error{Kind: KindAlreadyEnrolled, Code: "ALREADY_ENROLLED", Message: "Already enrolled in this course!"}
	ErrNotApproved          = &Error{Kind: KindNotApproved, Code: "COURSE_NOT_APPROVED", Message: "Course is not yet approved!"}
	ErrQuizIncomplete       = &Error{Kind: KindQuizIncomplete, Code: "QUIZ_INCOMPLETE", Message: "Complete all lessons before taking the quiz!"}
	ErrMissingAnswers       = &Error{Kind: KindMissingAnswers, Code: "MISSING_ANSWERS", Message: "Please answer all questions!"}
	ErrNoAttempts           = &Error{Kind: KindNoAttempts, Code: "NO_ATTEMPTS", Message: "No quiz attempts found!"}
	ErrCertificateNotEarned = &Error{Kind: KindCertificateNotEarned, Code: "CERTIFICATE_NOT_EARNED", Message: "Certificate not earned yet!"}
	ErrAttemptsExhausted    = &Error{Kind: KindAttemptsExhausted, Code: "ATTEMPTS_EXHAUSTED", Message: "No quiz attempts remaining!"}
	ErrForbidden            = &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: "You do not have permission to modify this course!"}
	ErrValidation           = &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: "Validation failed!"}
	ErrQuizExists           = &Error{Kind: KindConflict, Code: "QUIZ_EXISTS", Message: "Quiz already exists for this course!"}
	ErrConflict             = &Error{Kind: KindConflict, Code: "CONFLICT", Message: "The record was modified concurrently, please retry!"}
)

func NewMissingAnswersError(missing int) *Error {
	return &Error{
		Kind:    KindMissingAnswers,
		Code:    ErrMissingAnswers.Code,
		Message: fmt.Sprintf("Please answer all questions! %d unanswered.", missing),
		Missing: missing,
	}
}

func NewValidationError(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: ErrValidation.Code, Message: ErrValidation.Message, Fields: fields}
}
