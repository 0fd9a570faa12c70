package controllers

import (
	"lms/middleware"
	"lms/models/course"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) QuizForStudent(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	quiz, err := h.learning.GetQuizForStudent(c.UserContext(), paramID(c, "course_id"), userID)
	if err != nil {
		return h.fail(c, "quiz for student", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", quiz)
}

func (h *Handler) QuizOverview(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	overview, err := h.learning.GetQuizOverview(c.UserContext(), paramID(c, "course_id"), userID)
	if err != nil {
		return h.fail(c, "quiz overview", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz overview fetched successfully!", overview)
}

func (h *Handler) SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	reqData := c.Locals("validatedSubmission").(*course.SubmitQuiz)

	result, err := h.learning.AttemptQuiz(c.UserContext(), paramID(c, "course_id"), userID, reqData.Answers, reqData.TimeTaken)
	if err != nil {
		return h.fail(c, "submit quiz", err)
	}
	message := "Quiz submitted. Keep trying!"
	if result.Passed {
		message = "Congratulations! You passed the quiz!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

func (h *Handler) QuizResults(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	index := -1
	if reqData, ok := c.Locals("validatedResults").(*courseValidator.ResultsQuery); ok && reqData.Attempt != nil {
		index = *reqData.Attempt
	}
	result, err := h.learning.GetQuizResults(c.UserContext(), paramID(c, "course_id"), userID, index)
	if err != nil {
		return h.fail(c, "quiz results", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz results fetched successfully!", result)
}

func (h *Handler) CreateQuiz(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	reqData := c.Locals("validatedQuiz").(*course.NewQuiz)
	quiz, err := h.learning.CreateQuiz(c.UserContext(), actor, paramID(c, "course_id"), *reqData)
	if err != nil {
		return h.fail(c, "create quiz", err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}

func (h *Handler) AuthorQuiz(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	quiz, err := h.learning.GetAuthorQuiz(c.UserContext(), actor, paramID(c, "course_id"))
	if err != nil {
		return h.fail(c, "author quiz", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", quiz)
}

func (h *Handler) UpdateQuiz(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	reqData := c.Locals("validatedQuizUpdate").(*course.UpdateQuiz)
	quiz, err := h.learning.UpdateQuiz(c.UserContext(), actor, paramID(c, "quiz_id"), *reqData)
	if err != nil {
		return h.fail(c, "update quiz", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", quiz)
}

func (h *Handler) AddQuestions(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	reqData := c.Locals("validatedQuestions").(*courseValidator.QuestionList)
	quiz, err := h.learning.AddQuestions(c.UserContext(), actor, paramID(c, "quiz_id"), reqData.Questions)
	if err != nil {
		return h.fail(c, "add questions", err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Questions added successfully!", quiz)
}

func (h *Handler) UpdateQuestion(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	reqData := c.Locals("validatedQuestion").(*course.UpdateQuestion)
	quiz, err := h.learning.UpdateQuestion(c.UserContext(), actor, paramID(c, "quiz_id"), paramID(c, "question_id"), *reqData)
	if err != nil {
		return h.fail(c, "update question", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated successfully!", quiz)
}

func (h *Handler) DeleteQuestion(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	quiz, err := h.learning.DeleteQuestion(c.UserContext(), actor, paramID(c, "quiz_id"), paramID(c, "question_id"))
	if err != nil {
		return h.fail(c, "delete question", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", quiz)
}

func (h *Handler) QuizStats(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	stats, err := h.learning.QuizStats(c.UserContext(), actor, paramID(c, "quiz_id"))
	if err != nil {
		return h.fail(c, "quiz stats", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz statistics fetched successfully!", stats)
}
