package services

import (
	"strconv"
	"strings"

	"github.com/furkangunes-ai/video-editing-course-web/models"
)

type QuestionResult struct {
	QuestionID    uint   `json:"question_id"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
}

type GradeResult struct {
	Score          int              `json:"score"`
	Passed         bool             `json:"passed"`
	TotalQuestions int              `json:"total_questions"`
	CorrectAnswers int              `json:"correct_answers"`
	Results        []QuestionResult `json:"results"`
}

// GradeQuiz compares submitted letters against the stored answers,
// case-insensitively. Answers are keyed by the question id rendered
// as a decimal string; a missing answer grades as incorrect. A quiz
// with no questions scores 0.
func GradeQuiz(quiz *models.Quiz, answers map[string]string) GradeResult {
	total := len(quiz.Questions)
	correct := 0
	results := make([]QuestionResult, 0, total)

	for _, question := range quiz.Questions {
		userAnswer := answers[strconv.FormatUint(uint64(question.ID), 10)]
		isCorrect := userAnswer != "" &&
			strings.EqualFold(userAnswer, question.CorrectAnswer)
		if isCorrect {
			correct++
		}

		results = append(results, QuestionResult{
			QuestionID:    question.ID,
			UserAnswer:    userAnswer,
			CorrectAnswer: question.CorrectAnswer,
			IsCorrect:     isCorrect,
			Explanation:   question.Explanation,
		})
	}

	score := 0
	if total > 0 {
		score = correct * 100 / total
	}

	return GradeResult{
		Score:          score,
		Passed:         score >= quiz.PassingScore,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Results:        results,
	}
}
