package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/furkangunes-ai/video-editing-course-web/config"
	"github.com/furkangunes-ai/video-editing-course-web/models"
	"github.com/furkangunes-ai/video-editing-course-web/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizzesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewQuizzesController(db *gorm.DB, cfg *config.Config) *QuizzesController {
	return &QuizzesController{DB: db, Cfg: cfg}
}

// questionMap hides the correct answer and explanation unless the
// caller is allowed to see them (admin views, post-grading detail).
func questionMap(q models.QuizQuestion, includeAnswer bool) fiber.Map {
	m := fiber.Map{
		"id":            q.ID,
		"question_text": q.QuestionText,
		"option_a":      q.OptionA,
		"option_b":      q.OptionB,
		"option_c":      q.OptionC,
		"option_d":      q.OptionD,
		"order":         q.Order,
	}
	if includeAnswer {
		m["correct_answer"] = q.CorrectAnswer
		m["explanation"] = q.Explanation
	} else {
		m["correct_answer"] = nil
		m["explanation"] = nil
	}
	return m
}

func quizMap(quiz models.Quiz, includeAnswers bool) fiber.Map {
	questions := make([]fiber.Map, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, questionMap(q, includeAnswers))
	}
	return fiber.Map{
		"id":            quiz.ID,
		"course_id":     quiz.CourseID,
		"title":         quiz.Title,
		"description":   quiz.Description,
		"passing_score": quiz.PassingScore,
		"order":         quiz.Order,
		"is_published":  quiz.IsPublished,
		"created_at":    quiz.CreatedAt,
		"questions":     questions,
	}
}

func (qc *QuizzesController) contentTitle(content models.CourseContent) string {
	if content.ContentType == models.ContentTypeLesson {
		var lesson models.Lesson
		if err := qc.DB.First(&lesson, content.ContentID).Error; err == nil {
			return lesson.Title
		}
		return "Ders"
	}
	var quiz models.Quiz
	if err := qc.DB.First(&quiz, content.ContentID).Error; err == nil {
		return quiz.Title
	}
	return "Quiz"
}

func (qc *QuizzesController) contentsResponse(contents []models.CourseContent) []fiber.Map {
	result := make([]fiber.Map, 0, len(contents))
	for _, content := range contents {
		result = append(result, fiber.Map{
			"id":           content.ID,
			"content_type": content.ContentType,
			"content_id":   content.ContentID,
			"order":        content.Order,
			"title":        qc.contentTitle(content),
		})
	}
	return result
}

func (qc *QuizzesController) GetCourseQuizzes(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var quizzes []models.Quiz
	err = qc.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\"")
	}).Where("course_id = ? AND is_published = ?", courseID, true).
		Order("\"order\"").Find(&quizzes).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := make([]fiber.Map, 0, len(quizzes))
	for _, quiz := range quizzes {
		result = append(result, quizMap(quiz, false))
	}
	return c.JSON(result)
}

func (qc *QuizzesController) GetCourseContents(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	contents, err := services.EnsureCourseContents(qc.DB, uint(courseID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(qc.contentsResponse(contents))
}

func (qc *QuizzesController) GetQuiz(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	var quiz models.Quiz
	err = qc.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\"")
	}).First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Quiz bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(quizMap(quiz, false))
}

func (qc *QuizzesController) SubmitQuiz(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	var input struct {
		Answers map[string]string `json:"answers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Answers == nil {
		input.Answers = map[string]string{}
	}

	var quiz models.Quiz
	err = qc.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\"")
	}).First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Quiz bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := services.GradeQuiz(&quiz, input.Answers)

	answersJSON, err := json.Marshal(input.Answers)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not encode answers",
		})
	}

	attempt := models.QuizAttempt{
		UserID:  userID,
		QuizID:  quiz.ID,
		Score:   result.Score,
		Passed:  result.Passed,
		Answers: datatypes.JSON(answersJSON),
	}
	if err := qc.DB.Create(&attempt).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save attempt",
		})
	}

	return c.JSON(result)
}

func (qc *QuizzesController) GetMyAttempts(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var attempts []models.QuizAttempt
	err := qc.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&attempts).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := make([]fiber.Map, 0, len(attempts))
	for _, attempt := range attempts {
		quizTitle := "Quiz"
		var quiz models.Quiz
		if err := qc.DB.First(&quiz, attempt.QuizID).Error; err == nil {
			quizTitle = quiz.Title
		}
		result = append(result, fiber.Map{
			"id":           attempt.ID,
			"quiz_id":      attempt.QuizID,
			"quiz_title":   quizTitle,
			"score":        attempt.Score,
			"passed":       attempt.Passed,
			"completed_at": attempt.CreatedAt,
		})
	}
	return c.JSON(result)
}

func (qc *QuizzesController) AdminListQuizzes(c *fiber.Ctx) error {
	var quizzes []models.Quiz
	err := qc.DB.Preload("Questions").Order("course_id, \"order\"").Find(&quizzes).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := make([]fiber.Map, 0, len(quizzes))
	for _, quiz := range quizzes {
		courseTitle := "Bilinmiyor"
		var course models.Course
		if err := qc.DB.First(&course, quiz.CourseID).Error; err == nil {
			courseTitle = course.Title
		}
		result = append(result, fiber.Map{
			"id":             quiz.ID,
			"course_id":      quiz.CourseID,
			"course_title":   courseTitle,
			"title":          quiz.Title,
			"description":    quiz.Description,
			"passing_score":  quiz.PassingScore,
			"order":          quiz.Order,
			"is_published":   quiz.IsPublished,
			"question_count": len(quiz.Questions),
			"created_at":     quiz.CreatedAt,
		})
	}
	return c.JSON(result)
}

func (qc *QuizzesController) AdminGetQuiz(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	var quiz models.Quiz
	err = qc.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\"")
	}).First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Quiz bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(quizMap(quiz, true))
}

func (qc *QuizzesController) CreateQuiz(c *fiber.Ctx) error {
	var input struct {
		CourseID     uint   `json:"course_id"`
		Title        string `json:"title"`
		Description  string `json:"description"`
		PassingScore int    `json:"passing_score"`
		Order        int    `json:"order"`
		IsPublished  bool   `json:"is_published"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var course models.Course
	if err := qc.DB.First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Kurs bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.PassingScore == 0 {
		input.PassingScore = 70
	}

	quiz := models.Quiz{
		CourseID:     input.CourseID,
		Title:        input.Title,
		Description:  input.Description,
		PassingScore: input.PassingScore,
		Order:        input.Order,
		IsPublished:  input.IsPublished,
	}
	if err := qc.DB.Create(&quiz).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create quiz",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Quiz oluşturuldu",
		"quiz":    quizMap(quiz, true),
	})
}

func (qc *QuizzesController) UpdateQuiz(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	var input struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		PassingScore int    `json:"passing_score"`
		Order        int    `json:"order"`
		IsPublished  bool   `json:"is_published"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var quiz models.Quiz
	if err := qc.DB.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Quiz bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	quiz.Title = input.Title
	quiz.Description = input.Description
	quiz.PassingScore = input.PassingScore
	quiz.Order = input.Order
	quiz.IsPublished = input.IsPublished

	if err := qc.DB.Save(&quiz).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update quiz",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Quiz güncellendi",
		"quiz":    quizMap(quiz, true),
	})
}

func (qc *QuizzesController) DeleteQuiz(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	var quiz models.Quiz
	if err := qc.DB.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Quiz bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	err = qc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&quiz).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete quiz",
		})
	}

	return c.JSON(fiber.Map{"message": "Quiz silindi"})
}

func (qc *QuizzesController) AddQuestion(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	var quiz models.Quiz
	if err := qc.DB.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Quiz bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		QuestionText  string `json:"question_text"`
		OptionA       string `json:"option_a"`
		OptionB       string `json:"option_b"`
		OptionC       string `json:"option_c"`
		OptionD       string `json:"option_d"`
		CorrectAnswer string `json:"correct_answer"`
		Explanation   string `json:"explanation"`
		Order         int    `json:"order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	question := models.QuizQuestion{
		QuizID:        uint(quizID),
		QuestionText:  input.QuestionText,
		OptionA:       input.OptionA,
		OptionB:       input.OptionB,
		OptionC:       input.OptionC,
		OptionD:       input.OptionD,
		CorrectAnswer: input.CorrectAnswer,
		Explanation:   input.Explanation,
		Order:         input.Order,
	}
	if err := qc.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create question",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Soru eklendi",
		"question": questionMap(question, true),
	})
}

func (qc *QuizzesController) UpdateQuestion(c *fiber.Ctx) error {
	questionID, err := strconv.Atoi(c.Params("questionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID",
		})
	}

	var question models.QuizQuestion
	if err := qc.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Soru bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		QuestionText  string `json:"question_text"`
		OptionA       string `json:"option_a"`
		OptionB       string `json:"option_b"`
		OptionC       string `json:"option_c"`
		OptionD       string `json:"option_d"`
		CorrectAnswer string `json:"correct_answer"`
		Explanation   string `json:"explanation"`
		Order         int    `json:"order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	question.QuestionText = input.QuestionText
	question.OptionA = input.OptionA
	question.OptionB = input.OptionB
	question.OptionC = input.OptionC
	question.OptionD = input.OptionD
	question.CorrectAnswer = input.CorrectAnswer
	question.Explanation = input.Explanation
	question.Order = input.Order

	if err := qc.DB.Save(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update question",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Soru güncellendi",
		"question": questionMap(question, true),
	})
}

func (qc *QuizzesController) DeleteQuestion(c *fiber.Ctx) error {
	questionID, err := strconv.Atoi(c.Params("questionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID",
		})
	}

	var question models.QuizQuestion
	if err := qc.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Soru bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := qc.DB.Delete(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete question",
		})
	}

	return c.JSON(fiber.Map{"message": "Soru silindi"})
}

func (qc *QuizzesController) AdminGetCourseContents(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	contents, err := services.EnsureCourseContents(qc.DB, uint(courseID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(qc.contentsResponse(contents))
}

func (qc *QuizzesController) ReorderContents(c *fiber.Ctx) error {
	var input struct {
		CourseID uint                        `json:"course_id"`
		Items    []services.ContentOrderItem `json:"items"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if err := services.ReorderContents(qc.DB, input.CourseID, input.Items); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not reorder contents",
		})
	}

	return c.JSON(fiber.Map{"message": "Sıralama güncellendi"})
}
