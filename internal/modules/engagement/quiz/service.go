package quiz

import (
	"errors"

	"github.com/agorahq/core/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("quiz not found")
	ErrAnswerCount = errors.New("answer count does not match question count")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(dto QuizDTO) (*models.QuizModel, error) {
	quiz := models.QuizModel{
		Title:       dto.Title,
		Description: dto.Description,
		IsPublished: dto.Published(),
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		return createQuestions(tx, quiz.ID, dto.Questions)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(quiz.ID)
}

// Update rewrites the quiz and replaces its question set.
func (s *Service) Update(id string, dto QuizDTO) (*models.QuizModel, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"title":        dto.Title,
			"description":  dto.Description,
			"is_published": dto.Published(),
		}
		if err := tx.Model(&models.QuizModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.QuizQuestionModel{}, "quiz_id = ?", id).Error; err != nil {
			return err
		}
		return createQuestions(tx, id, dto.Questions)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *Service) Get(id string) (*models.QuizModel, error) {
	var quiz models.QuizModel
	if err := s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&quiz, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

func (s *Service) List(includeDrafts bool) ([]models.QuizModel, error) {
	query := s.db.Model(&models.QuizModel{}).Order("created_at DESC")
	if !includeDrafts {
		query = query.Where("is_published = ?", true)
	}
	var quizzes []models.QuizModel
	if err := query.Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (s *Service) Delete(id string) error {
	quiz, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.QuizSubmissionModel{}, "quiz_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.QuizQuestionModel{}, "quiz_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(quiz).Error
	})
}

// Score grades an attempt against the stored answer keys and records the
// submission.
func (s *Service) Score(quizID string, dto SubmitDTO) (*scoreResult, error) {
	quiz, err := s.Get(quizID)
	if err != nil {
		return nil, err
	}
	if len(dto.Answers) != len(quiz.Questions) {
		return nil, ErrAnswerCount
	}

	result := scoreResult{
		Total:   len(quiz.Questions),
		Results: make([]bool, len(quiz.Questions)),
	}
	for i, question := range quiz.Questions {
		if dto.Answers[i] == question.AnswerIndex {
			result.Correct++
			result.Results[i] = true
		}
	}
	if result.Total > 0 {
		result.Percent = float64(result.Correct) / float64(result.Total) * 100
	}

	submission := models.QuizSubmissionModel{
		QuizID:  quizID,
		Email:   dto.Email,
		Correct: result.Correct,
		Total:   result.Total,
	}
	if err := s.db.Create(&submission).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// Submissions lists attempts for the back-office, newest first.
func (s *Service) Submissions(quizID string) ([]models.QuizSubmissionModel, error) {
	if _, err := s.Get(quizID); err != nil {
		return nil, err
	}
	var subs []models.QuizSubmissionModel
	if err := s.db.Where("quiz_id = ?", quizID).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func createQuestions(tx *gorm.DB, quizID string, questions []QuestionDTO) error {
	for i, q := range questions {
		question := models.QuizQuestionModel{
			QuizID:      quizID,
			Prompt:      q.Prompt,
			Choices:     q.Choices,
			AnswerIndex: q.AnswerIndex,
			Position:    i,
		}
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
	}
	return nil
}
