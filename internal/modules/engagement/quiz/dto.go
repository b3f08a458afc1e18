package quiz

import (
	"strings"

	"github.com/agorahq/core/internal/models"
	"github.com/agorahq/core/internal/pkg/validate"
)

// QuestionDTO is one multiple-choice question in a quiz definition.
type QuestionDTO struct {
	Prompt      string   `json:"prompt" binding:"required,min=5,max=500"`
	Choices     []string `json:"choices" binding:"required,min=2,max=6,dive,required,max=200"`
	AnswerIndex int      `json:"answer_index"`
}

// QuizDTO creates or updates a quiz with its questions.
type QuizDTO struct {
	Title       string        `json:"title" binding:"required,min=1,max=200"`
	Description string        `json:"description"`
	Questions   []QuestionDTO `json:"questions" binding:"required,min=1,dive"`
	IsPublished *bool         `json:"is_published"`
}

func (d *QuizDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	for i := range d.Questions {
		d.Questions[i].Prompt = strings.TrimSpace(d.Questions[i].Prompt)
		for j, choice := range d.Questions[i].Choices {
			d.Questions[i].Choices[j] = strings.TrimSpace(choice)
		}
	}
}

// Validate checks what binding tags cannot express: each answer index must
// point into its own choice list.
func (d QuizDTO) Validate() validate.FieldErrors {
	errs := validate.FieldErrors{}
	for _, q := range d.Questions {
		if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Choices) {
			errs.Add("questions", "answer_index must point to one of the choices")
			break
		}
	}
	return errs
}

func (d QuizDTO) Published() bool {
	return d.IsPublished != nil && *d.IsPublished
}

// SubmitDTO is a public quiz attempt. Answers maps question position to the
// chosen index; email is optional.
type SubmitDTO struct {
	Email   string `json:"email"`
	Answers []int  `json:"answers" binding:"required,min=1"`
}

func (d *SubmitDTO) Normalize() {
	d.Email = validate.NormalizeEmail(d.Email)
}

func (d SubmitDTO) Validate() validate.FieldErrors {
	errs := validate.FieldErrors{}
	if d.Email != "" && !validate.IsEmail(d.Email) {
		errs.Add("email", "must be a valid email address")
	}
	return errs
}

// publicQuestion hides the answer index from players.
type publicQuestion struct {
	ID       string   `json:"id"`
	Prompt   string   `json:"prompt"`
	Choices  []string `json:"choices"`
	Position int      `json:"position"`
}

type publicQuiz struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Questions   []publicQuestion `json:"questions"`
}

func toPublicQuiz(q *models.QuizModel) publicQuiz {
	questions := make([]publicQuestion, 0, len(q.Questions))
	for _, question := range q.Questions {
		questions = append(questions, publicQuestion{
			ID:       question.ID,
			Prompt:   question.Prompt,
			Choices:  question.Choices,
			Position: question.Position,
		})
	}
	return publicQuiz{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Questions:   questions,
	}
}

// scoreResult is the graded attempt returned to the player.
type scoreResult struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
	Results []bool  `json:"results"`
}
