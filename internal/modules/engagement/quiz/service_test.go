package quiz

import (
	"fmt"
	"testing"

	"github.com/agorahq/core/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func publishedQuiz() QuizDTO {
	published := true
	return QuizDTO{
		Title: "EU-ismereti kvíz",
		Questions: []QuestionDTO{
			{Prompt: "Hány tagállama van az EU-nak?", Choices: []string{"25", "27", "30"}, AnswerIndex: 1},
			{Prompt: "Hol ülésezik az Európai Parlament?", Choices: []string{"Brüsszel és Strasbourg", "Bécs"}, AnswerIndex: 0},
		},
		IsPublished: &published,
	}
}

func TestScore(t *testing.T) {
	svc := NewService(newTestDB(t))
	quiz, err := svc.Create(publishedQuiz())
	require.NoError(t, err)

	result, err := svc.Score(quiz.ID, SubmitDTO{Answers: []int{1, 1}})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, []bool{true, false}, result.Results)
}

func TestScoreRecordsSubmission(t *testing.T) {
	svc := NewService(newTestDB(t))
	quiz, err := svc.Create(publishedQuiz())
	require.NoError(t, err)

	_, err = svc.Score(quiz.ID, SubmitDTO{Email: "anna@example.com", Answers: []int{1, 0}})
	require.NoError(t, err)

	subs, err := svc.Submissions(quiz.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "anna@example.com", subs[0].Email)
	assert.Equal(t, 2, subs[0].Correct)
}

func TestScoreAnswerCountMismatch(t *testing.T) {
	svc := NewService(newTestDB(t))
	quiz, err := svc.Create(publishedQuiz())
	require.NoError(t, err)

	_, err = svc.Score(quiz.ID, SubmitDTO{Answers: []int{1}})
	assert.ErrorIs(t, err, ErrAnswerCount)
}

func TestPublicViewHidesAnswers(t *testing.T) {
	svc := NewService(newTestDB(t))
	quiz, err := svc.Create(publishedQuiz())
	require.NoError(t, err)

	public := toPublicQuiz(quiz)
	require.Len(t, public.Questions, 2)
	assert.Equal(t, "Hány tagállama van az EU-nak?", public.Questions[0].Prompt)
	assert.Len(t, public.Questions[0].Choices, 3)
}

func TestQuizDTOAnswerIndexValidation(t *testing.T) {
	dto := publishedQuiz()
	dto.Questions[0].AnswerIndex = 5
	assert.Contains(t, dto.Validate(), "questions")

	valid := publishedQuiz()
	assert.True(t, valid.Validate().OK())
}

func TestUpdateReplacesQuestions(t *testing.T) {
	svc := NewService(newTestDB(t))
	quiz, err := svc.Create(publishedQuiz())
	require.NoError(t, err)

	dto := publishedQuiz()
	dto.Questions = []QuestionDTO{
		{Prompt: "Mikor csatlakozott Magyarország az EU-hoz?", Choices: []string{"2004", "2007"}, AnswerIndex: 0},
	}
	updated, err := svc.Update(quiz.ID, dto)
	require.NoError(t, err)
	require.Len(t, updated.Questions, 1)

	result, err := svc.Score(quiz.ID, SubmitDTO{Answers: []int{0}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Correct)
}
