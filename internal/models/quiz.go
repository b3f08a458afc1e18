package models

// QuizModel is a civic-education quiz.
type QuizModel struct {
	Base
	Title       string `json:"title"        gorm:"not null"`
	Description string `json:"description"`
	IsPublished bool   `json:"is_published" gorm:"default:false;index"`

	Questions []QuizQuestionModel `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

func (QuizModel) TableName() string { return "quizzes" }

// QuizQuestionModel is one multiple-choice question. AnswerIndex points into
// Choices and is never exposed on public payloads.
type QuizQuestionModel struct {
	Base
	QuizID      string      `json:"quiz_id"  gorm:"index;not null"`
	Prompt      string      `json:"prompt"   gorm:"not null"`
	Choices     StringArray `json:"choices"  gorm:"type:json"`
	AnswerIndex int         `json:"-"        gorm:"default:0"`
	Position    int         `json:"position" gorm:"default:0"`
}

func (QuizQuestionModel) TableName() string { return "quiz_questions" }

// QuizSubmissionModel records a scored quiz attempt for the back-office.
type QuizSubmissionModel struct {
	Base
	QuizID  string `json:"quiz_id" gorm:"index;not null"`
	Email   string `json:"email"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

func (QuizSubmissionModel) TableName() string { return "quiz_submissions" }
