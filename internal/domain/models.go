package domain

import "time"

// OptionCount is the fixed number of options every question carries.
const OptionCount = 4

// SecondsPerQuestion is the default time budget granted per question.
const SecondsPerQuestion = 60

// Question is a four-option multiple-choice question. Option identity is its
// index; CorrectAnswer indexes into Options.
type Question struct {
	Text          string   `json:"questionText" bson:"questionText"`
	Options       []string `json:"options" bson:"options"`
	CorrectAnswer int      `json:"correctAnswer" bson:"correctAnswer"`
}

// Exam is a named, ordered collection of questions. Question order defines
// both display order and index-based answer keying.
type Exam struct {
	ID        string     `json:"id" bson:"_id"`
	Name      string     `json:"name" bson:"name"`
	Questions []Question `json:"questions" bson:"questions"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}

// AnswerRecord is the per-question breakdown stored on a Result. UserAnswer
// is omitted when the question was left unanswered.
type AnswerRecord struct {
	QuestionText  string `json:"questionText" bson:"questionText"`
	UserAnswer    string `json:"userAnswer,omitempty" bson:"userAnswer,omitempty"`
	CorrectAnswer string `json:"correctAnswer" bson:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect" bson:"isCorrect"`
}

// Result is an immutable record of one student's attempt at one exam.
// ExamName is a snapshot of the exam name at submission time; renaming the
// exam later must not rewrite it.
type Result struct {
	ID             string         `json:"id" bson:"_id"`
	StudentName    string         `json:"studentName" bson:"studentName"`
	StudentEmail   string         `json:"studentEmail" bson:"studentEmail"`
	ExamID         string         `json:"examId" bson:"examId"`
	ExamName       string         `json:"examName" bson:"examName"`
	Score          int            `json:"score" bson:"score"`
	TotalQuestions int            `json:"totalQuestions" bson:"totalQuestions"`
	Percentage     int            `json:"percentage" bson:"percentage"`
	TimeTaken      int            `json:"timeTaken" bson:"timeTaken"`
	Answers        []AnswerRecord `json:"answers" bson:"answers"`
	CreatedAt      time.Time      `json:"createdAt" bson:"createdAt"`
}

// ScoreResult is the outcome of scoring one answer set against an exam.
type ScoreResult struct {
	Correct    int            `json:"correct"`
	Total      int            `json:"total"`
	Percentage int            `json:"percentage"`
	Breakdown  []AnswerRecord `json:"breakdown"`
}

// RankedResult pairs a result with its position on the owning exam's
// leaderboard. Rank is derived on read and never stored; it can shift
// retroactively as later results land.
type RankedResult struct {
	Result
	Rank              int `json:"rank"`
	TotalParticipants int `json:"totalParticipants"`
}

// TimeBudget returns the attempt time budget for an exam in seconds, given
// the configured per-question allowance.
func (e Exam) TimeBudget(secondsPerQuestion int) int {
	if secondsPerQuestion <= 0 {
		secondsPerQuestion = SecondsPerQuestion
	}
	return len(e.Questions) * secondsPerQuestion
}
