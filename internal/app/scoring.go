package app

import (
	"math"

	"exam-portal-service/internal/domain"
)

// Score grades an answer set against an exam. answers maps question index to
// selected option index; a question with no entry is scored as incorrect,
// never as an error. Pure computation, no side effects.
func Score(exam domain.Exam, answers map[int]int) domain.ScoreResult {
	breakdown := make([]domain.AnswerRecord, 0, len(exam.Questions))
	correct := 0
	for i, q := range exam.Questions {
		record := domain.AnswerRecord{
			QuestionText:  q.Text,
			CorrectAnswer: q.Options[q.CorrectAnswer],
		}
		if sel, ok := answers[i]; ok && sel >= 0 && sel < len(q.Options) {
			record.UserAnswer = q.Options[sel]
			record.IsCorrect = sel == q.CorrectAnswer
		}
		if record.IsCorrect {
			correct++
		}
		breakdown = append(breakdown, record)
	}
	return domain.ScoreResult{
		Correct:    correct,
		Total:      len(exam.Questions),
		Percentage: percentage(correct, len(exam.Questions)),
		Breakdown:  breakdown,
	}
}

// Rescore rebuilds the breakdown and scalar fields from a client-submitted
// breakdown, trusting only the selected answer texts. Correctness, score and
// percentage come from the exam definition; entries beyond the question list
// are ignored and missing entries count as unanswered.
func Rescore(exam domain.Exam, submitted []domain.AnswerRecord) domain.ScoreResult {
	breakdown := make([]domain.AnswerRecord, 0, len(exam.Questions))
	correct := 0
	for i, q := range exam.Questions {
		record := domain.AnswerRecord{
			QuestionText:  q.Text,
			CorrectAnswer: q.Options[q.CorrectAnswer],
		}
		if i < len(submitted) && submitted[i].UserAnswer != "" {
			record.UserAnswer = submitted[i].UserAnswer
			record.IsCorrect = record.UserAnswer == record.CorrectAnswer
		}
		if record.IsCorrect {
			correct++
		}
		breakdown = append(breakdown, record)
	}
	return domain.ScoreResult{
		Correct:    correct,
		Total:      len(exam.Questions),
		Percentage: percentage(correct, len(exam.Questions)),
		Breakdown:  breakdown,
	}
}

// percentage rounds half-up to the nearest integer. Zero-question exams are
// rejected at creation time, so total is always positive here.
func percentage(correct, total int) int {
	return int(math.Round(float64(correct*100) / float64(total)))
}

// clampTime bounds a reported elapsed time to [0, budget] seconds.
func clampTime(seconds, budget int) int {
	if seconds < 0 {
		return 0
	}
	if seconds > budget {
		return budget
	}
	return seconds
}
