package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"exam-portal-service/internal/domain"
)

// ResultSubmission is a client-reported exam outcome. The scalar score
// fields are advisory: the service recomputes them from the exam definition
// and only trusts the selected answer texts.
type ResultSubmission struct {
	StudentName    string                `json:"studentName" validate:"required"`
	StudentEmail   string                `json:"studentEmail" validate:"required,email"`
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"totalQuestions"`
	Percentage     int                   `json:"percentage"`
	TimeTaken      int                   `json:"timeTaken"`
	Answers        []domain.AnswerRecord `json:"answers"`
}

// SubmitResult records one attempt's outcome for an exam. The exam must
// exist; the exam name is snapshotted onto the result so later renames do not
// rewrite history. Score, percentage and correctness flags are recomputed
// server-side and the reported time is clamped to the exam's budget.
func (s *Service) SubmitResult(ctx context.Context, examID string, sub ResultSubmission) (domain.Result, error) {
	if strings.TrimSpace(sub.StudentName) == "" {
		return domain.Result{}, domain.Invalid("studentName", "student name is required")
	}
	if strings.TrimSpace(sub.StudentEmail) == "" {
		return domain.Result{}, domain.Invalid("studentEmail", "student email is required")
	}

	exam, err := s.exams.Get(ctx, examID)
	if err != nil {
		return domain.Result{}, err
	}

	score := Rescore(exam, sub.Answers)
	result := domain.Result{
		ID:             uuid.NewString(),
		StudentName:    strings.TrimSpace(sub.StudentName),
		StudentEmail:   strings.ToLower(strings.TrimSpace(sub.StudentEmail)),
		ExamID:         exam.ID,
		ExamName:       exam.Name,
		Score:          score.Correct,
		TotalQuestions: score.Total,
		Percentage:     score.Percentage,
		TimeTaken:      clampTime(sub.TimeTaken, exam.TimeBudget(s.secondsPerQuestion)),
		Answers:        score.Breakdown,
		CreatedAt:      s.now(),
	}
	if err := s.results.Insert(ctx, result); err != nil {
		return domain.Result{}, fmt.Errorf("insert result: %w", err)
	}

	s.boards.Invalidate(ctx, exam.ID)
	s.publishBoard(ctx, exam.ID)
	return result, nil
}

// Leaderboard returns the ranked ordering of all results for one exam:
// score desc, timeTaken asc, stable for full ties. The exam must exist.
func (s *Service) Leaderboard(ctx context.Context, examID string) ([]domain.Result, error) {
	if _, err := s.exams.Get(ctx, examID); err != nil {
		return nil, err
	}
	return s.boards.Leaderboard(ctx, examID)
}

// ResetResults bulk-deletes every result for an exam and reports how many
// were removed.
func (s *Service) ResetResults(ctx context.Context, examID string) (int64, error) {
	if _, err := s.exams.Get(ctx, examID); err != nil {
		return 0, err
	}
	count, err := s.results.DeleteByExam(ctx, examID)
	if err != nil {
		return 0, err
	}
	s.boards.Invalidate(ctx, examID)
	s.feed.Broadcast(examID, nil)
	return count, nil
}

// StudentHistory returns a student's results, most recent first, each
// enriched with its rank on the owning exam's leaderboard and the total
// participant count. Leaderboards are fetched once per distinct exam.
func (s *Service) StudentHistory(ctx context.Context, email string) ([]domain.RankedResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.Invalid("email", "student email is required")
	}

	mine, err := s.results.ListByStudent(ctx, email)
	if err != nil {
		return nil, err
	}

	boards := make(map[string][]domain.Result, len(mine))
	ranked := make([]domain.RankedResult, 0, len(mine))
	for _, result := range mine {
		board, ok := boards[result.ExamID]
		if !ok {
			board, err = s.boards.Leaderboard(ctx, result.ExamID)
			if err != nil {
				return nil, fmt.Errorf("leaderboard for exam %s: %w", result.ExamID, err)
			}
			boards[result.ExamID] = board
		}
		rank := domain.Rank(board, result.ID)
		if rank == 0 {
			// A stored result absent from its own leaderboard means the
			// stores disagree; report it rather than inventing a rank.
			return nil, fmt.Errorf("result %s missing from exam %s leaderboard: %w", result.ID, result.ExamID, domain.ErrResultNotFound)
		}
		ranked = append(ranked, domain.RankedResult{
			Result:            result,
			Rank:              rank,
			TotalParticipants: len(board),
		})
	}
	return ranked, nil
}

// publishBoard pushes the current leaderboard to feed subscribers.
// Best-effort: a fetch failure only costs subscribers one update.
func (s *Service) publishBoard(ctx context.Context, examID string) {
	board, err := s.boards.Leaderboard(ctx, examID)
	if err != nil {
		return
	}
	s.feed.Broadcast(examID, board)
}
