package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"exam-portal-service/internal/domain"
)

// ResultStore persists result records in Postgres. Leaderboard and history
// ordering is pushed into the queries; the created_at tiebreaker keeps full
// ties stable across reads.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) Insert(ctx context.Context, result domain.Result) error {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO results
		   (id, student_name, student_email, exam_id, exam_name,
		    score, total_questions, percentage, time_taken, answers, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		result.ID, result.StudentName, result.StudentEmail, result.ExamID, result.ExamName,
		result.Score, result.TotalQuestions, result.Percentage, result.TimeTaken, answers, result.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *ResultStore) ListByExam(ctx context.Context, examID string) ([]domain.Result, error) {
	return s.query(ctx,
		`SELECT id, student_name, student_email, exam_id, exam_name,
		        score, total_questions, percentage, time_taken, answers, created_at
		   FROM results WHERE exam_id=$1
		  ORDER BY score DESC, time_taken ASC, created_at ASC`, examID)
}

func (s *ResultStore) ListByStudent(ctx context.Context, email string) ([]domain.Result, error) {
	return s.query(ctx,
		`SELECT id, student_name, student_email, exam_id, exam_name,
		        score, total_questions, percentage, time_taken, answers, created_at
		   FROM results WHERE student_email=$1
		  ORDER BY created_at DESC`, email)
}

func (s *ResultStore) DeleteByExam(ctx context.Context, examID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM results WHERE exam_id=$1`, examID)
	if err != nil {
		return 0, fmt.Errorf("delete results: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *ResultStore) query(ctx context.Context, sql string, arg interface{}) ([]domain.Result, error) {
	rows, err := s.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Result, 0)
	for rows.Next() {
		var r domain.Result
		var answers []byte
		if err := rows.Scan(&r.ID, &r.StudentName, &r.StudentEmail, &r.ExamID, &r.ExamName,
			&r.Score, &r.TotalQuestions, &r.Percentage, &r.TimeTaken, &answers, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal(answers, &r.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
