package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"exam-portal-service/internal/domain"
)

// ExamStore persists exams in Postgres. The question list is stored as a
// JSONB document rather than a normalized table; exams are replaced
// wholesale, never patched.
type ExamStore struct {
	pool *pgxpool.Pool
}

func NewExamStore(pool *pgxpool.Pool) *ExamStore {
	return &ExamStore{pool: pool}
}

func (s *ExamStore) Insert(ctx context.Context, exam domain.Exam) error {
	questions, err := json.Marshal(exam.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO exams (id, name, questions, created_at) VALUES ($1, $2, $3, $4)`,
		exam.ID, exam.Name, questions, exam.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert exam: %w", err)
	}
	return nil
}

func (s *ExamStore) Get(ctx context.Context, id string) (domain.Exam, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, questions, created_at FROM exams WHERE id=$1`, id)
	exam, err := scanExam(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Exam{}, domain.ErrExamNotFound
	}
	if err != nil {
		return domain.Exam{}, fmt.Errorf("get exam: %w", err)
	}
	return exam, nil
}

func (s *ExamStore) List(ctx context.Context) ([]domain.Exam, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, questions, created_at FROM exams ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	defer rows.Close()

	exams := make([]domain.Exam, 0)
	for rows.Next() {
		exam, err := scanExam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exam: %w", err)
		}
		exams = append(exams, exam)
	}
	return exams, rows.Err()
}

func (s *ExamStore) Replace(ctx context.Context, exam domain.Exam) error {
	questions, err := json.Marshal(exam.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE exams SET name=$2, questions=$3 WHERE id=$1`,
		exam.ID, exam.Name, questions)
	if err != nil {
		return fmt.Errorf("replace exam: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExamNotFound
	}
	return nil
}

func (s *ExamStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM exams WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExamNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExam(row rowScanner) (domain.Exam, error) {
	var exam domain.Exam
	var questions []byte
	if err := row.Scan(&exam.ID, &exam.Name, &questions, &exam.CreatedAt); err != nil {
		return domain.Exam{}, err
	}
	if err := json.Unmarshal(questions, &exam.Questions); err != nil {
		return domain.Exam{}, fmt.Errorf("unmarshal questions: %w", err)
	}
	return exam, nil
}
