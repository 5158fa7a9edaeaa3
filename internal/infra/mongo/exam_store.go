package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"exam-portal-service/internal/domain"
)

// ExamStore keeps exams in a Mongo collection, one document per exam with
// the question list embedded. Matches the document layout of the original
// exam portal.
type ExamStore struct {
	coll *mongo.Collection
}

func NewExamStore(db *mongo.Database) *ExamStore {
	return &ExamStore{coll: db.Collection("exams")}
}

func (s *ExamStore) Insert(ctx context.Context, exam domain.Exam) error {
	if _, err := s.coll.InsertOne(ctx, exam); err != nil {
		return fmt.Errorf("insert exam: %w", err)
	}
	return nil
}

func (s *ExamStore) Get(ctx context.Context, id string) (domain.Exam, error) {
	var exam domain.Exam
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&exam)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Exam{}, domain.ErrExamNotFound
	}
	if err != nil {
		return domain.Exam{}, fmt.Errorf("get exam: %w", err)
	}
	return exam, nil
}

func (s *ExamStore) List(ctx context.Context) ([]domain.Exam, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	defer cursor.Close(ctx)

	exams := make([]domain.Exam, 0)
	if err := cursor.All(ctx, &exams); err != nil {
		return nil, fmt.Errorf("decode exams: %w", err)
	}
	return exams, nil
}

func (s *ExamStore) Replace(ctx context.Context, exam domain.Exam) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": exam.ID}, exam)
	if err != nil {
		return fmt.Errorf("replace exam: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrExamNotFound
	}
	return nil
}

func (s *ExamStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrExamNotFound
	}
	return nil
}
