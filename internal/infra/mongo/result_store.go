package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"exam-portal-service/internal/domain"
)

// ResultStore keeps result records in a Mongo collection. The sort specs
// mirror the leaderboard and history orderings, with createdAt as the final
// tiebreaker so full ties stay stable.
type ResultStore struct {
	coll *mongo.Collection
}

func NewResultStore(db *mongo.Database) *ResultStore {
	return &ResultStore{coll: db.Collection("results")}
}

func (s *ResultStore) Insert(ctx context.Context, result domain.Result) error {
	if _, err := s.coll.InsertOne(ctx, result); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *ResultStore) ListByExam(ctx context.Context, examID string) ([]domain.Result, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "score", Value: -1},
		{Key: "timeTaken", Value: 1},
		{Key: "createdAt", Value: 1},
	})
	return s.find(ctx, bson.M{"examId": examID}, opts)
}

func (s *ResultStore) ListByStudent(ctx context.Context, email string) ([]domain.Result, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.find(ctx, bson.M{"studentEmail": email}, opts)
}

func (s *ResultStore) DeleteByExam(ctx context.Context, examID string) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"examId": examID})
	if err != nil {
		return 0, fmt.Errorf("delete results: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *ResultStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Result, error) {
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find results: %w", err)
	}
	defer cursor.Close(ctx)

	results := make([]domain.Result, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return results, nil
}
