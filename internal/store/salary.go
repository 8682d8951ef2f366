package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/gastos-api/internal/models"
)

// SalaryStore keeps one salary document per user in the "salario" collection.
type SalaryStore struct {
	col *mongo.Collection
}

func NewSalaryStore(db *mongo.Database) *SalaryStore {
	return &SalaryStore{col: db.Collection(SalaryCollection)}
}

// Get returns the user's salary, or 0 when none was ever set.
func (s *SalaryStore) Get(ctx context.Context, userID string) (float64, error) {
	var doc models.Salary
	err := s.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("mongo find salary: %w", err)
	}
	return doc.Value, nil
}

// Set creates or overwrites the user's salary.
func (s *SalaryStore) Set(ctx context.Context, userID string, value float64) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"value": value, "userId": userID}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo upsert salary: %w", err)
	}
	return nil
}
