package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/gastos-api/internal/models"
)

// ExpenseStore handles expense CRUD and aggregation in the "gastos" collection.
type ExpenseStore struct {
	col *mongo.Collection
	loc *time.Location
}

// NewExpenseStore returns a store that buckets dates by calendar month in loc.
func NewExpenseStore(db *mongo.Database, loc *time.Location) *ExpenseStore {
	if loc == nil {
		loc = time.UTC
	}
	return &ExpenseStore{col: db.Collection(ExpensesCollection), loc: loc}
}

func (s *ExpenseStore) Insert(ctx context.Context, e *models.Expense) error {
	res, err := s.col.InsertOne(ctx, e)
	if err != nil {
		return fmt.Errorf("mongo insert expense: %w", err)
	}
	e.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *ExpenseStore) ListByUser(ctx context.Context, userID string) ([]models.Expense, error) {
	return s.find(ctx, bson.M{"userId": userID})
}

// ListByUserBetween returns the user's expenses dated in [from, to).
func (s *ExpenseStore) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Expense, error) {
	return s.find(ctx, bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": from, "$lt": to},
	})
}

func (s *ExpenseStore) find(ctx context.Context, filter bson.M) ([]models.Expense, error) {
	cur, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongo find expenses: %w", err)
	}
	defer cur.Close(ctx)

	expenses := []models.Expense{}
	if err := cur.All(ctx, &expenses); err != nil {
		return nil, fmt.Errorf("mongo decode expenses: %w", err)
	}
	return expenses, nil
}

// Update applies set to the expense with the given id. When owner is non-empty the
// match also requires userId == owner. It returns the matched id and the userId the
// document had before the update, or ErrNotFound when nothing matched.
func (s *ExpenseStore) Update(ctx context.Context, id, owner string, set bson.M) (primitive.ObjectID, string, error) {
	filter, err := byID(id, owner)
	if err != nil {
		return primitive.NilObjectID, "", err
	}

	var before struct {
		ID     primitive.ObjectID `bson:"_id"`
		UserID string             `bson:"userId"`
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"_id": 1, "userId": 1})
	err = s.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, "", ErrNotFound
	}
	if err != nil {
		return primitive.NilObjectID, "", fmt.Errorf("mongo update expense: %w", err)
	}
	return before.ID, before.UserID, nil
}

// Delete removes the expense with the given id, scoped to owner when non-empty. It
// returns the removed document's userId, or ErrNotFound.
func (s *ExpenseStore) Delete(ctx context.Context, id, owner string) (string, error) {
	filter, err := byID(id, owner)
	if err != nil {
		return "", err
	}

	var deleted struct {
		UserID string `bson:"userId"`
	}
	opts := options.FindOneAndDelete().SetProjection(bson.M{"userId": 1})
	err = s.col.FindOneAndDelete(ctx, filter, opts).Decode(&deleted)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("mongo delete expense: %w", err)
	}
	return deleted.UserID, nil
}

// MonthlyTotals sums the user's expense values per calendar month, oldest first.
func (s *ExpenseStore) MonthlyTotals(ctx context.Context, userID string) ([]models.MonthlyTotal, error) {
	cur, err := s.col.Aggregate(ctx, MonthlyTotalsPipeline(userID, s.loc))
	if err != nil {
		return nil, fmt.Errorf("mongo aggregate totals: %w", err)
	}
	defer cur.Close(ctx)

	totals := []models.MonthlyTotal{}
	if err := cur.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("mongo decode totals: %w", err)
	}
	return totals, nil
}

// MonthlyTotalsPipeline groups a user's expenses by (year, month) of their date in
// loc and sums their values, sorted ascending.
func MonthlyTotalsPipeline(userID string, loc *time.Location) mongo.Pipeline {
	tz := loc.String()
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"ano": bson.M{"$year": bson.M{"date": "$date", "timezone": tz}},
				"mes": bson.M{"$month": bson.M{"date": "$date", "timezone": tz}},
			},
			"total": bson.M{"$sum": "$value"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.ano", Value: 1}, {Key: "_id.mes", Value: 1}}}},
	}
}

func byID(id, owner string) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid}
	if owner != "" {
		filter["userId"] = owner
	}
	return filter, nil
}
