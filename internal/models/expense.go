package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Expense is a single dated spending entry stored in the "gastos" collection.
type Expense struct {
	ID          primitive.ObjectID `json:"_id"         bson:"_id,omitempty"`
	Value       float64            `json:"value"       bson:"value"`
	Description string             `json:"description" bson:"description"`
	Category    string             `json:"category"    bson:"category"`
	Status      string             `json:"status"      bson:"status"`
	UserID      string             `json:"userId"      bson:"userId"`
	Date        time.Time          `json:"date"        bson:"date"`
}

// CreateExpenseRequest is the JSON body for POST /gastos. userId and date are
// always set by the server.
type CreateExpenseRequest struct {
	Value       *float64 `json:"value"       validate:"required"`
	Description string   `json:"description" validate:"required,max=500"`
	Category    string   `json:"category"    validate:"required,max=100"`
	Status      string   `json:"status"      validate:"max=50"`
}

// ExpensePatch is the JSON body for PUT /gastos/{id}. Only non-nil fields are written.
type ExpensePatch struct {
	Value       *float64 `json:"value,omitempty"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Category    *string  `json:"category,omitempty"    validate:"omitempty,max=100"`
	Status      *string  `json:"status,omitempty"      validate:"omitempty,max=50"`
	UserID      string   `json:"userId"`
	Date        JSTime   `json:"date"`
}

// Fields returns the $set document for the patch: every present field plus the
// forced userId and date.
func (p ExpensePatch) Fields() bson.M {
	set := bson.M{
		"userId": p.UserID,
		"date":   p.Date.Time,
	}
	if p.Value != nil {
		set["value"] = *p.Value
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	return set
}

// UpdateExpenseResponse echoes the applied patch along with the matched id, which is
// null when nothing matched.
type UpdateExpenseResponse struct {
	ID *primitive.ObjectID `json:"id"`
	ExpensePatch
}

// DeleteResponse is returned by DELETE /gastos/{id}.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// Period identifies a calendar month. The Portuguese keys are part of the wire format.
type Period struct {
	Year  int `json:"ano" bson:"ano"`
	Month int `json:"mes" bson:"mes"`
}

// MonthlyTotal is one bucket of GET /gastos-acumulados.
type MonthlyTotal struct {
	Period Period  `json:"_id"   bson:"_id"`
	Total  float64 `json:"total" bson:"total"`
}
