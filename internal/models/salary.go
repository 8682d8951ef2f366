package models

// Salary is the single salary record of a user in the "salario" collection.
type Salary struct {
	UserID string  `json:"userId" bson:"userId"`
	Value  float64 `json:"value"  bson:"value"`
}

// SalaryRequest is the JSON body for POST /salario and also its response.
type SalaryRequest struct {
	Value *float64 `json:"value" validate:"required,gte=0"`
}
