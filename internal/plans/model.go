package plans

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TypeCustomer = "customer"
	TypeVendor   = "vendor"
)

type Plan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Duration  string             `bson:"duration" json:"duration"`
	PlanType  string             `bson:"planType" json:"planType"`
	Features  []string           `bson:"features" json:"features"`
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CreateRequest struct {
	Name     string   `json:"name" validate:"required"`
	Price    float64  `json:"price" validate:"gt=0"`
	Duration string   `json:"duration" validate:"required"`
	PlanType string   `json:"planType" validate:"required,oneof=customer vendor"`
	Features []string `json:"features"`
	Active   *bool    `json:"active"`
}

type UpdateRequest struct {
	Name     *string   `json:"name"`
	Price    *float64  `json:"price" validate:"omitempty,gt=0"`
	Duration *string   `json:"duration"`
	PlanType *string   `json:"planType" validate:"omitempty,oneof=customer vendor"`
	Features *[]string `json:"features"`
	Active   *bool     `json:"active"`
}

// Defaults is the catalog installed by the seed command.
var Defaults = []CreateRequest{
	{Name: "Basic", Price: 99, Duration: "1 month", PlanType: TypeCustomer, Features: []string{"Book services", "Email support"}},
	{Name: "Premium", Price: 249, Duration: "3 months", PlanType: TypeCustomer, Features: []string{"Book services", "Priority support", "Discounts on bookings"}},
	{Name: "Basic", Price: 199, Duration: "1 month", PlanType: TypeVendor, Features: []string{"Listed in search", "Up to 20 jobs per month"}},
	{Name: "Gold", Price: 999, Duration: "6 months", PlanType: TypeVendor, Features: []string{"Featured listing", "Unlimited jobs", "Priority support"}},
}
