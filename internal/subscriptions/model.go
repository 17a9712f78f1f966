package subscriptions

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultPack = "Standard"

// Subscription is a view of a document owned by the consumer application.
// Fields this service does not know about are ignored on read.
type Subscription struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      Ref                `bson:"userId" json:"userId"`
	PlanID      Ref                `bson:"planId,omitempty" json:"planId"`
	CurrentPack string             `bson:"currentPack" json:"currentPack"`
	Price       FlexFloat          `bson:"price" json:"price"`
	StartDate   Date               `bson:"startDate" json:"startDate"`
	ExpiryDate  Date               `bson:"expiryDate" json:"expiryDate"`
	Status      Status             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

type CreateRequest struct {
	UserID      Ref      `json:"userId"`
	PlanID      Ref      `json:"planId"`
	CurrentPack string   `json:"currentPack"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	StartDate   Date     `json:"startDate"`
	ExpiryDate  Date     `json:"expiryDate"`
	Status      string   `json:"status"`
}

type UpdateRequest struct {
	UserID      *Ref     `json:"userId"`
	PlanID      *Ref     `json:"planId"`
	CurrentPack *string  `json:"currentPack"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	StartDate   *Date    `json:"startDate"`
	ExpiryDate  *Date    `json:"expiryDate"`
	Status      *string  `json:"status"`
}

type ListFilter struct {
	Status Status
	Pack   string
}
