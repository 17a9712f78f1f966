package bookings

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Vendor        primitive.ObjectID `bson:"vendor" json:"vendor"`
	VendorID      primitive.ObjectID `bson:"vendorId" json:"vendorId"`
	CustomerName  string             `bson:"customerName" json:"customerName"`
	Services      []string           `bson:"services" json:"services"`
	BookingStatus string             `bson:"bookingStatus" json:"bookingStatus"`
	Amount        float64            `bson:"amount" json:"amount"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateRequest.Vendor is the vendor's account id in the consumer app; it
// defaults to VendorID when omitted.
type CreateRequest struct {
	Vendor        string   `json:"vendor" validate:"omitempty,objectid"`
	VendorID      string   `json:"vendorId" validate:"required,objectid"`
	CustomerName  string   `json:"customerName" validate:"required"`
	Services      []string `json:"services" validate:"required,min=1,dive,required"`
	BookingStatus string   `json:"bookingStatus" validate:"omitempty,oneof=pending confirmed completed rejected"`
	Amount        *float64 `json:"amount" validate:"omitempty,gte=0"`
}

type UpdateRequest struct {
	CustomerName  *string   `json:"customerName"`
	Services      *[]string `json:"services" validate:"omitempty,min=1,dive,required"`
	BookingStatus *string   `json:"bookingStatus" validate:"omitempty,oneof=pending confirmed completed rejected"`
	Amount        *float64  `json:"amount" validate:"omitempty,gte=0"`
}

type ListFilter struct {
	Status   string
	VendorID primitive.ObjectID
}
