package vendors

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusBlocked  = "blocked"
	StatusRejected = "rejected"

	PackFree = "Free"

	vendorIDPrefix = "VEND-"

	// SequenceName keys the vendor counter in the counters collection.
	SequenceName = "vendorId"

	blockedNotice   = "Your vendor account has been blocked by admin."
	unblockedNotice = "Your vendor account has been unblocked by admin."
)

type Vendor struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VendorID      string             `bson:"vendorId" json:"vendorId"`
	Name          string             `bson:"name" json:"name"`
	Category      string             `bson:"category" json:"category"`
	JobsCompleted int64              `bson:"jobsCompleted" json:"jobsCompleted"`
	CurrentPack   string             `bson:"currentPack" json:"currentPack"`
	Status        string             `bson:"status" json:"status"`
	IsBlocked     bool               `bson:"isBlocked" json:"isBlocked"`
	Notification  string             `bson:"notification" json:"notification"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CreateRequest struct {
	Name          string `json:"name" validate:"required"`
	Category      string `json:"category" validate:"required"`
	JobsCompleted *int64 `json:"jobsCompleted" validate:"omitempty,gte=0"`
	CurrentPack   string `json:"currentPack" validate:"omitempty,oneof=Free Basic Premium Gold"`
	Status        string `json:"status" validate:"omitempty,oneof=pending approved blocked rejected"`
}

// UpdateRequest carries the mutable vendor fields. vendorId is not one of
// them.
type UpdateRequest struct {
	Name          *string `json:"name"`
	Category      *string `json:"category"`
	JobsCompleted *int64  `json:"jobsCompleted" validate:"omitempty,gte=0"`
	CurrentPack   *string `json:"currentPack" validate:"omitempty,oneof=Free Basic Premium Gold"`
	Status        *string `json:"status" validate:"omitempty,oneof=pending approved blocked rejected"`
}

type BlockRequest struct {
	Block *bool `json:"block" validate:"required"`
}

type ListFilter struct {
	Status string
	Pack   string
}

// FormatVendorID renders a sequence number as VEND-NNNNN.
func FormatVendorID(seq int64) string {
	return fmt.Sprintf("%s%05d", vendorIDPrefix, seq)
}
