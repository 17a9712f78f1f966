package customers

import (
	"convenz-admin/internal/subscriptions"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotAvailable fills the plan fields of customers without an active
// subscription.
const NotAvailable = "N/A"

// User is the part of a consumer-app user document the admin panel reads.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       subscriptions.Ref  `bson:"user_id,omitempty"`
	Name         FlexString         `bson:"name"`
	Phone        FlexString         `bson:"phone"`
	Email        FlexString         `bson:"email"`
	Gender       FlexString         `bson:"gender"`
	Address      Loose              `bson:"address"`
	IsOnline     FlexBool           `bson:"isOnline"`
	IsBlocked    FlexBool           `bson:"isBlocked"`
	Subscription Loose              `bson:"subscription"`
	CreatedAt    subscriptions.Date `bson:"createdAt"`
}

// Customer is the admin-panel view of a user joined with its latest active
// subscription.
type Customer struct {
	ID           primitive.ObjectID `json:"id"`
	UserID       subscriptions.Ref  `json:"user_id"`
	Name         string             `json:"name"`
	Phone        string             `json:"phone"`
	Email        string             `json:"email"`
	Gender       string             `json:"gender"`
	Address      interface{}        `json:"address"`
	IsOnline     bool               `json:"isOnline"`
	IsBlocked    bool               `json:"isBlocked"`
	Subscription interface{}        `json:"subscription"`
	CurrentPack  string             `json:"currentPack"`
	Status       string             `json:"status"`
	ExpiryDate   subscriptions.Date `json:"expiryDate"`
	CreatedAt    subscriptions.Date `json:"createdAt"`
}

type ListFilter struct {
	Status string
	Pack   string
}

// SyncRequest is pushed by the consumer application. Empty fields leave the
// stored value untouched.
type SyncRequest struct {
	Name        string             `json:"name"`
	Phone       FlexString         `json:"phone"`
	CurrentPack string             `json:"currentPack"`
	Status      string             `json:"status"`
	ExpiryDate  subscriptions.Date `json:"expiryDate"`
}

// userQuery restricts a users listing. When Restrict is set only users
// whose user_id is in UserIDs match.
type userQuery struct {
	Restrict bool
	UserIDs  []subscriptions.Ref
}

func newCustomer(u User, sub *subscriptions.Subscription) Customer {
	c := Customer{
		ID:           u.ID,
		UserID:       u.UserID,
		Name:         string(u.Name),
		Phone:        string(u.Phone),
		Email:        string(u.Email),
		Gender:       string(u.Gender),
		Address:      u.Address.Value(),
		IsOnline:     bool(u.IsOnline),
		IsBlocked:    bool(u.IsBlocked),
		Subscription: u.Subscription.Value(),
		CurrentPack:  NotAvailable,
		Status:       NotAvailable,
		CreatedAt:    u.CreatedAt,
	}
	if c.Address == nil {
		c.Address = ""
	}
	if sub != nil {
		c.CurrentPack = sub.CurrentPack
		c.Status = string(sub.Status)
		c.ExpiryDate = sub.ExpiryDate
	}
	return c
}
