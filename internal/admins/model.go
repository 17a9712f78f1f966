package admins

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"

	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// Admin is a back-office account. The password hash never leaves the
// service in JSON.
type Admin struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
}

type UpdateRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Status   *string `json:"status" validate:"omitempty,oneof=active disabled"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

type LoginResult struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}

// normalizeRole grants super-admin only on an exact match.
func normalizeRole(role string) string {
	if role == RoleSuperAdmin {
		return RoleSuperAdmin
	}
	return RoleAdmin
}
