package admins

import (
	"context"
	"errors"
	"strings"
	"time"

	"convenz-admin/internal/apperr"
	"convenz-admin/internal/auth"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound        = apperr.NotFound("Admin not found")
	ErrDisabled        = apperr.Forbidden("Account is disabled")
	ErrInvalidPassword = apperr.Validation("Invalid password")
	ErrExists          = apperr.Conflict("Admin already exists")
)

type Service struct {
	repo   Repository
	tokens *auth.Manager
}

func NewService(repo Repository, tokens *auth.Manager) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	admin, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return LoginResult{}, ErrNotFound
		}
		return LoginResult{}, apperr.Internal("find admin", err)
	}

	if admin.Status != StatusActive {
		return LoginResult{}, ErrDisabled
	}

	if err := auth.ComparePassword(admin.Password, req.Password); err != nil {
		return LoginResult{}, ErrInvalidPassword
	}

	token, err := s.tokens.NewToken(admin.ID.Hex(), admin.Role)
	if err != nil {
		return LoginResult{}, apperr.Internal("sign token", err)
	}
	return LoginResult{Token: token, Admin: admin}, nil
}

// Create registers a new admin. The role is admin unless exactly
// super-admin was requested.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Admin, error) {
	email := normalizeEmail(req.Email)

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return Admin{}, ErrExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return Admin{}, apperr.Internal("find admin", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return Admin{}, apperr.Internal("hash password", err)
	}

	now := time.Now().UTC()
	admin := Admin{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Password:  hash,
		Role:      normalizeRole(req.Role),
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Admin{}, ErrExists
		}
		return Admin{}, apperr.Internal("create admin", err)
	}
	return admin, nil
}

func (s *Service) List(ctx context.Context) ([]Admin, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("list admins", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (Admin, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Admin{}, ErrNotFound
		}
		return Admin{}, apperr.Internal("find admin", err)
	}
	return admin, nil
}

// Update applies the non-empty fields of req. A new password is hashed
// before it is stored.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, req UpdateRequest) (Admin, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		set["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil && *req.Role != "" {
		set["role"] = normalizeRole(*req.Role)
	}
	if req.Status != nil && *req.Status != "" {
		set["status"] = *req.Status
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return Admin{}, apperr.Internal("hash password", err)
		}
		set["password"] = hash
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Admin{}, ErrNotFound
		}
		return Admin{}, apperr.Internal("update admin", err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete admin", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// EnsureSuperAdmin creates the seed super-admin when none exists. It
// reports whether an account was created.
func (s *Service) EnsureSuperAdmin(ctx context.Context, name, email, password string) (bool, error) {
	exists, err := s.repo.ExistsWithRole(ctx, RoleSuperAdmin)
	if err != nil {
		return false, apperr.Internal("count super admins", err)
	}
	if exists {
		return false, nil
	}

	_, err = s.Create(ctx, CreateRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     RoleSuperAdmin,
	})
	if errors.Is(err, ErrExists) {
		// The seed address belongs to a plain admin: promote it.
		existing, findErr := s.repo.FindByEmail(ctx, normalizeEmail(email))
		if findErr != nil {
			return false, apperr.Internal("find admin", findErr)
		}
		_, err = s.repo.Update(ctx, existing.ID, bson.M{
			"role":      RoleSuperAdmin,
			"status":    StatusActive,
			"updatedAt": time.Now().UTC(),
		})
		if err != nil {
			return false, apperr.Internal("promote admin", err)
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
