package subscriptions

import (
	"context"
	"errors"
	"strings"
	"time"

	"convenz-admin/internal/apperr"
	"convenz-admin/internal/plans"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound        = apperr.NotFound("Subscription not found")
	ErrUserNotFound    = apperr.NotFound("Subscription not found for this user")
	ErrMissingRefs     = apperr.Validation("userId and planId are required")
	ErrInvalidStatus   = apperr.Validation("status must be Active, Expired or Pending")
	ErrInvalidUserID   = apperr.Validation("userId must be an integer")
	errPlanUnavailable = errors.New("plan unavailable")
)

// PlanFinder resolves the plan a subscription points at.
type PlanFinder interface {
	Get(ctx context.Context, id primitive.ObjectID) (plans.Plan, error)
}

type Service struct {
	repo  Repository
	plans PlanFinder
}

func NewService(repo Repository, plans PlanFinder) *Service {
	return &Service{
		repo:  repo,
		plans: plans,
	}
}

// WithPlan pairs a subscription with its plan. Plan is nil when the
// subscription has no planId or the plan no longer exists.
type WithPlan struct {
	Subscription Subscription `json:"subscription"`
	Plan         *plans.Plan  `json:"plan"`
}

func parseStatusInput(raw string) (Status, error) {
	status, ok := ParseStatus(raw)
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Subscription, error) {
	if req.UserID.IsZero() || req.PlanID.IsZero() {
		return Subscription{}, ErrMissingRefs
	}

	status := StatusActive
	if strings.TrimSpace(req.Status) != "" {
		parsed, err := parseStatusInput(req.Status)
		if err != nil {
			return Subscription{}, err
		}
		status = parsed
	}

	now := time.Now().UTC()
	sub := Subscription{
		ID:          primitive.NewObjectID(),
		UserID:      req.UserID,
		PlanID:      req.PlanID,
		CurrentPack: strings.TrimSpace(req.CurrentPack),
		StartDate:   req.StartDate,
		ExpiryDate:  req.ExpiryDate,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if sub.CurrentPack == "" {
		sub.CurrentPack = DefaultPack
	}
	if req.Price != nil {
		sub.Price = FlexFloat(*req.Price)
	}
	if sub.StartDate.IsZero() {
		sub.StartDate = NewDate(now)
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return Subscription{}, apperr.Internal("create subscription", err)
	}
	return sub, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Subscription, error) {
	filter.Pack = strings.TrimSpace(filter.Pack)
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("list subscriptions", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (Subscription, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Subscription{}, ErrNotFound
		}
		return Subscription{}, apperr.Internal("find subscription", err)
	}
	return sub, nil
}

// ForUser returns the newest subscription of a numeric consumer user id.
func (s *Service) ForUser(ctx context.Context, rawUserID string) (Subscription, error) {
	userID := ParseRef(rawUserID)
	if _, ok := userID.Int(); !ok {
		return Subscription{}, ErrInvalidUserID
	}

	sub, err := s.repo.FindLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Subscription{}, ErrUserNotFound
		}
		return Subscription{}, apperr.Internal("find user subscription", err)
	}
	return sub, nil
}

func (s *Service) GetWithPlan(ctx context.Context, id primitive.ObjectID) (WithPlan, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return WithPlan{}, err
	}

	plan, err := s.lookupPlan(ctx, sub.PlanID)
	if err != nil && !errors.Is(err, errPlanUnavailable) {
		return WithPlan{}, err
	}
	return WithPlan{Subscription: sub, Plan: plan}, nil
}

func (s *Service) lookupPlan(ctx context.Context, ref Ref) (*plans.Plan, error) {
	planID, ok := ref.ObjectID()
	if !ok {
		parsed, err := primitive.ObjectIDFromHex(ref.String())
		if err != nil {
			return nil, errPlanUnavailable
		}
		planID = parsed
	}

	plan, err := s.plans.Get(ctx, planID)
	if err != nil {
		if errors.Is(err, plans.ErrNotFound) {
			return nil, errPlanUnavailable
		}
		return nil, err
	}
	return &plan, nil
}

func (s *Service) Update(ctx context.Context, id primitive.ObjectID, req UpdateRequest) (Subscription, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}

	if req.UserID != nil && !req.UserID.IsZero() {
		set["userId"] = *req.UserID
	}
	if req.PlanID != nil && !req.PlanID.IsZero() {
		set["planId"] = *req.PlanID
	}
	if req.CurrentPack != nil && strings.TrimSpace(*req.CurrentPack) != "" {
		set["currentPack"] = strings.TrimSpace(*req.CurrentPack)
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.StartDate != nil && !req.StartDate.IsZero() {
		set["startDate"] = *req.StartDate
	}
	if req.ExpiryDate != nil {
		set["expiryDate"] = *req.ExpiryDate
	}
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		status, err := parseStatusInput(*req.Status)
		if err != nil {
			return Subscription{}, err
		}
		set["status"] = status
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Subscription{}, ErrNotFound
		}
		return Subscription{}, apperr.Internal("update subscription", err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete subscription", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// ActiveByUsers returns each user's newest Active subscription.
func (s *Service) ActiveByUsers(ctx context.Context, userIDs []Ref) (map[string]Subscription, error) {
	out, err := s.repo.LatestByUsers(ctx, userIDs, StatusActive)
	if err != nil {
		return nil, apperr.Internal("load active subscriptions", err)
	}
	return out, nil
}

// UserIDs lists users holding a subscription that matches filter.
func (s *Service) UserIDs(ctx context.Context, filter ListFilter) ([]Ref, error) {
	refs, err := s.repo.UserIDs(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("list subscribed users", err)
	}
	return refs, nil
}
