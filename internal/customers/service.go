package customers

import (
	"context"
	"errors"
	"strings"
	"time"

	"convenz-admin/internal/apperr"
	"convenz-admin/internal/subscriptions"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = apperr.NotFound("Customer not found")
	ErrPhoneRequired = apperr.Validation("Phone is required")
	ErrInvalidStatus = apperr.Validation("status must be Active, Expired or Pending")
)

// SubscriptionLookup is the part of the subscriptions service customers
// depend on.
type SubscriptionLookup interface {
	ActiveByUsers(ctx context.Context, userIDs []subscriptions.Ref) (map[string]subscriptions.Subscription, error)
	UserIDs(ctx context.Context, filter subscriptions.ListFilter) ([]subscriptions.Ref, error)
}

type Service struct {
	repo Repository
	subs SubscriptionLookup
}

func NewService(repo Repository, subs SubscriptionLookup) *Service {
	return &Service{
		repo: repo,
		subs: subs,
	}
}

func parseStatus(raw string) (subscriptions.Status, error) {
	status, ok := subscriptions.ParseStatus(raw)
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// List returns customers newest first. Status and pack narrow the result
// to users holding a subscription with that status or pack.
func (s *Service) List(ctx context.Context, filter ListFilter, limit, skip int64) ([]Customer, int64, error) {
	var q userQuery

	filter.Status = strings.TrimSpace(filter.Status)
	filter.Pack = strings.TrimSpace(filter.Pack)
	if filter.Status != "" || filter.Pack != "" {
		subFilter := subscriptions.ListFilter{Pack: filter.Pack}
		if filter.Status != "" {
			status, err := parseStatus(filter.Status)
			if err != nil {
				return nil, 0, err
			}
			subFilter.Status = status
		}

		ids, err := s.subs.UserIDs(ctx, subFilter)
		if err != nil {
			return nil, 0, err
		}
		if len(ids) == 0 {
			return []Customer{}, 0, nil
		}
		q = userQuery{Restrict: true, UserIDs: ids}
	}

	users, err := s.repo.List(ctx, q, limit, skip)
	if err != nil {
		return nil, 0, apperr.Internal("list users", err)
	}
	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return nil, 0, apperr.Internal("count users", err)
	}

	customers, err := s.join(ctx, users)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (s *Service) join(ctx context.Context, users []User) ([]Customer, error) {
	ids := make([]subscriptions.Ref, 0, len(users))
	for _, u := range users {
		if !u.UserID.IsZero() {
			ids = append(ids, u.UserID)
		}
	}

	active := map[string]subscriptions.Subscription{}
	if len(ids) > 0 {
		var err error
		active, err = s.subs.ActiveByUsers(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	customers := make([]Customer, 0, len(users))
	for _, u := range users {
		var sub *subscriptions.Subscription
		if !u.UserID.IsZero() {
			if found, ok := active[u.UserID.String()]; ok {
				sub = &found
			}
		}
		customers = append(customers, newCustomer(u, sub))
	}
	return customers, nil
}

func (s *Service) one(ctx context.Context, u User) (Customer, error) {
	customers, err := s.join(ctx, []User{u})
	if err != nil {
		return Customer{}, err
	}
	return customers[0], nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (Customer, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Customer{}, ErrNotFound
		}
		return Customer{}, apperr.Internal("find user", err)
	}
	return s.one(ctx, u)
}

// SetBlocked only flips isBlocked; the subscription status is untouched.
func (s *Service) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) (Customer, error) {
	u, err := s.repo.SetBlocked(ctx, id, blocked)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Customer{}, ErrNotFound
		}
		return Customer{}, apperr.Internal("block user", err)
	}
	return s.one(ctx, u)
}

// Sync upserts the user keyed by phone with the non-empty fields of req.
func (s *Service) Sync(ctx context.Context, req SyncRequest) (Customer, error) {
	phone := strings.TrimSpace(string(req.Phone))
	if phone == "" {
		return Customer{}, ErrPhoneRequired
	}

	now := time.Now().UTC()
	set := bson.M{"updatedAt": now}
	if name := strings.TrimSpace(req.Name); name != "" {
		set["name"] = name
	}
	if pack := strings.TrimSpace(req.CurrentPack); pack != "" {
		set["currentPack"] = pack
	}
	if strings.TrimSpace(req.Status) != "" {
		status, err := parseStatus(req.Status)
		if err != nil {
			return Customer{}, err
		}
		set["status"] = status
	}
	if !req.ExpiryDate.IsZero() {
		set["expiryDate"] = req.ExpiryDate
	}

	u, err := s.repo.UpsertByPhone(ctx, phone, set, now)
	if err != nil {
		return Customer{}, apperr.Internal("sync user", err)
	}
	return s.one(ctx, u)
}
