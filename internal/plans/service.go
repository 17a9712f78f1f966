package plans

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"convenz-admin/internal/apperr"
	"convenz-admin/internal/cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const cachePrefix = "plans:"

var ErrNotFound = apperr.NotFound("Plan not found")

type Service struct {
	repo  Repository
	cache cache.Cache
	ttl   time.Duration
	log   *slog.Logger
}

func NewService(repo Repository, c cache.Cache, ttl time.Duration, log *slog.Logger) *Service {
	if c == nil {
		c = cache.NewNoop()
	}
	return &Service{
		repo:  repo,
		cache: c,
		ttl:   ttl,
		log:   log,
	}
}

func cacheKey(planType string) string {
	if planType == "" {
		return cachePrefix + "all"
	}
	return cachePrefix + planType
}

func newPlan(req CreateRequest, now time.Time) Plan {
	features := req.Features
	if features == nil {
		features = []string{}
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return Plan{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(req.Name),
		Price:     req.Price,
		Duration:  strings.TrimSpace(req.Duration),
		PlanType:  req.PlanType,
		Features:  features,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Plan, error) {
	plan := newPlan(req, time.Now().UTC())
	if err := s.repo.Create(ctx, plan); err != nil {
		return Plan{}, apperr.Internal("create plan", err)
	}
	s.invalidate(ctx)
	return plan, nil
}

// List serves the catalog from cache when possible. Cache failures fall
// back to the database.
func (s *Service) List(ctx context.Context, planType string) ([]Plan, error) {
	planType = strings.TrimSpace(planType)
	key := cacheKey(planType)

	var cached []Plan
	hit, err := cache.GetJSON(ctx, s.cache, key, &cached)
	if err != nil {
		s.log.Warn("plans cache get failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	if hit {
		return cached, nil
	}

	items, err := s.repo.List(ctx, planType)
	if err != nil {
		return nil, apperr.Internal("list plans", err)
	}

	if err := cache.SetJSON(ctx, s.cache, key, items, s.ttl); err != nil {
		s.log.Warn("plans cache set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (Plan, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Plan{}, ErrNotFound
		}
		return Plan{}, apperr.Internal("find plan", err)
	}
	return plan, nil
}

func (s *Service) Update(ctx context.Context, id primitive.ObjectID, req UpdateRequest) (Plan, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		set["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Duration != nil && strings.TrimSpace(*req.Duration) != "" {
		set["duration"] = strings.TrimSpace(*req.Duration)
	}
	if req.PlanType != nil && *req.PlanType != "" {
		set["planType"] = *req.PlanType
	}
	if req.Features != nil {
		features := *req.Features
		if features == nil {
			features = []string{}
		}
		set["features"] = features
	}
	if req.Active != nil {
		set["active"] = *req.Active
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Plan{}, ErrNotFound
		}
		return Plan{}, apperr.Internal("update plan", err)
	}
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes the plan document. Subscriptions pointing at it are left
// as they are.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete plan", err)
	}
	if !deleted {
		return ErrNotFound
	}
	s.invalidate(ctx)
	return nil
}

// Seed upserts each plan by name and type and returns how many were new.
func (s *Service) Seed(ctx context.Context, catalog []CreateRequest) (int, error) {
	now := time.Now().UTC()
	created := 0
	for _, req := range catalog {
		inserted, err := s.repo.Upsert(ctx, newPlan(req, now))
		if err != nil {
			return created, apperr.Internal("seed plan "+req.Name, err)
		}
		if inserted {
			created++
		}
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, cachePrefix); err != nil {
		s.log.Warn("plans cache invalidate failed", slog.String("error", err.Error()))
	}
}
