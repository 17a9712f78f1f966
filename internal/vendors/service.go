package vendors

import (
	"context"
	"errors"
	"strings"
	"time"

	"convenz-admin/internal/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = apperr.NotFound("Vendor not found")
	ErrDuplicate = apperr.Conflict("vendorId already assigned")
)

type Service struct {
	repo Repository
	seq  Sequence
}

func NewService(repo Repository, seq Sequence) *Service {
	return &Service{
		repo: repo,
		seq:  seq,
	}
}

// Create stores a new vendor under the next VEND-NNNNN id. Numbers come
// from a counter, so ids freed by deletes are never handed out again.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Vendor, error) {
	seq, err := s.seq.Next(ctx)
	if err != nil {
		return Vendor{}, apperr.Internal("next vendor id", err)
	}

	pack := req.CurrentPack
	if pack == "" {
		pack = PackFree
	}
	status := req.Status
	if status == "" {
		status = StatusPending
	}
	var jobs int64
	if req.JobsCompleted != nil {
		jobs = *req.JobsCompleted
	}

	now := time.Now().UTC()
	vendor := Vendor{
		ID:            primitive.NewObjectID(),
		VendorID:      FormatVendorID(seq),
		Name:          strings.TrimSpace(req.Name),
		Category:      strings.TrimSpace(req.Category),
		JobsCompleted: jobs,
		CurrentPack:   pack,
		Status:        status,
		IsBlocked:     status == StatusBlocked,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, vendor); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Vendor{}, ErrDuplicate
		}
		return Vendor{}, apperr.Internal("create vendor", err)
	}
	return vendor, nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (Vendor, error) {
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Vendor{}, ErrNotFound
		}
		return Vendor{}, apperr.Internal("find vendor", err)
	}
	return vendor, nil
}

// List returns vendors newest first with the total matching filter.
func (s *Service) List(ctx context.Context, filter ListFilter, limit, skip int64) ([]Vendor, int64, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	filter.Pack = strings.TrimSpace(filter.Pack)

	items, err := s.repo.List(ctx, filter, limit, skip)
	if err != nil {
		return nil, 0, apperr.Internal("list vendors", err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal("count vendors", err)
	}
	return items, total, nil
}

func (s *Service) Update(ctx context.Context, id primitive.ObjectID, req UpdateRequest) (Vendor, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		set["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) != "" {
		set["category"] = strings.TrimSpace(*req.Category)
	}
	if req.JobsCompleted != nil {
		set["jobsCompleted"] = *req.JobsCompleted
	}
	if req.CurrentPack != nil && *req.CurrentPack != "" {
		set["currentPack"] = *req.CurrentPack
	}
	if req.Status != nil && *req.Status != "" {
		set["status"] = *req.Status
		set["isBlocked"] = *req.Status == StatusBlocked
	}

	return s.update(ctx, id, set, "update vendor")
}

// SetBlocked flips isBlocked, status and notification in one write.
func (s *Service) SetBlocked(ctx context.Context, id primitive.ObjectID, block bool) (Vendor, error) {
	set := bson.M{
		"isBlocked":    block,
		"status":       StatusApproved,
		"notification": unblockedNotice,
		"updatedAt":    time.Now().UTC(),
	}
	if block {
		set["status"] = StatusBlocked
		set["notification"] = blockedNotice
	}
	return s.update(ctx, id, set, "block vendor")
}

func (s *Service) update(ctx context.Context, id primitive.ObjectID, set bson.M, op string) (Vendor, error) {
	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Vendor{}, ErrNotFound
		}
		return Vendor{}, apperr.Internal(op, err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete vendor", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
