package bookings

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

var ErrNotFound = apperr.NotFound("Booking not found")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func cleanServices(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Create records a booking as given. The amount is whatever the caller
// supplies; nothing is derived from the services.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Booking, error) {
	vendorID, err := primitive.ObjectIDFromHex(req.VendorID)
	if err != nil {
		return Booking{}, apperr.Validation("invalid vendorId")
	}
	vendor := vendorID
	if req.Vendor != "" {
		vendor, err = primitive.ObjectIDFromHex(req.Vendor)
		if err != nil {
			return Booking{}, apperr.Validation("invalid vendor")
		}
	}

	services := cleanServices(req.Services)
	if len(services) == 0 {
		return Booking{}, apperr.Validation("services must not be empty")
	}

	status := req.BookingStatus
	if status == "" {
		status = StatusPending
	}
	var amount float64
	if req.Amount != nil {
		amount = *req.Amount
	}

	now := time.Now().UTC()
	booking := Booking{
		ID:            primitive.NewObjectID(),
		Vendor:        vendor,
		VendorID:      vendorID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Services:      services,
		BookingStatus: status,
		Amount:        amount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return Booking{}, apperr.Internal("create booking", err)
	}
	return booking, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, skip int64) ([]Booking, int64, error) {
	filter.Status = strings.TrimSpace(filter.Status)

	items, err := s.repo.List(ctx, filter, limit, skip)
	if err != nil {
		return nil, 0, apperr.Internal("list bookings", err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal("count bookings", err)
	}
	return items, total, nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, apperr.Internal("find booking", err)
	}
	return booking, nil
}

func (s *Service) Update(ctx context.Context, id primitive.ObjectID, req UpdateRequest) (Booking, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}

	if req.CustomerName != nil && strings.TrimSpace(*req.CustomerName) != "" {
		set["customerName"] = strings.TrimSpace(*req.CustomerName)
	}
	if req.Services != nil {
		services := cleanServices(*req.Services)
		if len(services) == 0 {
			return Booking{}, apperr.Validation("services must not be empty")
		}
		set["services"] = services
	}
	if req.BookingStatus != nil && *req.BookingStatus != "" {
		set["bookingStatus"] = *req.BookingStatus
	}
	if req.Amount != nil {
		set["amount"] = *req.Amount
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, apperr.Internal("update booking", err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete booking", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
