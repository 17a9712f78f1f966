package bookings

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"convenz-admin/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]Booking
	err   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[primitive.ObjectID]Booking{}}
}

func (f *fakeRepo) Create(ctx context.Context, booking Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.items[booking.ID] = booking
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id primitive.ObjectID) (Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return Booking{}, mongo.ErrNoDocuments
	}
	return b, nil
}

func (f *fakeRepo) matching(filter ListFilter) []Booking {
	items := make([]Booking, 0)
	for _, b := range f.items {
		if filter.Status != "" && b.BookingStatus != filter.Status {
			continue
		}
		if !filter.VendorID.IsZero() && b.VendorID != filter.VendorID {
			continue
		}
		items = append(items, b)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter, limit, skip int64) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	items := f.matching(filter)
	if limit > 0 {
		if skip >= int64(len(items)) {
			return []Booking{}, nil
		}
		end := skip + limit
		if end > int64(len(items)) {
			end = int64(len(items))
		}
		items = items[skip:end]
	}
	return items, nil
}

func (f *fakeRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.matching(filter))), nil
}

func (f *fakeRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return Booking{}, mongo.ErrNoDocuments
	}
	for k, v := range set {
		switch k {
		case "customerName":
			b.CustomerName = v.(string)
		case "services":
			b.Services = v.([]string)
		case "bookingStatus":
			b.BookingStatus = v.(string)
		case "amount":
			b.Amount = v.(float64)
		case "updatedAt":
			b.UpdatedAt = v.(time.Time)
		}
	}
	f.items[id] = b
	return b, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestCreateAppliesDefaults(t *testing.T) {
	svc := NewService(newFakeRepo())
	vendorID := primitive.NewObjectID()

	booking, err := svc.Create(context.Background(), CreateRequest{
		VendorID:     vendorID.Hex(),
		CustomerName: " Asha ",
		Services:     []string{"Deep clean", " ", "Windows"},
	})
	require.NoError(t, err)

	assert.Equal(t, vendorID, booking.VendorID)
	assert.Equal(t, vendorID, booking.Vendor)
	assert.Equal(t, "Asha", booking.CustomerName)
	assert.Equal(t, []string{"Deep clean", "Windows"}, booking.Services)
	assert.Equal(t, StatusPending, booking.BookingStatus)
	assert.Zero(t, booking.Amount)
	assert.False(t, booking.CreatedAt.IsZero())
}

func TestCreateKeepsExplicitFields(t *testing.T) {
	svc := NewService(newFakeRepo())
	vendor := primitive.NewObjectID()

	booking, err := svc.Create(context.Background(), CreateRequest{
		Vendor:        vendor.Hex(),
		VendorID:      primitive.NewObjectID().Hex(),
		CustomerName:  "Ravi",
		Services:      []string{"Catering"},
		BookingStatus: StatusCompleted,
		Amount:        floatPtr(120.5),
	})
	require.NoError(t, err)
	assert.Equal(t, vendor, booking.Vendor)
	assert.Equal(t, StatusCompleted, booking.BookingStatus)
	assert.Equal(t, 120.5, booking.Amount)
}

func TestCreateRejectsBlankServices(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.Create(context.Background(), CreateRequest{
		VendorID:     primitive.NewObjectID().Hex(),
		CustomerName: "Ravi",
		Services:     []string{"  "},
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestListNewestFirstWithFilter(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	vendorID := primitive.NewObjectID()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, status := range []string{StatusPending, StatusCompleted, StatusCompleted} {
		id := primitive.NewObjectID()
		repo.items[id] = Booking{
			ID:            id,
			VendorID:      vendorID,
			BookingStatus: status,
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}
	}

	items, total, err := svc.List(context.Background(), ListFilter{}, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 3)
	assert.True(t, items[0].CreatedAt.After(items[1].CreatedAt))

	items, total, err = svc.List(context.Background(), ListFilter{Status: StatusCompleted}, 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 1)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := NewService(newFakeRepo())
	booking, err := svc.Create(context.Background(), CreateRequest{
		VendorID:     primitive.NewObjectID().Hex(),
		CustomerName: "Asha",
		Services:     []string{"Deep clean"},
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), booking.ID, UpdateRequest{
		BookingStatus: strPtr(StatusConfirmed),
		Amount:        floatPtr(80),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, updated.BookingStatus)
	assert.Equal(t, 80.0, updated.Amount)
	assert.Equal(t, "Asha", updated.CustomerName)

	empty := []string{""}
	_, err = svc.Update(context.Background(), booking.ID, UpdateRequest{Services: &empty})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, svc.Delete(context.Background(), booking.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), booking.ID), ErrNotFound)

	_, err = svc.Get(context.Background(), booking.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(context.Background(), booking.ID, UpdateRequest{Amount: floatPtr(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositoryFailureIsInternal(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("connection reset")
	svc := NewService(repo)

	_, _, err := svc.List(context.Background(), ListFilter{}, 0, 0)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
