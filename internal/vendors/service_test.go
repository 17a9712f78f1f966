package vendors

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
	items map[primitive.ObjectID]Vendor
	err   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[primitive.ObjectID]Vendor{}}
}

func (f *fakeRepo) Create(ctx context.Context, vendor Vendor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, v := range f.items {
		if v.VendorID == vendor.VendorID {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "duplicate key"}}}
		}
	}
	f.items[vendor.ID] = vendor
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id primitive.ObjectID) (Vendor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[id]
	if !ok {
		return Vendor{}, mongo.ErrNoDocuments
	}
	return v, nil
}

func (f *fakeRepo) matching(filter ListFilter) []Vendor {
	items := make([]Vendor, 0)
	for _, v := range f.items {
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		if filter.Pack != "" && v.CurrentPack != filter.Pack {
			continue
		}
		items = append(items, v)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].VendorID > items[j].VendorID })
	return items
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter, limit, skip int64) ([]Vendor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	items := f.matching(filter)
	if limit > 0 {
		if skip >= int64(len(items)) {
			return []Vendor{}, nil
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

func (f *fakeRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (Vendor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[id]
	if !ok {
		return Vendor{}, mongo.ErrNoDocuments
	}
	for key, value := range set {
		switch key {
		case "name":
			v.Name = value.(string)
		case "category":
			v.Category = value.(string)
		case "jobsCompleted":
			v.JobsCompleted = value.(int64)
		case "currentPack":
			v.CurrentPack = value.(string)
		case "status":
			v.Status = value.(string)
		case "isBlocked":
			v.IsBlocked = value.(bool)
		case "notification":
			v.Notification = value.(string)
		case "updatedAt":
			v.UpdatedAt = value.(time.Time)
		case "vendorId":
			v.VendorID = value.(string)
		}
	}
	f.items[id] = v
	return v, nil
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

type fakeSequence struct {
	mu  sync.Mutex
	seq int64
	err error
}

func (s *fakeSequence) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.seq++
	return s.seq, nil
}

func newTestService() (*Service, *fakeRepo, *fakeSequence) {
	repo := newFakeRepo()
	seq := &fakeSequence{}
	return NewService(repo, seq), repo, seq
}

func TestVendorIDFormat(t *testing.T) {
	assert.Equal(t, "VEND-00001", FormatVendorID(1))
	assert.Equal(t, "VEND-00042", FormatVendorID(42))
	assert.Equal(t, "VEND-123456", FormatVendorID(123456))
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateRequest{Name: "Sparkle", Category: "Cleaning"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateRequest{Name: "Fixit", Category: "Plumbing"})
	require.NoError(t, err)

	assert.Equal(t, "VEND-00001", first.VendorID)
	assert.Equal(t, "VEND-00002", second.VendorID)
	assert.Equal(t, PackFree, first.CurrentPack)
	assert.Equal(t, StatusPending, first.Status)
	assert.False(t, first.IsBlocked)
}

func TestVendorIDsNotReusedAfterDelete(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateRequest{Name: "a", Category: "x"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{Name: "b", Category: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, first.ID))

	third, err := svc.Create(ctx, CreateRequest{Name: "c", Category: "x"})
	require.NoError(t, err)
	assert.Equal(t, "VEND-00003", third.VendorID)
}

func TestCreateSequenceFailure(t *testing.T) {
	svc, _, seq := newTestService()
	seq.err = errors.New("counter unavailable")

	_, err := svc.Create(context.Background(), CreateRequest{Name: "a", Category: "x"})
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestCreateDuplicateVendorID(t *testing.T) {
	svc, _, seq := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Name: "a", Category: "x"})
	require.NoError(t, err)

	seq.seq = 0
	_, err = svc.Create(ctx, CreateRequest{Name: "b", Category: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestBlockAndUnblock(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	v, err := svc.Create(ctx, CreateRequest{Name: "a", Category: "x"})
	require.NoError(t, err)

	blocked, err := svc.SetBlocked(ctx, v.ID, true)
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked)
	assert.Equal(t, StatusBlocked, blocked.Status)
	assert.Equal(t, blockedNotice, blocked.Notification)

	unblocked, err := svc.SetBlocked(ctx, v.ID, false)
	require.NoError(t, err)
	assert.False(t, unblocked.IsBlocked)
	assert.Equal(t, StatusApproved, unblocked.Status)
	assert.Equal(t, unblockedNotice, unblocked.Notification)

	_, err = svc.SetBlocked(ctx, primitive.NewObjectID(), true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateNeverTouchesVendorID(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	v, err := svc.Create(ctx, CreateRequest{Name: "a", Category: "x"})
	require.NoError(t, err)

	name := "Renamed"
	pack := "Gold"
	updated, err := svc.Update(ctx, v.ID, UpdateRequest{Name: &name, CurrentPack: &pack})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "Gold", updated.CurrentPack)
	assert.Equal(t, v.VendorID, updated.VendorID)
}

func TestDeleteMissing(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.Delete(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListFiltersAndPages(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, CreateRequest{Name: "v", Category: "x", CurrentPack: "Basic"})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, CreateRequest{Name: "g", Category: "x", CurrentPack: "Gold"})
	require.NoError(t, err)

	items, total, err := svc.List(ctx, ListFilter{Pack: "Basic"}, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, items, 2)

	items, total, err = svc.List(ctx, ListFilter{}, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	assert.Len(t, items, 6)
	assert.Equal(t, "VEND-00006", items[0].VendorID)
}
