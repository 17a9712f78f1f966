package dashboard

import (
	"context"

	"convenz-admin/internal/apperr"
	"convenz-admin/internal/bookings"
	"convenz-admin/internal/subscriptions"
	"golang.org/x/sync/errgroup"
)

type Revenue struct {
	TotalRevenue        float64 `json:"totalRevenue"`
	VendorRevenue       float64 `json:"vendorRevenue"`
	SubscriptionRevenue float64 `json:"subscriptionRevenue"`
}

type Stats struct {
	TotalUsers          int64   `json:"totalUsers"`
	TotalVendors        int64   `json:"totalVendors"`
	TotalCustomers      int64   `json:"totalCustomers"`
	TotalBookings       int64   `json:"totalBookings"`
	Revenue             Revenue `json:"revenue"`
	TotalProfit         float64 `json:"totalProfit"`
	ActiveSubscriptions int64   `json:"activeSubscriptions"`
}

type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

// Stats runs the six reads concurrently. The first failure cancels the
// others and is returned.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var (
		vendors, customers, bookingCount, active int64
		vendorRevenue, subscriptionRevenue       float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		vendors, err = s.source.CountVendors(gctx)
		return err
	})
	g.Go(func() (err error) {
		customers, err = s.source.CountCustomers(gctx)
		return err
	})
	g.Go(func() (err error) {
		bookingCount, err = s.source.CountBookings(gctx, bookings.StatusConfirmed, bookings.StatusCompleted)
		return err
	})
	g.Go(func() (err error) {
		vendorRevenue, err = s.source.SumBookingAmount(gctx, bookings.StatusCompleted)
		return err
	})
	g.Go(func() (err error) {
		subscriptionRevenue, err = s.source.SumSubscriptionPrice(gctx, subscriptions.StatusActive, subscriptions.StatusExpired)
		return err
	})
	g.Go(func() (err error) {
		active, err = s.source.CountSubscriptions(gctx, subscriptions.StatusActive)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, apperr.Internal("dashboard stats", err)
	}

	return Stats{
		TotalUsers:     vendors + customers,
		TotalVendors:   vendors,
		TotalCustomers: customers,
		TotalBookings:  bookingCount,
		Revenue: Revenue{
			TotalRevenue:        vendorRevenue + subscriptionRevenue,
			VendorRevenue:       vendorRevenue,
			SubscriptionRevenue: subscriptionRevenue,
		},
		TotalProfit:         subscriptionRevenue,
		ActiveSubscriptions: active,
	}, nil
}
