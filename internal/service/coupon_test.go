package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodorder/food-order-api/internal/apperr"
	"github.com/foodorder/food-order-api/internal/config"
	"github.com/foodorder/food-order-api/internal/repo"
	"github.com/foodorder/food-order-api/internal/util"
)

type recordedIndexOp struct {
	Op    string
	DocID string
}

type stubIndexer struct {
	ops []recordedIndexOp
}

func (s *stubIndexer) IndexDocument(_ context.Context, docID string, _ any) error {
	s.ops = append(s.ops, recordedIndexOp{Op: "index", DocID: docID})
	return nil
}

func (s *stubIndexer) DeleteDocument(_ context.Context, docID string) error {
	s.ops = append(s.ops, recordedIndexOp{Op: "delete", DocID: docID})
	return nil
}

func newTestCoupons(t *testing.T) (*CouponService, *stubIndexer) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	idx := &stubIndexer{}
	return &CouponService{Repo: repo.New(db), Index: idx}, idx
}

func validCoupon(name string) CouponInput {
	return CouponInput{
		Name:           name,
		Code:           "SAVE10",
		Quantity:       100,
		Expiry:         time.Now().Add(30 * 24 * time.Hour),
		DiscountType:   "percentage",
		DiscountAmount: 10,
		Status:         "active",
	}
}

func TestCouponCreate(t *testing.T) {
	svc, idx := newTestCoupons(t)
	ctx := context.Background()

	coupon, err := svc.Create(ctx, validCoupon("welcome"))
	require.NoError(t, err)
	require.NotZero(t, coupon.ID)

	require.Len(t, idx.ops, 1)
	require.Equal(t, "index", idx.ops[0].Op)
}

func TestCouponCreateValidation(t *testing.T) {
	svc, _ := newTestCoupons(t)
	ctx := context.Background()

	in := validCoupon("bad")
	in.Name = ""
	in.DiscountType = "bogus"

	_, err := svc.Create(ctx, in)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Contains(t, appErr.Fields, "name")
	require.Contains(t, appErr.Fields, "discount_type")
}

func TestCouponNameConflict(t *testing.T) {
	svc, _ := newTestCoupons(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validCoupon("welcome"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, validCoupon("welcome"))
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	other, err := svc.Create(ctx, validCoupon("other"))
	require.NoError(t, err)

	// Renaming onto an existing name conflicts; keeping your own is fine.
	in := validCoupon("welcome")
	_, err = svc.Update(ctx, other.ID, in)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.Update(ctx, first.ID, validCoupon("welcome"))
	require.NoError(t, err)
}

func TestCouponUpdateAndDelete(t *testing.T) {
	svc, idx := newTestCoupons(t)
	ctx := context.Background()

	coupon, err := svc.Create(ctx, validCoupon("welcome"))
	require.NoError(t, err)

	in := validCoupon("welcome")
	in.DiscountAmount = 25
	updated, err := svc.Update(ctx, coupon.ID, in)
	require.NoError(t, err)
	require.Equal(t, float64(25), updated.DiscountAmount)

	require.NoError(t, svc.Delete(ctx, coupon.ID))
	require.Equal(t, "delete", idx.ops[len(idx.ops)-1].Op)

	_, err = svc.Get(ctx, coupon.ID)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCouponNotFound(t *testing.T) {
	svc, _ := newTestCoupons(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, 999)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Update(ctx, 999, validCoupon("ghost"))
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	err = svc.Delete(ctx, 999)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCouponListPagination(t *testing.T) {
	svc, _ := newTestCoupons(t)
	ctx := context.Background()

	names := []string{"alpha", "beta", "gamma"}
	for _, name := range names {
		_, err := svc.Create(ctx, validCoupon(name))
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, util.PageParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), page.Total)
	require.Equal(t, int64(2), page.TotalPages)

	filtered, err := svc.List(ctx, util.PageParams{Search: "bet"})
	require.NoError(t, err)
	require.Equal(t, int64(1), filtered.Total)
}
