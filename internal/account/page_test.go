package account

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-account-go/internal/banner"
	"storefront-account-go/internal/cache"
	"storefront-account-go/internal/core"
	"storefront-account-go/internal/models"
	"storefront-account-go/internal/session"
	"storefront-account-go/internal/storage"
	"storefront-account-go/internal/testutil"
)

type fixture struct {
	profiles  *testutil.FakeProfileRepo
	orders    *testutil.FakeOrderRepo
	notifs    *testutil.FakeNotificationRepo
	wishlists *testutil.FakeWishlistRepo
	coupons   *testutil.FakeCouponRepo
	support   *testutil.FakeSupportRepo
	recorder  *countingRecorder
	svc       Services
}

type countingRecorder struct {
	mu        sync.Mutex
	mutations map[string]int
	failures  map[string]int
	snapshots int
}

func (r *countingRecorder) Mutation(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.failures[op]++
		return
	}
	r.mutations[op]++
}

func (r *countingRecorder) CouponSnapshot(int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots++
}

type nopStorage struct{}

func (nopStorage) Put(context.Context, io.Reader, storage.PutInput) (storage.PutResult, error) {
	return storage.PutResult{}, errors.New("not used")
}
func (nopStorage) URL(context.Context, string) (string, error) { return "", errors.New("not used") }
func (nopStorage) Delete(context.Context, string) error        { return nil }

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		profiles: testutil.NewFakeProfileRepo(),
		orders: testutil.NewFakeOrderRepo(
			testutil.TestOrder("o-pending", "u1", models.OrderStatusPending, testNow.Add(-time.Hour)),
			testutil.TestOrder("o-confirmed", "u1", models.OrderStatusConfirmed, testNow.Add(-48*time.Hour)),
			testutil.TestOrder("o-other", "u2", models.OrderStatusPending, testNow.Add(-time.Hour)),
		),
		notifs:    &testutil.FakeNotificationRepo{},
		wishlists: testutil.NewFakeWishlistRepo(),
		coupons: testutil.NewFakeCouponRepo(
			testutil.TestCoupon("c1", "SAVE20", time.Now().Add(72*time.Hour)),
		),
		support: &testutil.FakeSupportRepo{},
		recorder: &countingRecorder{
			mutations: make(map[string]int),
			failures:  make(map[string]int),
		},
	}
	f.profiles.Profiles["u1"] = testutil.TestProfile("u1")
	f.wishlists.Items["u1"] = []models.Product{
		testutil.TestProduct("p1", 100, 150),
		testutil.TestProduct("p2", 200, 200),
	}

	logger := zap.NewNop()
	f.svc = Services{
		Profiles: core.NewProfileService(f.profiles, nopStorage{}, testutil.NewFakeIdentityUpdater(), 5*1024*1024, logger),
		Orders:   core.NewOrderService(f.orders, f.notifs, nil, "q", logger),
		Wishlist: core.NewWishlistService(f.wishlists, testutil.NewFakeCartRepo(), logger),
		Coupons:  core.NewCouponService(f.coupons, cache.NewMemoryCooldown(), logger),
		Support:  core.NewSupportService(f.support, f.profiles, nil, logger),
	}
	return f
}

func (f *fixture) openPage(t *testing.T, identity *session.Identity) (*Page, *session.Provider) {
	t.Helper()
	provider := session.NewProvider()
	page := NewPage(provider, f.svc, Options{LoginPath: "/login", Logger: zap.NewNop(), Recorder: f.recorder, LiveCoupons: true})
	t.Cleanup(page.Close)
	page.Open(context.Background())
	require.NoError(t, provider.Run(context.Background(), session.Static(identity)))
	return page, provider
}

var u1 = &session.Identity{UID: "u1", Email: "u1@example.com", DisplayName: "Asha Kumari"}

func TestPage_LoadsEverythingForIdentity(t *testing.T) {
	f := newFixture()
	page, _ := f.openPage(t, u1)

	snap := page.Snapshot(ViewQuery{})
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.RedirectTo)
	assert.Equal(t, TabProfile, snap.Tab)
	assert.Equal(t, "Asha Kumari", snap.Profile.Profile.DisplayName)
	assert.Equal(t, "AK", snap.Profile.Initials)

	require.Len(t, snap.Orders, 2)
	assert.Equal(t, "o-pending", snap.Orders[0].Order.ID)
	assert.True(t, snap.Orders[0].CanCancel)
	assert.False(t, snap.Orders[1].CanCancel)

	assert.Equal(t, 50.0, snap.Wishlist.TotalSavings)
	require.Len(t, snap.Coupons, 1)
	assert.Equal(t, "20% OFF", snap.Coupons[0].Discount)
	assert.Equal(t, "9876543210", snap.Support.Prefill.Mobile)

	assert.Equal(t, 1, f.coupons.LiveSubscriptions())
}

func TestPage_RedirectsWithoutIdentity(t *testing.T) {
	f := newFixture()
	page, _ := f.openPage(t, nil)

	snap := page.Snapshot(ViewQuery{})
	assert.Equal(t, "/login", snap.RedirectTo)
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.User)
	assert.Zero(t, f.coupons.LiveSubscriptions())

	_, err := page.SaveProfile(context.Background(), models.UpdateProfileRequest{DisplayName: "x"})
	assert.ErrorIs(t, err, core.ErrNotSignedIn)
}

func TestPage_CloseStopsSubscriptionAndIsIdempotent(t *testing.T) {
	f := newFixture()
	page, _ := f.openPage(t, u1)
	require.Equal(t, 1, f.coupons.LiveSubscriptions())

	page.Close()
	page.Close()
	assert.Zero(t, f.coupons.LiveSubscriptions())

	// pushes after close are ignored
	f.coupons.Push()
	assert.Len(t, page.Snapshot(ViewQuery{}).Coupons, 1)
}

type manualSource struct {
	ready chan func(*session.Identity)
}

func (s *manualSource) Watch(ctx context.Context, notify func(*session.Identity)) error {
	s.ready <- notify
	<-ctx.Done()
	return ctx.Err()
}

func TestPage_IdentityChangeTearsDownPreviousSubscription(t *testing.T) {
	f := newFixture()
	f.profiles.Profiles["u2"] = testutil.TestProfile("u2")
	provider := session.NewProvider()
	page := NewPage(provider, f.svc, Options{Logger: zap.NewNop(), LiveCoupons: true})
	defer page.Close()
	page.Open(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := &manualSource{ready: make(chan func(*session.Identity), 1)}
	go provider.Run(ctx, src)
	notify := <-src.ready

	notify(u1)
	assert.Equal(t, 1, f.coupons.LiveSubscriptions())

	notify(&session.Identity{UID: "u2", Email: "u2@example.com"})
	assert.Equal(t, 1, f.coupons.LiveSubscriptions())
	snap := page.Snapshot(ViewQuery{})
	assert.Equal(t, "u2", snap.User.UID)
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, "o-other", snap.Orders[0].Order.ID)
	assert.Empty(t, snap.Wishlist.Items)

	notify(nil)
	assert.Zero(t, f.coupons.LiveSubscriptions())
	snap = page.Snapshot(ViewQuery{})
	assert.Equal(t, "/login", snap.RedirectTo)
	assert.Empty(t, snap.Orders)
}

type gatedProfiles struct {
	core.ProfileService
	gateUID string
	entered chan struct{}
	release chan struct{}
}

func (g *gatedProfiles) Load(ctx context.Context, identity *session.Identity) (*models.Profile, error) {
	if identity.UID == g.gateUID {
		close(g.entered)
		<-g.release
	}
	return g.ProfileService.Load(ctx, identity)
}

func TestPage_DropsResultsOfSupersededIdentity(t *testing.T) {
	f := newFixture()
	f.profiles.Profiles["u2"] = &models.Profile{ID: "u2", DisplayName: "Ravi", Role: models.RoleUser}
	gated := &gatedProfiles{ProfileService: f.svc.Profiles, gateUID: "u1", entered: make(chan struct{}), release: make(chan struct{})}
	f.svc.Profiles = gated

	provider := session.NewProvider()
	page := NewPage(provider, f.svc, Options{Logger: zap.NewNop(), LiveCoupons: true})
	defer page.Close()
	page.Open(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := &manualSource{ready: make(chan func(*session.Identity), 1)}
	go provider.Run(ctx, src)
	notify := <-src.ready

	firstDone := make(chan struct{})
	go func() {
		notify(u1)
		close(firstDone)
	}()
	<-gated.entered

	notify(&session.Identity{UID: "u2", Email: "u2@example.com"})
	close(gated.release)
	select {
	case <-firstDone:
	case <-time.After(2 * time.Second):
		t.Fatal("superseded load did not finish")
	}

	snap := page.Snapshot(ViewQuery{})
	assert.Equal(t, "u2", snap.User.UID)
	assert.Equal(t, "Ravi", snap.Profile.Profile.DisplayName)
	assert.Equal(t, 1, f.coupons.LiveSubscriptions())
}

func TestPage_LoaderFailurePolicy(t *testing.T) {
	f := newFixture()
	f.profiles.GetErr = errors.New("unavailable")
	f.orders.ListErr = errors.New("index missing")
	f.coupons.SubErr = errors.New("permission denied")
	page, _ := f.openPage(t, u1)

	snap := page.Snapshot(ViewQuery{})
	require.NotNil(t, snap.Banner)
	assert.Equal(t, banner.KindError, snap.Banner.Kind)
	assert.Equal(t, "Failed to load profile", snap.Banner.Message)
	assert.Nil(t, snap.Profile.Profile)
	assert.Empty(t, snap.Orders)
	assert.Empty(t, snap.Coupons)
	assert.NotEmpty(t, snap.Wishlist.Items)
	assert.False(t, snap.Loading)
}

func TestPage_LiveCouponsReplaceList(t *testing.T) {
	f := newFixture()
	changes := make(chan struct{}, 16)
	provider := session.NewProvider()
	page := NewPage(provider, f.svc, Options{Logger: zap.NewNop(), Recorder: f.recorder, LiveCoupons: true, OnChange: func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}})
	defer page.Close()
	page.Open(context.Background())
	require.NoError(t, provider.Run(context.Background(), session.Static(u1)))

	f.coupons.Push(
		testutil.TestCoupon("c7", "FESTIVE", time.Now().Add(24*time.Hour)),
		testutil.TestCoupon("c8", "MONSOON", time.Now().Add(30*24*time.Hour)),
	)
	snap := page.Snapshot(ViewQuery{CouponQuery: "fest"})
	require.Len(t, snap.Coupons, 1)
	assert.Equal(t, "FESTIVE", snap.Coupons[0].Coupon.Code)
	assert.Len(t, page.Snapshot(ViewQuery{}).Coupons, 2)
	assert.NotEmpty(t, changes)
	assert.Equal(t, 2, f.recorder.snapshots)
}

func TestPage_SaveProfile(t *testing.T) {
	f := newFixture()
	page, _ := f.openPage(t, u1)

	_, err := page.SaveProfile(context.Background(), models.UpdateProfileRequest{DisplayName: "   "})
	assert.ErrorIs(t, err, core.ErrDisplayNameRequired)
	assert.Zero(t, f.profiles.UpsertCount())
	snap := page.Snapshot(ViewQuery{})
	require.NotNil(t, snap.Banner)
	assert.Equal(t, banner.KindError, snap.Banner.Kind)

	_, err = page.SaveProfile(context.Background(), models.UpdateProfileRequest{DisplayName: "Asha K", Mobile: "9000000000"})
	require.NoError(t, err)
	snap = page.Snapshot(ViewQuery{})
	assert.Equal(t, "Asha K", snap.Profile.Profile.DisplayName)
	require.NotNil(t, snap.Banner)
	assert.Equal(t, banner.KindSuccess, snap.Banner.Kind)
	assert.Equal(t, "Profile updated successfully!", snap.Banner.Message)
	assert.Equal(t, 1, f.recorder.mutations[OpSaveProfile])
	assert.Equal(t, 1, f.recorder.failures[OpSaveProfile])
}

func TestPage_CancelOrderFlow(t *testing.T) {
	f := newFixture()
	page, _ := f.openPage(t, u1)

	assert.ErrorIs(t, page.RequestCancel("o-confirmed"), core.ErrOrderNotCancellable)
	assert.ErrorIs(t, page.RequestCancel("o-other"), core.ErrOrderNotFound)

	require.NoError(t, page.RequestCancel("o-pending"))
	require.NoError(t, page.DeclineCancel())
	assert.Equal(t, core.CancelIdle, page.Snapshot(ViewQuery{}).CancelFlow.Step)
	assert.Zero(t, f.orders.UpdateCount())
	assert.Empty(t, f.notifs.All())

	require.NoError(t, page.RequestCancel("o-pending"))
	assert.Equal(t, core.CancelConfirmPending, page.Snapshot(ViewQuery{}).CancelFlow.Step)
	require.NoError(t, page.ConfirmCancel(context.Background()))

	snap := page.Snapshot(ViewQuery{OrderStatus: models.OrderStatusCancelled})
	assert.Equal(t, core.CancelIdle, snap.CancelFlow.Step)
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, "o-pending", snap.Orders[0].Order.ID)
	assert.False(t, snap.Orders[0].CanCancel)
	require.Len(t, f.notifs.All(), 1)
	assert.Equal(t, "o-pending", f.notifs.All()[0].OrderID)
}

func TestPage_CancelOrderWhenOrdersFailedToLoad(t *testing.T) {
	f := newFixture()
	f.orders.ListErr = errors.New("index missing")
	page, _ := f.openPage(t, u1)

	err := page.RequestCancel("o-pending")
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrOrderNotFound)
	assert.ErrorContains(t, err, "index missing")
	assert.Equal(t, core.CancelIdle, page.Snapshot(ViewQuery{}).CancelFlow.Step)
}

func TestPage_CancelOrderFailureKeepsDialogOpen(t *testing.T) {
	f := newFixture()
	page, _ := f.openPage(t, u1)
	f.orders.UpdateErr = errors.New("unavailable")

	require.NoError(t, page.RequestCancel("o-pending"))
	require.Error(t, page.ConfirmCancel(context.Background()))

	snap := page.Snapshot(ViewQuery{})
	assert.Equal(t, core.CancelFailed, snap.CancelFlow.Step)
	assert.Contains(t, snap.CancelFlow.Error, "unavailable")
	assert.Equal(t, models.OrderStatusPending, f.orders.Status("o-pending"))

	f.orders.UpdateErr = nil
	require.NoError(t, page.ConfirmCancel(context.Background()))
	assert.Equal(t, models.OrderStatusCancelled, f.orders.Status("o-pending"))
}

func TestPage_WishlistAndCoupons(t *testing.T) {
	f := newFixture()
	page, _ := f.openPage(t, u1)

	_, err := page.RemoveWishlistItem(context.Background(), "p1", false)
	assert.ErrorIs(t, err, core.ErrConfirmationRequired)
	assert.Zero(t, f.wishlists.Saves)

	items, err := page.RemoveWishlistItem(context.Background(), "p1", true)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Zero(t, page.Snapshot(ViewQuery{}).Wishlist.TotalSavings)

	require.NoError(t, page.AddToCart(context.Background(), "p2"))
	assert.Equal(t, "Added to cart!", page.Snapshot(ViewQuery{}).Banner.Message)

	res, err := page.CopyCoupon(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "SAVE20", res.Code)
	_, err = page.CopyCoupon(context.Background(), "c1")
	assert.ErrorIs(t, err, core.ErrCopyInFlight)
	assert.Equal(t, "Coupon code copied!", page.Snapshot(ViewQuery{}).Banner.Message)
}

func TestPage_SubmitSupport(t *testing.T) {
	f := newFixture()
	page, _ := f.openPage(t, u1)

	q, err := page.SubmitSupport(context.Background(), models.SupportQueryRequest{Comment: "My parcel is late"})
	require.NoError(t, err)
	assert.Equal(t, "9876543210", q.Mobile)

	snap := page.Snapshot(ViewQuery{})
	require.Len(t, snap.Support.Queries, 1)
	assert.Equal(t, banner.KindSuccess, snap.Banner.Kind)

	_, err = page.SubmitSupport(context.Background(), models.SupportQueryRequest{})
	assert.ErrorIs(t, err, core.ErrInvalidSupportQuery)
	assert.Equal(t, banner.KindError, page.Snapshot(ViewQuery{}).Banner.Kind)
}

func TestPage_Tabs(t *testing.T) {
	f := newFixture()
	page, _ := f.openPage(t, u1)

	page.ToggleSidebar()
	assert.True(t, page.Snapshot(ViewQuery{}).SidebarOpen)
	require.NoError(t, page.SelectTab("coupons"))
	snap := page.Snapshot(ViewQuery{})
	assert.Equal(t, TabCoupons, snap.Tab)
	assert.False(t, snap.SidebarOpen)

	assert.ErrorIs(t, page.SelectTab("settings"), ErrUnknownTab)
}

func TestPage_OneShotCouponsDoNotSubscribe(t *testing.T) {
	f := newFixture()
	provider := session.NewProvider()
	page := NewPage(provider, f.svc, Options{Logger: zap.NewNop()})
	defer page.Close()
	page.Open(context.Background())
	require.NoError(t, provider.Run(context.Background(), session.Static(u1)))

	assert.Zero(t, f.coupons.LiveSubscriptions())
	snap := page.Snapshot(ViewQuery{})
	require.Len(t, snap.Coupons, 1)
	assert.Equal(t, "SAVE20", snap.Coupons[0].Coupon.Code)
	assert.False(t, snap.Loading)
}
