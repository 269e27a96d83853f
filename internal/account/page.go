// Package account composes the session, loaders and mutation handlers of the
// account area into one page state.
package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront-account-go/internal/banner"
	"storefront-account-go/internal/core"
	"storefront-account-go/internal/db"
	"storefront-account-go/internal/models"
	"storefront-account-go/internal/session"
)

// Tab is a section of the account page.
type Tab string

const (
	TabProfile  Tab = "profile"
	TabOrders   Tab = "orders"
	TabWishlist Tab = "wishlist"
	TabCoupons  Tab = "coupons"
	TabHelp     Tab = "help"
)

// ErrUnknownTab is returned by SelectTab for names outside the known tabs.
var ErrUnknownTab = errors.New("unknown tab")

// ParseTab validates a tab name. Empty means the profile tab.
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case "":
		return TabProfile, nil
	case TabProfile, TabOrders, TabWishlist, TabCoupons, TabHelp:
		return Tab(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// Services are the loaders and mutation handlers used by a Page.
type Services struct {
	Profiles core.ProfileService
	Orders   core.OrderService
	Wishlist core.WishlistService
	Coupons  core.CouponService
	Support  core.SupportService
}

// Recorder observes page activity. middleware.Metrics implements it.
type Recorder interface {
	Mutation(operation string, err error)
	CouponSnapshot(size int)
}

type nopRecorder struct{}

func (nopRecorder) Mutation(string, error) {}
func (nopRecorder) CouponSnapshot(int)     {}

// Options configure a Page.
type Options struct {
	LoginPath string
	Logger    *zap.Logger
	Recorder  Recorder
	// LiveCoupons keeps a coupon subscription open. Otherwise coupons are read once.
	LiveCoupons bool
	// OnChange is called after every state change, outside the page lock.
	OnChange func()
	Now      func() time.Time
}

// Page is the account page orchestrator. All methods are safe for concurrent use.
type Page struct {
	svc       Services
	provider  *session.Provider
	board     *banner.Board
	logger    *zap.Logger
	recorder  Recorder
	loginPath string
	live      bool
	onChange  func()
	now       func() time.Time

	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	closed      bool
	generation  uint64
	couponSub   db.Subscription
	timers      []*time.Timer

	tab            Tab
	sidebarOpen    bool
	loading        bool
	redirectTo     string
	identity       *session.Identity
	profile        *models.Profile
	orders         []*models.Order
	ordersErr      error
	wishlist       []models.Product
	coupons        []*models.Coupon
	supportPrefill *core.SupportPrefill
	supportQueries []*models.SupportQuery
	cancelFlow     *core.CancelFlow
}

func NewPage(provider *session.Provider, svc Services, opts Options) *Page {
	p := &Page{
		svc:       svc,
		provider:  provider,
		logger:    opts.Logger,
		recorder:  opts.Recorder,
		loginPath: opts.LoginPath,
		live:      opts.LiveCoupons,
		onChange:  opts.OnChange,
		now:       opts.Now,
		tab:       TabProfile,
		loading:   true,
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.recorder == nil {
		p.recorder = nopRecorder{}
	}
	if p.loginPath == "" {
		p.loginPath = "/login"
	}
	if p.now == nil {
		p.now = time.Now
	}
	p.board = banner.NewBoardWithClock(p.now)
	p.cancelFlow = core.NewCancelFlow(p.cancelOrder)
	return p
}

// Open subscribes the page to the session. Loading starts as soon as the
// session resolves to an identity; an absent identity sets RedirectTo.
func (p *Page) Open(ctx context.Context) {
	p.mu.Lock()
	if p.closed || p.cancel != nil {
		p.mu.Unlock()
		return
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	unsubscribe := p.provider.Subscribe(p.onSession)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		unsubscribe()
		return
	}
	p.unsubscribe = unsubscribe
	p.mu.Unlock()
}

// Close releases the session subscription, the coupon subscription and any
// pending banner timers. It is safe to call more than once.
func (p *Page) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.generation++
	unsubscribe := p.unsubscribe
	sub := p.couponSub
	p.couponSub = nil
	cancel := p.cancel
	timers := p.timers
	p.timers = nil
	p.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if sub != nil {
		sub.Stop()
	}
	if cancel != nil {
		cancel()
	}
	for _, t := range timers {
		t.Stop()
	}
}

func (p *Page) onSession(st session.State) {
	if st.Loading {
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if st.User != nil && p.identity != nil && p.identity.UID == st.User.UID {
		p.identity = st.User
		p.mu.Unlock()
		p.changed()
		return
	}

	p.generation++
	gen := p.generation
	sub := p.couponSub
	p.couponSub = nil
	p.identity = st.User
	p.profile = nil
	p.orders = nil
	p.ordersErr = nil
	p.wishlist = nil
	p.coupons = nil
	p.supportPrefill = nil
	p.supportQueries = nil
	p.cancelFlow.Reset()
	ctx := p.ctx
	if st.User == nil {
		p.redirectTo = p.loginPath
		p.loading = false
	} else {
		p.redirectTo = ""
		p.loading = true
	}
	p.mu.Unlock()

	if sub != nil {
		sub.Stop()
	}
	if st.User == nil {
		p.logger.Info("No session, redirecting", zap.String("to", p.loginPath))
		p.changed()
		return
	}
	p.changed()
	p.load(ctx, gen, st.User)
}

// current runs fn under the lock when gen is still the live generation.
func (p *Page) current(gen uint64, fn func()) bool {
	p.mu.Lock()
	if p.closed || p.generation != gen {
		p.mu.Unlock()
		return false
	}
	fn()
	p.mu.Unlock()
	return true
}

func (p *Page) load(ctx context.Context, gen uint64, identity *session.Identity) {
	uid := identity.UID
	var g errgroup.Group

	g.Go(func() error {
		profile, err := p.svc.Profiles.Load(ctx, identity)
		if err != nil {
			p.logger.Error("Failed to load profile", zap.String("userID", uid), zap.Error(err))
			p.current(gen, func() { p.postLocked(banner.KindError, "Failed to load profile", banner.LongTTL) })
			return nil
		}
		p.current(gen, func() { p.profile = profile })
		return nil
	})
	g.Go(func() error {
		orders, err := p.svc.Orders.List(ctx, uid)
		if err != nil {
			p.logger.Warn("Failed to load orders", zap.String("userID", uid), zap.Error(err))
			p.current(gen, func() { p.ordersErr = err })
			return nil
		}
		p.current(gen, func() { p.orders = orders })
		return nil
	})
	g.Go(func() error {
		items, err := p.svc.Wishlist.Load(ctx, uid)
		if err != nil {
			p.logger.Warn("Failed to load wishlist", zap.String("userID", uid), zap.Error(err))
			return nil
		}
		p.current(gen, func() { p.wishlist = items })
		return nil
	})
	g.Go(func() error {
		p.loadSupport(ctx, gen, identity)
		return nil
	})
	_ = g.Wait()

	if !p.live {
		coupons, err := p.svc.Coupons.ListActive(ctx)
		if err != nil {
			p.logger.Warn("Failed to load coupons", zap.String("userID", uid), zap.Error(err))
			coupons = []*models.Coupon{}
		}
		if p.current(gen, func() {
			p.coupons = coupons
			p.loading = false
		}) {
			p.changed()
		}
		return
	}

	sub, err := p.svc.Coupons.Watch(ctx,
		func(coupons []*models.Coupon) { p.applyCoupons(gen, coupons) },
		func(err error) {
			p.logger.Warn("Coupon subscription failed", zap.String("userID", uid), zap.Error(err))
			if p.current(gen, func() { p.coupons = []*models.Coupon{} }) {
				p.changed()
			}
		})
	if err != nil {
		p.logger.Warn("Failed to subscribe to coupons", zap.String("userID", uid), zap.Error(err))
		p.current(gen, func() { p.coupons = []*models.Coupon{} })
	}

	live := p.current(gen, func() {
		p.couponSub = sub
		p.loading = false
	})
	if !live {
		if sub != nil {
			sub.Stop()
		}
		return
	}
	p.changed()
}

func (p *Page) loadSupport(ctx context.Context, gen uint64, identity *session.Identity) {
	prefill, err := p.svc.Support.Prefill(ctx, identity)
	if err != nil {
		p.logger.Warn("Failed to load support prefill", zap.String("userID", identity.UID), zap.Error(err))
		return
	}
	queries, err := p.svc.Support.ListMine(ctx, identity)
	if err != nil {
		p.logger.Warn("Failed to load support queries", zap.String("userID", identity.UID), zap.Error(err))
	}
	p.current(gen, func() {
		p.supportPrefill = prefill
		if err == nil {
			p.supportQueries = queries
		}
	})
}

func (p *Page) applyCoupons(gen uint64, coupons []*models.Coupon) {
	if coupons == nil {
		coupons = []*models.Coupon{}
	}
	if p.current(gen, func() { p.coupons = coupons }) {
		p.recorder.CouponSnapshot(len(coupons))
		p.changed()
	}
}

func (p *Page) changed() {
	if p.onChange != nil {
		p.onChange()
	}
}

// postLocked replaces the banner and schedules its dismissal. Caller holds p.mu.
func (p *Page) postLocked(kind banner.Kind, message string, ttl time.Duration) {
	var b banner.Banner
	if kind == banner.KindError {
		b = p.board.Error(message, ttl)
	} else {
		b = p.board.Success(message, ttl)
	}
	p.timers = append(p.timers, p.board.AutoDismiss(b, p.changed))
	if len(p.timers) > 8 {
		p.timers = p.timers[len(p.timers)-8:]
	}
}

func (p *Page) post(kind banner.Kind, message string, ttl time.Duration) {
	p.mu.Lock()
	if !p.closed {
		p.postLocked(kind, message, ttl)
	}
	p.mu.Unlock()
	p.changed()
}

// session returns the live identity and generation, or ErrNotSignedIn.
func (p *Page) session() (*session.Identity, uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.identity == nil || p.closed {
		return nil, 0, core.ErrNotSignedIn
	}
	return p.identity, p.generation, nil
}

// SelectTab switches the active tab and closes the mobile sidebar.
func (p *Page) SelectTab(name string) error {
	tab, err := ParseTab(name)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.tab = tab
	p.sidebarOpen = false
	p.mu.Unlock()
	p.changed()
	return nil
}

// ToggleSidebar flips mobile sidebar visibility.
func (p *Page) ToggleSidebar() {
	p.mu.Lock()
	p.sidebarOpen = !p.sidebarOpen
	p.mu.Unlock()
	p.changed()
}
