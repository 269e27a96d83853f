package account

import (
	"time"

	"storefront-account-go/internal/banner"
	"storefront-account-go/internal/core"
	"storefront-account-go/internal/models"
	"storefront-account-go/internal/session"
	"storefront-account-go/internal/views"
)

// ViewQuery holds the client-side filters applied when rendering a snapshot.
type ViewQuery struct {
	OrderStatus  string
	OrderSort    string
	CouponFilter string
	CouponQuery  string
}

// SupportView is the help tab state.
type SupportView struct {
	Prefill *core.SupportPrefill   `json:"prefill,omitempty"`
	Queries []*models.SupportQuery `json:"queries"`
}

// Snapshot is an immutable rendering of the page.
type Snapshot struct {
	Tab          Tab                   `json:"tab"`
	SidebarOpen  bool                  `json:"sidebarOpen"`
	Loading      bool                  `json:"loading"`
	RedirectTo   string                `json:"redirectTo,omitempty"`
	User         *session.Identity     `json:"user,omitempty"`
	Banner       *banner.Banner        `json:"banner,omitempty"`
	Profile      views.ProfileCard     `json:"profile"`
	Orders       []views.OrderCard     `json:"orders"`
	StatusCounts map[string]int        `json:"statusCounts"`
	Wishlist     views.WishlistSummary `json:"wishlist"`
	Coupons      []views.CouponCard    `json:"coupons"`
	Support      SupportView           `json:"support"`
	CancelFlow   core.CancelFlowState  `json:"cancelFlow"`
	RenderedAt   time.Time             `json:"renderedAt"`
}

// Snapshot renders the current state. Derived views are recomputed on every call.
func (p *Page) Snapshot(q ViewQuery) Snapshot {
	p.mu.Lock()
	tab := p.tab
	sidebar := p.sidebarOpen
	loading := p.loading
	redirect := p.redirectTo
	identity := p.identity
	profile := p.profile
	orders := p.orders
	wishlist := p.wishlist
	coupons := p.coupons
	prefill := p.supportPrefill
	queries := p.supportQueries
	p.mu.Unlock()

	now := p.now()
	snap := Snapshot{
		Tab:          tab,
		SidebarOpen:  sidebar,
		Loading:      loading,
		RedirectTo:   redirect,
		User:         identity,
		Profile:      views.ToProfileCard(profile),
		Orders:       views.ToOrderCards(orders, q.OrderStatus, q.OrderSort),
		StatusCounts: views.StatusCounts(orders),
		Wishlist:     views.SummarizeWishlist(wishlist),
		Coupons:      views.ToCouponCards(views.FilterCoupons(coupons, q.CouponFilter, q.CouponQuery, now), now),
		Support:      SupportView{Prefill: prefill, Queries: queries},
		CancelFlow:   p.cancelFlow.State(),
		RenderedAt:   now,
	}
	if snap.Support.Queries == nil {
		snap.Support.Queries = []*models.SupportQuery{}
	}
	if b, ok := p.board.Current(); ok {
		snap.Banner = &b
	}
	return snap
}
