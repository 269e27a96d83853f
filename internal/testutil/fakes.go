package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront-account-go/internal/db"
	"storefront-account-go/internal/models"
)

// FakeProfileRepo is an in-memory db.ProfileRepository.
type FakeProfileRepo struct {
	mu       sync.Mutex
	Profiles map[string]*models.Profile
	Upserts  []map[string]interface{}
	GetErr   error
	SetErr   error
}

func NewFakeProfileRepo() *FakeProfileRepo {
	return &FakeProfileRepo{Profiles: make(map[string]*models.Profile)}
}

func (f *FakeProfileRepo) GetByID(_ context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	p, ok := f.Profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile '%s': %w", userID, db.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *FakeProfileRepo) Upsert(_ context.Context, userID string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetErr != nil {
		return f.SetErr
	}
	f.Upserts = append(f.Upserts, fields)
	p, ok := f.Profiles[userID]
	if !ok {
		p = &models.Profile{ID: userID}
		f.Profiles[userID] = p
	}
	for k, v := range fields {
		switch k {
		case "displayName":
			p.DisplayName = v.(string)
		case "email":
			p.Email = v.(string)
		case "mobile":
			p.Mobile = v.(string)
		case "address":
			p.Address = v.(models.Address)
		case "dateOfBirth":
			p.DateOfBirth = v.(string)
		case "gender":
			p.Gender = v.(string)
		case "role":
			p.Role = v.(string)
		case "photoURL":
			p.PhotoURL = v.(string)
		case "createdAt":
			p.CreatedAt = v.(time.Time)
		}
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// UpsertCount returns how many writes reached the repository.
func (f *FakeProfileRepo) UpsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Upserts)
}

// FakeOrderRepo is an in-memory db.OrderRepository.
type FakeOrderRepo struct {
	mu        sync.Mutex
	Orders    map[string]*models.Order
	Updates   int
	ListErr   error
	UpdateErr error
}

func NewFakeOrderRepo(orders ...*models.Order) *FakeOrderRepo {
	f := &FakeOrderRepo{Orders: make(map[string]*models.Order)}
	for _, o := range orders {
		f.Orders[o.ID] = o
	}
	return f
}

func (f *FakeOrderRepo) ListByUser(_ context.Context, userID string) ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var out []*models.Order
	for _, o := range f.Orders {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *FakeOrderRepo) GetByID(_ context.Context, orderID string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.Orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order '%s': %w", orderID, db.ErrNotFound)
	}
	cp := *o
	return &cp, nil
}

func (f *FakeOrderRepo) UpdateStatus(_ context.Context, orderID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	o, ok := f.Orders[orderID]
	if !ok {
		return fmt.Errorf("order '%s': %w", orderID, db.ErrNotFound)
	}
	f.Updates++
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	if status == models.OrderStatusCancelled {
		at := o.UpdatedAt
		o.CancelledAt = &at
	}
	return nil
}

// Status returns the stored status of orderID.
func (f *FakeOrderRepo) Status(orderID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Orders[orderID].Status
}

// UpdateCount returns how many status writes succeeded.
func (f *FakeOrderRepo) UpdateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Updates
}

// FakeNotificationRepo is an in-memory db.NotificationRepository.
type FakeNotificationRepo struct {
	mu            sync.Mutex
	Notifications []*models.Notification
	Err           error
}

func (f *FakeNotificationRepo) Create(_ context.Context, n *models.Notification) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	cp := *n
	cp.ID = fmt.Sprintf("notif-%d", len(f.Notifications)+1)
	f.Notifications = append(f.Notifications, &cp)
	return cp.ID, nil
}

// All returns the stored notifications.
func (f *FakeNotificationRepo) All() []*models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Notification(nil), f.Notifications...)
}

// FakeWishlistRepo is an in-memory db.WishlistRepository.
type FakeWishlistRepo struct {
	mu      sync.Mutex
	Items   map[string][]models.Product
	Saves   int
	GetErr  error
	SaveErr error
}

func NewFakeWishlistRepo() *FakeWishlistRepo {
	return &FakeWishlistRepo{Items: make(map[string][]models.Product)}
}

func (f *FakeWishlistRepo) Get(_ context.Context, userID string) (*models.Wishlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	items, ok := f.Items[userID]
	if !ok {
		return nil, fmt.Errorf("wishlist '%s': %w", userID, db.ErrNotFound)
	}
	return &models.Wishlist{UserID: userID, Items: append([]models.Product(nil), items...)}, nil
}

func (f *FakeWishlistRepo) SaveItems(_ context.Context, userID string, items []models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.Saves++
	f.Items[userID] = append([]models.Product(nil), items...)
	return nil
}

// FakeCartRepo records products added to carts.
type FakeCartRepo struct {
	mu    sync.Mutex
	Added map[string][]models.Product
	Err   error
}

func NewFakeCartRepo() *FakeCartRepo {
	return &FakeCartRepo{Added: make(map[string][]models.Product)}
}

func (f *FakeCartRepo) AddProduct(_ context.Context, userID string, product models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Added[userID] = append(f.Added[userID], product)
	return nil
}

// FakeCouponRepo is an in-memory db.CouponRepository. Push delivers a new
// snapshot to every live subscription.
type FakeCouponRepo struct {
	mu        sync.Mutex
	Coupons   map[string]*models.Coupon
	ListErr   error
	SubErr    error
	subs      map[int]*FakeSubscription
	nextSubID int
}

func NewFakeCouponRepo(coupons ...*models.Coupon) *FakeCouponRepo {
	f := &FakeCouponRepo{Coupons: make(map[string]*models.Coupon), subs: make(map[int]*FakeSubscription)}
	for _, c := range coupons {
		f.Coupons[c.ID] = c
	}
	return f
}

func (f *FakeCouponRepo) GetByID(_ context.Context, couponID string) (*models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.Coupons[couponID]
	if !ok {
		return nil, fmt.Errorf("coupon '%s': %w", couponID, db.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (f *FakeCouponRepo) active(now time.Time) []*models.Coupon {
	var out []*models.Coupon
	for _, c := range f.Coupons {
		if c.IsActive && c.ExpiryDate.After(now) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out
}

func (f *FakeCouponRepo) ListActive(_ context.Context, now time.Time) ([]*models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.active(now), nil
}

func (f *FakeCouponRepo) SubscribeActive(_ context.Context, now time.Time, onSnapshot func([]*models.Coupon), onError func(error)) (db.Subscription, error) {
	f.mu.Lock()
	if f.SubErr != nil {
		err := f.SubErr
		f.mu.Unlock()
		return nil, err
	}
	id := f.nextSubID
	f.nextSubID++
	sub := &FakeSubscription{onSnapshot: onSnapshot, onError: onError, now: now}
	sub.stop = func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
	f.subs[id] = sub
	initial := f.active(now)
	f.mu.Unlock()

	onSnapshot(initial)
	return sub, nil
}

// Push replaces the coupon set and notifies live subscriptions.
func (f *FakeCouponRepo) Push(coupons ...*models.Coupon) {
	f.mu.Lock()
	f.Coupons = make(map[string]*models.Coupon, len(coupons))
	for _, c := range coupons {
		f.Coupons[c.ID] = c
	}
	subs := make([]*FakeSubscription, 0, len(f.subs))
	for _, s := range f.subs {
		subs = append(subs, s)
	}
	f.mu.Unlock()

	for _, s := range subs {
		f.mu.Lock()
		snapshot := f.active(s.now)
		f.mu.Unlock()
		s.onSnapshot(snapshot)
	}
}

// Fail delivers err to every live subscription.
func (f *FakeCouponRepo) Fail(err error) {
	f.mu.Lock()
	subs := make([]*FakeSubscription, 0, len(f.subs))
	for _, s := range f.subs {
		subs = append(subs, s)
	}
	f.mu.Unlock()
	for _, s := range subs {
		s.onError(err)
	}
}

// LiveSubscriptions returns how many subscriptions have not been stopped.
func (f *FakeCouponRepo) LiveSubscriptions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// FakeSubscription is returned by FakeCouponRepo.SubscribeActive.
type FakeSubscription struct {
	once       sync.Once
	stop       func()
	onSnapshot func([]*models.Coupon)
	onError    func(error)
	now        time.Time
}

func (s *FakeSubscription) Stop() {
	s.once.Do(s.stop)
}

// FakeSupportRepo is an in-memory db.SupportRepository.
type FakeSupportRepo struct {
	mu      sync.Mutex
	Queries []*models.SupportQuery
	Err     error
}

func (f *FakeSupportRepo) Create(_ context.Context, q *models.SupportQuery) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	cp := *q
	cp.ID = fmt.Sprintf("query-%d", len(f.Queries)+1)
	cp.CreatedAt = time.Now().UTC().Add(time.Duration(len(f.Queries)) * time.Millisecond)
	f.Queries = append(f.Queries, &cp)
	return cp.ID, nil
}

func (f *FakeSupportRepo) ListByMobile(_ context.Context, mobile string) ([]*models.SupportQuery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []*models.SupportQuery
	for _, q := range f.Queries {
		if q.Mobile == mobile {
			cp := *q
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// FakeIdentityUpdater records auth profile updates.
type FakeIdentityUpdater struct {
	mu           sync.Mutex
	DisplayNames map[string]string
	PhotoURLs    map[string]string
	Err          error
}

func NewFakeIdentityUpdater() *FakeIdentityUpdater {
	return &FakeIdentityUpdater{DisplayNames: make(map[string]string), PhotoURLs: make(map[string]string)}
}

func (f *FakeIdentityUpdater) UpdateDisplayName(_ context.Context, uid, displayName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.DisplayNames[uid] = displayName
	return nil
}

func (f *FakeIdentityUpdater) UpdatePhotoURL(_ context.Context, uid, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.PhotoURLs[uid] = url
	return nil
}
