// Package banner holds the single transient success/error message shown on the account page.
package banner

import (
	"sync"
	"time"
)

// Kind distinguishes success and error banners.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Default lifetimes per operation family.
const (
	ShortTTL   = 2 * time.Second
	DefaultTTL = 3 * time.Second
	LongTTL    = 5 * time.Second
)

// Banner is one message. Seq increases with every banner posted on a Board.
type Banner struct {
	Seq       uint64    `json:"seq"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Board keeps at most one current banner. Posting replaces the previous banner,
// and Dismiss only clears the banner with the given sequence number.
type Board struct {
	mu      sync.Mutex
	seq     uint64
	current *Banner
	now     func() time.Time
}

func NewBoard() *Board {
	return &Board{now: time.Now}
}

// NewBoardWithClock is used by tests to control expiry.
func NewBoardWithClock(now func() time.Time) *Board {
	return &Board{now: now}
}

func (b *Board) Success(message string, ttl time.Duration) Banner {
	return b.post(KindSuccess, message, ttl)
}

func (b *Board) Error(message string, ttl time.Duration) Banner {
	return b.post(KindError, message, ttl)
}

func (b *Board) post(kind Kind, message string, ttl time.Duration) Banner {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	banner := Banner{
		Seq:       b.seq,
		Kind:      kind,
		Message:   message,
		ExpiresAt: b.now().Add(ttl),
	}
	b.current = &banner
	return banner
}

// Current returns the live banner, if any. Expired banners are cleared lazily.
func (b *Board) Current() (Banner, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Banner{}, false
	}
	if !b.now().Before(b.current.ExpiresAt) {
		b.current = nil
		return Banner{}, false
	}
	return *b.current, true
}

// Dismiss clears the current banner if it is still the one identified by seq.
// It reports whether anything was cleared.
func (b *Board) Dismiss(seq uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil || b.current.Seq != seq {
		return false
	}
	b.current = nil
	return true
}

// AutoDismiss schedules Dismiss for banner at its expiry and calls onDismiss if
// the banner was still current. The returned timer may be stopped early.
func (b *Board) AutoDismiss(banner Banner, onDismiss func()) *time.Timer {
	return time.AfterFunc(banner.ExpiresAt.Sub(b.now()), func() {
		if b.Dismiss(banner.Seq) && onDismiss != nil {
			onDismiss()
		}
	})
}
