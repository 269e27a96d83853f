// Package session tracks the signed-in identity and notifies subscribers when it changes.
package session

import (
	"context"
	"sync"
)

// Identity is the authenticated user handle.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// State is the read-only session signal. Loading stays true until the first
// notification from the Source arrives.
type State struct {
	User    *Identity `json:"user"`
	Loading bool      `json:"loading"`
}

// Source delivers identity changes. A nil identity means signed out.
// Watch blocks until ctx is done or the source has nothing more to report.
type Source interface {
	Watch(ctx context.Context, notify func(*Identity)) error
}

// Provider fans out identity changes from a Source to subscribers.
type Provider struct {
	mu     sync.Mutex
	state  State
	nextID int
	subs   map[int]func(State)
	order  []int
}

func NewProvider() *Provider {
	return &Provider{
		state: State{Loading: true},
		subs:  make(map[int]func(State)),
	}
}

// State returns the current session state.
func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Subscribe registers fn for state changes. fn is called immediately with the
// current state when the session has already resolved. The returned func
// unsubscribes and may be called more than once.
func (p *Provider) Subscribe(fn func(State)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.order = append(p.order, id)
	current := p.state
	p.mu.Unlock()

	if !current.Loading {
		fn(current)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
			for i, v := range p.order {
				if v == id {
					p.order = append(p.order[:i], p.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Run watches src until it returns and publishes every notification.
func (p *Provider) Run(ctx context.Context, src Source) error {
	return src.Watch(ctx, p.publish)
}

func (p *Provider) publish(identity *Identity) {
	p.mu.Lock()
	if identity != nil {
		cp := *identity
		identity = &cp
	}
	p.state = State{User: identity, Loading: false}
	current := p.state
	fns := make([]func(State), 0, len(p.order))
	for _, id := range p.order {
		fns = append(fns, p.subs[id])
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(current)
	}
}

type staticSource struct {
	identity *Identity
}

// Static returns a Source that reports identity once and returns.
func Static(identity *Identity) Source {
	return staticSource{identity: identity}
}

func (s staticSource) Watch(ctx context.Context, notify func(*Identity)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	notify(s.identity)
	return nil
}
