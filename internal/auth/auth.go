// Package auth models the single-user session. The tracker is personal: at
// most one owner is signed in at a time, and every remote row belongs to
// that owner.
package auth

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSession is returned once the session has been ended.
var ErrNoSession = errors.New("no active session")

// Session identifies the signed-in owner.
type Session struct {
	Owner string `json:"owner"`
}

// Provider yields the current session and can end it. Ending the session is
// terminal for the provider instance; a new process starts a fresh one.
type Provider interface {
	Session(ctx context.Context) (Session, error)
	SignOut(ctx context.Context) error
}

// StaticProvider holds a session for a fixed owner until SignOut.
type StaticProvider struct {
	mu    sync.Mutex
	owner string
	ended bool
}

func NewStaticProvider(owner string) *StaticProvider {
	if owner == "" {
		owner = "local"
	}
	return &StaticProvider{owner: owner}
}

func (p *StaticProvider) Session(ctx context.Context) (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ended {
		return Session{}, ErrNoSession
	}
	return Session{Owner: p.owner}, nil
}

func (p *StaticProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ended = true
	return nil
}
