// Package services wires the session state to the remote store. Mutations
// for transactions, categories and accounts are optimistic: the local
// dispatch happens first and a detached goroutine forwards the write, with
// failures recorded as per-resource error strings and never rolled back.
// Budget mutations are pessimistic: the remote call runs synchronously and
// only canonical data reaches the state, since budget rows come back with
// server-derived fields the UI must not guess at.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/RhisavRay/Wallet-Wizard/internal/auth"
	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/events"
	"github.com/RhisavRay/Wallet-Wizard/internal/remote"
	"github.com/RhisavRay/Wallet-Wizard/internal/state"
)

var (
	ErrMissingID = errors.New("missing id")

	// Budget creation rules, checked before any state change or remote call.
	ErrUnknownCategory    = errors.New("budget category does not exist")
	ErrNotExpenseCategory = errors.New("budget category must be an expense category")
	ErrDuplicateBudget    = errors.New("budget already exists for this category and month")
)

// Tracker is the dispatch wrapper around the state store.
type Tracker struct {
	store     *state.Store
	remote    remote.Store
	auth      auth.Provider
	publisher events.Publisher // optional
	wg        sync.WaitGroup
}

func NewTracker(store *state.Store, remoteStore remote.Store, authProvider auth.Provider, publisher events.Publisher) *Tracker {
	return &Tracker{
		store:     store,
		remote:    remoteStore,
		auth:      authProvider,
		publisher: publisher,
	}
}

// State returns the current session snapshot.
func (t *Tracker) State() state.State {
	return t.store.State()
}

// Revision counts applied actions, see state.Store.
func (t *Tracker) Revision() uint64 {
	return t.store.Revision()
}

// Snapshot returns the state paired with its revision.
func (t *Tracker) Snapshot() (state.State, uint64) {
	return t.store.Snapshot()
}

// PatchFilter merges a partial filter update into the session.
func (t *Tracker) PatchFilter(patch state.FilterPatch) {
	t.store.Dispatch(state.PatchFilter{Patch: patch})
}

// SetReferenceDate moves the period anchor.
func (t *Tracker) SetReferenceDate(d core.Date) {
	t.store.Dispatch(state.SetReferenceDate{Date: d})
}

// LoadAll fetches the four collections concurrently. The fetches are
// independent: each resource sets its loading flag before the fetch, clears
// it after, and records its own error string on failure without cancelling
// the others. The returned error is the first failure, for logging only.
func (t *Tracker) LoadAll(ctx context.Context) error {
	if _, err := t.auth.Session(ctx); err != nil {
		for _, r := range core.Resources() {
			t.fail(ctx, r, "fetch", remote.ErrUnauthenticated)
		}
		return remote.ErrUnauthenticated
	}

	var g errgroup.Group
	g.Go(func() error {
		return refresh(ctx, t, core.ResourceTransactions, t.remote.FetchTransactions, func(items []core.Transaction) state.Action {
			return state.SetTransactions{Items: items}
		})
	})
	g.Go(func() error {
		return refresh(ctx, t, core.ResourceCategories, t.remote.FetchCategories, func(items []core.Category) state.Action {
			return state.SetCategories{Items: items}
		})
	})
	g.Go(func() error {
		return refresh(ctx, t, core.ResourceAccounts, t.remote.FetchAccounts, func(items []core.Account) state.Action {
			return state.SetAccounts{Items: items}
		})
	})
	g.Go(func() error {
		return refresh(ctx, t, core.ResourceBudgets, t.remote.FetchBudgets, func(items []core.Budget) state.Action {
			return state.SetBudgets{Items: items}
		})
	})
	return g.Wait()
}

func refresh[T any](ctx context.Context, t *Tracker, resource core.Resource, fetch func(context.Context) ([]T, error), replace func([]T) state.Action) error {
	t.store.Dispatch(state.SetLoading{Resource: resource, Loading: true})
	defer t.store.Dispatch(state.SetLoading{Resource: resource, Loading: false})

	items, err := fetch(ctx)
	if err != nil {
		t.fail(ctx, resource, "fetch", err)
		return err
	}
	t.store.Dispatch(replace(items))
	t.clearError(resource)
	return nil
}

// SignOut ends the session and drops the session-scoped data. The filter
// survives so a fresh sign-in lands on the same view.
func (t *Tracker) SignOut(ctx context.Context) error {
	if err := t.auth.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	t.store.Dispatch(state.SetTransactions{Items: nil})
	t.store.Dispatch(state.SetCategories{Items: nil})
	t.store.Dispatch(state.SetAccounts{Items: nil})
	t.store.Dispatch(state.SetBudgets{Items: nil})
	for _, r := range core.Resources() {
		t.clearError(r)
	}
	slog.InfoContext(ctx, "Session ended, local data cleared")
	return nil
}

// Session reports the active session.
func (t *Tracker) Session(ctx context.Context) (auth.Session, error) {
	return t.auth.Session(ctx)
}

// Wait blocks until every in-flight detached remote write has finished.
// Shutdown and tests use it; the request path never does.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// forward runs one remote write in a detached goroutine. The goroutine gets
// a fresh context so it outlives the request that triggered it: in-flight
// writes have no cancellation. On success the canonical follow-up action is
// dispatched and the resource error cleared; on failure the error string is
// set and the optimistic local change stays.
func (t *Tracker) forward(resource core.Resource, op events.Operation, id string, call func(ctx context.Context) (state.Action, error)) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx := context.Background()
		followUp, err := call(ctx)
		if err != nil {
			t.fail(ctx, resource, string(op), err)
			return
		}
		if followUp != nil {
			t.store.Dispatch(followUp)
		}
		t.clearError(resource)
		t.publish(ctx, resource, op, id)
	}()
}

// gate refuses the mutation when no session is active. Reported exactly like
// a remote failure.
func (t *Tracker) gate(ctx context.Context, resource core.Resource, op string) error {
	if _, err := t.auth.Session(ctx); err != nil {
		t.fail(ctx, resource, op, remote.ErrUnauthenticated)
		return remote.ErrUnauthenticated
	}
	return nil
}

func (t *Tracker) fail(ctx context.Context, resource core.Resource, op string, err error) {
	slog.ErrorContext(ctx, "Remote operation failed",
		"resource", resource,
		"op", op,
		"error", err)
	t.store.Dispatch(state.SetResourceError{Resource: resource, Message: err.Error()})
}

func (t *Tracker) clearError(resource core.Resource) {
	t.store.Dispatch(state.SetResourceError{Resource: resource, Message: ""})
}

func (t *Tracker) publish(ctx context.Context, resource core.Resource, op events.Operation, id string) {
	if t.publisher == nil {
		return
	}
	if err := t.publisher.Publish(ctx, events.NewChange(resource, op, id)); err != nil {
		slog.WarnContext(ctx, "Failed to publish change",
			"resource", resource,
			"op", op,
			"id", id,
			"error", err)
	}
}
