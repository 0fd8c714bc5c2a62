package auth

import (
	"context"
	"errors"
	"testing"
)

func TestStaticProviderSession(t *testing.T) {
	p := NewStaticProvider("rhisav")

	s, err := p.Session(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Owner != "rhisav" {
		t.Fatalf("expected owner rhisav, got %q", s.Owner)
	}
}

func TestStaticProviderDefaultOwner(t *testing.T) {
	p := NewStaticProvider("")

	s, err := p.Session(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Owner != "local" {
		t.Fatalf("expected fallback owner local, got %q", s.Owner)
	}
}

func TestStaticProviderSignOut(t *testing.T) {
	p := NewStaticProvider("rhisav")

	if err := p.SignOut(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Session(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after sign-out, got %v", err)
	}

	// Signing out twice is harmless.
	if err := p.SignOut(context.Background()); err != nil {
		t.Fatalf("unexpected error on second sign-out: %v", err)
	}
}
