package backend

import (
	"context"
	"time"

	"github.com/RhisavRay/Wallet-Wizard/internal/remote"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the remote store instance and optional cleanup function
type Result struct {
	Store   remote.Store
	Cleanup CleanupFunc
}

// Factory creates remote stores based on configuration
type Factory interface {
	// CreateBackend creates a remote store instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type Type

	// Hosted row API specific
	RemoteAPIURL    string
	RemoteAPIKey    string
	RemoteAuthToken string
	RemoteTimeout   time.Duration

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// SQLite specific
	SQLiteDBPath string
}

// Type represents the kind of remote store backing the session
type Type string

const (
	MemoryBackend Type = "memory"
	RESTBackend   Type = "rest"
	SheetsBackend Type = "sheets"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, RESTBackend, SheetsBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
