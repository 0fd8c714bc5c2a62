package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RhisavRay/Wallet-Wizard/internal/remote/memory"
	"github.com/RhisavRay/Wallet-Wizard/internal/remote/rest"
	"github.com/RhisavRay/Wallet-Wizard/internal/remote/sheets"
	"github.com/RhisavRay/Wallet-Wizard/internal/remote/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		return f.createMemoryBackend()
	case RESTBackend:
		return f.createRESTBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createMemoryBackend() (*Result, error) {
	store := memory.New()

	f.logger.Info("Initialized memory backend")

	return &Result{
		Store:   store,
		Cleanup: nil, // Nothing to release
	}, nil
}

func (f *DefaultFactory) createRESTBackend(config Config) (*Result, error) {
	client, err := rest.New(rest.Config{
		BaseURL:   config.RemoteAPIURL,
		APIKey:    config.RemoteAPIKey,
		AuthToken: config.RemoteAuthToken,
		Timeout:   config.RemoteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hosted row API client: %w", err)
	}

	f.logger.Info("Initialized rest backend", "base_url", config.RemoteAPIURL)

	return &Result{
		Store:   client,
		Cleanup: nil, // Plain HTTP client, nothing to release
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*Result, error) {
	client, err := sheets.New(ctx, sheets.Config{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		CredentialsJSON: config.GoogleServiceAccountJSON,
		CredentialsFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.GoogleSpreadsheetID)

	return &Result{
		Store:   client,
		Cleanup: nil, // No cleanup needed for sheets backend
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	store, err := sqlite.New(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &Result{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}
