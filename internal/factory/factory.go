// Package factory wires the application's services together.
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/superawesomeme/La-Palabra-Negra/internal/dependencies/clock"
	"github.com/superawesomeme/La-Palabra-Negra/internal/dependencies/random"
	"github.com/superawesomeme/La-Palabra-Negra/internal/provider"
	"github.com/superawesomeme/La-Palabra-Negra/internal/provider/gemini"
	providermocks "github.com/superawesomeme/La-Palabra-Negra/internal/provider/mocks"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/roster"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/round"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/session"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/topics"
	"github.com/superawesomeme/La-Palabra-Negra/internal/sse"
	"github.com/superawesomeme/La-Palabra-Negra/internal/storage"
	"github.com/superawesomeme/La-Palabra-Negra/internal/storage/memory"
	redisstorage "github.com/superawesomeme/La-Palabra-Negra/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Provider type constants
const (
	ProviderTypeGemini = "gemini"
	ProviderTypeMock   = "mock"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock    clock.Clock
	Random   random.Random
	Provider provider.ContentProvider

	// Services
	TopicsService  *topics.Service
	RosterService  *roster.Service
	SessionService *session.Service
	RoundEngine    *round.Engine
	HubManager     *sse.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// ProviderType selects the content provider ("gemini" or "mock")
	// If empty, defaults to "gemini" when an API key is set, "mock" otherwise
	ProviderType string
	// GeminiConfig holds Gemini API settings (required if ProviderType is "gemini")
	GeminiConfig gemini.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Create the content provider
	providerType := cfg.ProviderType
	if providerType == "" {
		if cfg.GeminiConfig.APIKey != "" {
			providerType = ProviderTypeGemini
		} else {
			providerType = ProviderTypeMock
		}
	}

	var contentProvider provider.ContentProvider
	switch providerType {
	case ProviderTypeGemini:
		if cfg.GeminiConfig.APIKey == "" {
			return nil, errors.New("GeminiConfig.APIKey required when ProviderType is gemini")
		}
		contentProvider = gemini.New(cfg.GeminiConfig, rnd)
	case ProviderTypeMock:
		contentProvider = providermocks.NewMockProvider()
	default:
		return nil, errors.New("invalid ProviderType: must be 'gemini' or 'mock'")
	}

	return newWithDependencies(store, contentProvider, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	contentProvider provider.ContentProvider,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *App {
	// Create services
	topicsService := topics.New(store, clk, logger)
	rosterService := roster.New(store, clk, rnd, logger)
	sessionService := session.New(store, rosterService, topicsService, clk, rnd, logger)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	roundEngine := round.New(store, contentProvider, topicsService, clk, logger, broadcaster)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Provider:       contentProvider,
		TopicsService:  topicsService,
		RosterService:  rosterService,
		SessionService: sessionService,
		RoundEngine:    roundEngine,
		HubManager:     hubManager,
	}
}
