// Package topics owns the theme catalog and each session's enabled
// theme set. A session may enable zero themes; the round engine
// enforces the non-empty requirement at round start, not here.
package topics

import (
	"context"
	"log/slog"

	"github.com/superawesomeme/La-Palabra-Negra/internal/dependencies/clock"
	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
	"github.com/superawesomeme/La-Palabra-Negra/internal/storage"
)

// Service manages theme selection for sessions
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new topics service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Catalog returns all theme groups in display order
func (s *Service) Catalog() []ThemeGroup {
	return catalog
}

// GroupNames returns the names of all theme groups
func (s *Service) GroupNames() []string {
	names := make([]string, len(catalog))
	for i, g := range catalog {
		names[i] = g.Name
	}
	return names
}

// IsKnown reports whether a theme group exists in the catalog
func (s *Service) IsKnown(theme string) bool {
	for _, g := range catalog {
		if g.Name == theme {
			return true
		}
	}
	return false
}

// ExpandPrompts returns the concrete category prompts for the given
// theme group names, skipping unknown names
func (s *Service) ExpandPrompts(themes []string) []string {
	var prompts []string
	for _, g := range catalog {
		for _, t := range themes {
			if g.Name == t {
				prompts = append(prompts, g.Prompts...)
				break
			}
		}
	}
	return prompts
}

// Toggle flips a theme group on or off for a session. Rejected while a
// round is in progress. Returns the new enabled state.
func (s *Service) Toggle(ctx context.Context, code model.SessionCode, theme string) (bool, error) {
	if !s.IsKnown(theme) {
		return false, model.ErrUnknownTheme
	}

	session, err := s.storage.GetSession(ctx, code)
	if err != nil {
		return false, err
	}

	if session.Phase.RoundInProgress() {
		return false, model.ErrRoundInProgress
	}

	enabled := false
	if session.ThemeEnabled(theme) {
		next := session.EnabledThemes[:0]
		for _, t := range session.EnabledThemes {
			if t != theme {
				next = append(next, t)
			}
		}
		session.EnabledThemes = next
	} else {
		session.EnabledThemes = append(session.EnabledThemes, theme)
		enabled = true
	}
	session.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return false, err
	}

	s.logger.Info("theme toggled",
		slog.String("session", string(code)),
		slog.String("theme", theme),
		slog.Bool("enabled", enabled),
	)

	return enabled, nil
}

// Enabled returns the enabled theme group names for a session
func (s *Service) Enabled(ctx context.Context, code model.SessionCode) ([]string, error) {
	session, err := s.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}
	return session.EnabledThemes, nil
}
