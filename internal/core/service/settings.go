package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/niksmo/local-market/internal/core/domain"
)

const settingsKey = "siteSettings"

func (s *Service) Settings(ctx context.Context) (domain.SiteSettings, error) {
	const op = "Service.Settings"

	if err := ctx.Err(); err != nil {
		return domain.SiteSettings{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.settings.Get(), nil
}

// SaveSettings persists v and then broadcasts it to subscribers.
func (s *Service) SaveSettings(
	ctx context.Context, v domain.SiteSettings,
) (domain.SiteSettings, error) {
	const op = "Service.SaveSettings"

	v.CompanyName = strings.TrimSpace(v.CompanyName)
	if v.CompanyName == "" {
		return domain.SiteSettings{}, fmt.Errorf(
			"%s: %w: company name is required", op, domain.ErrValidation,
		)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return domain.SiteSettings{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.kv.Set(ctx, settingsKey, string(raw)); err != nil {
		return domain.SiteSettings{}, fmt.Errorf("%s: %w", op, err)
	}

	s.settings.Set(v)
	slog.Info("site settings saved", "op", op, "companyName", v.CompanyName)
	return v, nil
}

// loadSettings reads persisted settings, falling back to the defaults
// when the entry is absent or unreadable.
func (s *Service) loadSettings(ctx context.Context) domain.SiteSettings {
	const op = "Service.loadSettings"
	log := slog.With("op", op)

	raw, err := s.kv.Get(ctx, settingsKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn("failed to read site settings, using defaults", "err", err)
		}
		return domain.DefaultSiteSettings()
	}

	var v domain.SiteSettings
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.Warn("unparseable site settings, using defaults", "err", err)
		return domain.DefaultSiteSettings()
	}
	return v
}
