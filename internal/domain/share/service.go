package share

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/nurturemyplants/plantcare/pkg/errors"
	"github.com/nurturemyplants/plantcare/pkg/util"
)

// Config controls share-link lifetime.
type Config struct {
	TTL time.Duration
}

// Service creates and resolves share links.
type Service interface {
	Create(ctx context.Context, data PlantData, sessionID string) (Entry, error)
	Get(ctx context.Context, code string) (Entry, bool, error)
}

type service struct {
	cfg    Config
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService is a wire provider for the share domain.
func NewService(cfg Config, store Store, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		store:  store,
		logger: logger.With("component", "share.service"),
		now:    util.NowUTC,
	}
}

func (s *service) Create(ctx context.Context, data PlantData, sessionID string) (Entry, error) {
	if data.Identification.CommonName == "" {
		return Entry{}, apperrors.Wrap("invalid_input", "plant data is required", nil)
	}

	now := s.now()
	entry := Entry{
		PlantData: data,
		SessionID: sessionID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TTL),
	}

	// Collision odds are ~1/36^6 per attempt, so this settles immediately
	// in practice.
	for {
		entry.ShareCode = NewCode()
		err := s.store.Save(ctx, entry)
		if err == nil {
			break
		}
		if errors.Is(err, ErrCodeTaken) {
			continue
		}
		return Entry{}, err
	}

	s.logger.Info("share link created", "share_code", entry.ShareCode,
		"plant", data.Identification.CommonName, "expires_at", entry.ExpiresAt)

	return entry, nil
}

func (s *service) Get(ctx context.Context, code string) (Entry, bool, error) {
	normalized := NormalizeCode(code)
	if len(normalized) != CodeLength {
		return Entry{}, false, nil
	}
	entry, ok, err := s.store.Get(ctx, normalized)
	if err != nil || !ok {
		return Entry{}, false, err
	}
	s.logger.Info("shared plant accessed", "share_code", normalized,
		"plant", entry.PlantData.Identification.CommonName)
	return entry, true, nil
}
