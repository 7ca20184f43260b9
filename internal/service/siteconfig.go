package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/bogdan-labs/bogdanai/internal/storage"
)

// SiteConfigService holds free-form admin-editable settings as a flat
// string map under one shared key.
type SiteConfigService struct {
	store storage.Store
}

func NewSiteConfigService(store storage.Store) *SiteConfigService {
	return &SiteConfigService{store: store}
}

func (s *SiteConfigService) All(ctx context.Context) (map[string]string, error) {
	raw, ok, err := s.store.Get(ctx, storage.KeySiteConfig)
	if err != nil {
		return nil, fmt.Errorf("load site config: %w", err)
	}
	if !ok {
		return map[string]string{}, nil
	}
	var values map[string]string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode site config: %w", err)
	}
	return values, nil
}

func (s *SiteConfigService) Get(ctx context.Context, key string) (string, error) {
	values, err := s.All(ctx)
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (s *SiteConfigService) Set(ctx context.Context, key, value string) error {
	values, err := s.All(ctx)
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(ctx, values)
}

func (s *SiteConfigService) Unset(ctx context.Context, key string) error {
	values, err := s.All(ctx)
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return domain.ErrNotFound
	}
	delete(values, key)
	return s.save(ctx, values)
}

func (s *SiteConfigService) save(ctx context.Context, values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode site config: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeySiteConfig, string(data)); err != nil {
		return fmt.Errorf("save site config: %w", err)
	}
	return nil
}
