package item

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

type CreateRequest struct {
	OwnerID     string
	Name        string
	Description string
	Available   bool
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, requesterID, id string, req UpdateRequest) (*Item, error)
	ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]*Item, int, error)
	// Search matches available items only. Blank text yields no results.
	Search(ctx context.Context, text string, page, pageSize int) ([]*Item, int, error)
}

type service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With().Str("component", "item").Logger(),
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return nil, ErrDescriptionRequired
	}

	it := &Item{
		OwnerID:     req.OwnerID,
		Name:        name,
		Description: desc,
		Available:   req.Available,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	s.logger.Info().Str("item_id", it.ID).Str("owner_id", it.OwnerID).Msg("item created")
	return it, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, requesterID, id string, req UpdateRequest) (*Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if it.OwnerID != requesterID {
		return nil, ErrNotOwner
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		it.Name = name
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if desc == "" {
			return nil, ErrDescriptionRequired
		}
		it.Description = desc
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]*Item, int, error) {
	return s.repo.List(ctx, Filter{
		OwnerID:  ownerID,
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *service) Search(ctx context.Context, text string, page, pageSize int) ([]*Item, int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, 0, nil
	}

	return s.repo.List(ctx, Filter{
		Text:          text,
		AvailableOnly: true,
		Page:          page,
		PageSize:      pageSize,
	})
}
