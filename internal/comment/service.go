package comment

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/rental-backend/internal/item"
	"github.com/nekogravitycat/rental-backend/internal/pkg/clock"
)

type ItemLookup interface {
	GetByID(ctx context.Context, id string) (*item.Item, error)
}

// CompletionChecker reports whether a user has finished an approved
// booking of an item.
type CompletionChecker interface {
	HasCompletedBooking(ctx context.Context, bookerID, itemID string) (bool, error)
}

type Service interface {
	Create(ctx context.Context, authorID, itemID, text string) (*Comment, error)
	ListByItem(ctx context.Context, itemID string) ([]*Comment, error)
}

type service struct {
	repo      Repository
	items     ItemLookup
	completed CompletionChecker
	clock     clock.Clock
	logger    zerolog.Logger
}

func NewService(repo Repository, items ItemLookup, completed CompletionChecker, c clock.Clock, logger zerolog.Logger) Service {
	return &service{
		repo:      repo,
		items:     items,
		completed: completed,
		clock:     c,
		logger:    logger.With().Str("component", "comment").Logger(),
	}
}

func (s *service) Create(ctx context.Context, authorID, itemID, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextRequired
	}

	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	ok, err := s.completed.HasCompletedBooking(ctx, authorID, itemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCommentNotAllowed
	}

	cm := &Comment{
		ItemID:    itemID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Create(ctx, cm); err != nil {
		return nil, err
	}

	s.logger.Info().Str("comment_id", cm.ID).Str("item_id", itemID).Str("author_id", authorID).Msg("comment created")
	return cm, nil
}

func (s *service) ListByItem(ctx context.Context, itemID string) ([]*Comment, error) {
	return s.repo.ListByItem(ctx, itemID)
}
