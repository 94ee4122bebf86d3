package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/rental-backend/internal/item"
	"github.com/nekogravitycat/rental-backend/internal/metrics"
	"github.com/nekogravitycat/rental-backend/internal/pkg/clock"
	"github.com/nekogravitycat/rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-backend/internal/user"
)

// UserLookup resolves booker identities.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// ItemLookup resolves the item being booked.
type ItemLookup interface {
	GetByID(ctx context.Context, id string) (*item.Item, error)
}

type CreateRequest struct {
	BookerID string
	ItemID   string
	Start    time.Time
	End      time.Time
}

// Service is the booking lifecycle and query API.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	// GetByID is restricted to the booker and the item owner.
	GetByID(ctx context.Context, requesterID, id string) (*Booking, error)
	// Patch approves or rejects a waiting booking. Owner only, single use.
	Patch(ctx context.Context, requesterID, id string, approve bool) (*Booking, error)
	ListByBooker(ctx context.Context, bookerID, state string, page, pageSize int) ([]*Booking, int, error)
	ListByOwner(ctx context.Context, ownerID, state string, page, pageSize int) ([]*Booking, int, error)
	LastNext(ctx context.Context, itemID string) (LastNext, error)
	LastNextForItems(ctx context.Context, itemIDs []string) (map[string]LastNext, error)
	HasCompletedBooking(ctx context.Context, bookerID, itemID string) (bool, error)
}

type service struct {
	repo   Repository
	users  UserLookup
	items  ItemLookup
	clock  clock.Clock
	logger zerolog.Logger
}

func NewService(repo Repository, users UserLookup, items ItemLookup, c clock.Clock, logger zerolog.Logger) Service {
	return &service{
		repo:   repo,
		users:  users,
		items:  items,
		clock:  c,
		logger: logger.With().Str("component", "booking").Logger(),
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	booker, err := s.users.GetByID(ctx, req.BookerID)
	if err != nil {
		return nil, err
	}

	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if err := ValidateCreate(booker.ID, it, req.Start, req.End); err != nil {
		return nil, err
	}

	b := Initialize(it, booker.ID, req.Start, req.End)
	b.BookerName = booker.Name

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.logger.Info().
		Str("booking_id", b.ID).
		Str("item_id", b.ItemID).
		Str("booker_id", b.BookerID).
		Msg("booking created")
	return b, nil
}

func (s *service) GetByID(ctx context.Context, requesterID, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if requesterID != b.BookerID && requesterID != b.OwnerID {
		return nil, ErrNotAuthorized
	}
	return b, nil
}

func (s *service) Patch(ctx context.Context, requesterID, id string, approve bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := b.Status
	if err := Transition(b, requesterID, approve); err != nil {
		return nil, err
	}

	updatedAt, err := s.repo.UpdateStatus(ctx, b.ID, from, b.Status)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt = updatedAt

	metrics.IncBookingTransition(string(b.Status))
	s.logger.Info().
		Str("booking_id", b.ID).
		Str("status", string(b.Status)).
		Msg("booking status changed")
	return b, nil
}

func (s *service) ListByBooker(ctx context.Context, bookerID, state string, page, pageSize int) ([]*Booking, int, error) {
	return s.list(ctx, bookerID, state, page, pageSize, s.repo.ListByBooker)
}

func (s *service) ListByOwner(ctx context.Context, ownerID, state string, page, pageSize int) ([]*Booking, int, error) {
	return s.list(ctx, ownerID, state, page, pageSize, s.repo.ListByOwner)
}

func (s *service) list(
	ctx context.Context,
	userID, state string,
	page, pageSize int,
	fetch func(context.Context, string) ([]*Booking, error),
) ([]*Booking, int, error) {
	// Reject bad input before touching storage.
	st, err := ParseState(state)
	if err != nil {
		return nil, 0, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, 0, err
	}

	candidates, err := fetch(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	matched := Classify(candidates, st, s.clock.Now())

	params := request.ListParams{Page: page, PageSize: pageSize}
	params.Normalize()
	lo, hi := params.Window(len(matched))
	return matched[lo:hi], len(matched), nil
}

func (s *service) LastNext(ctx context.Context, itemID string) (LastNext, error) {
	bookings, err := s.repo.ListByItems(ctx, []string{itemID})
	if err != nil {
		return LastNext{}, err
	}
	return ResolveLastNext(bookings, itemID, s.clock.Now()), nil
}

func (s *service) LastNextForItems(ctx context.Context, itemIDs []string) (map[string]LastNext, error) {
	bookings, err := s.repo.ListByItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	return ResolveLastNextByItem(bookings, itemIDs, s.clock.Now()), nil
}

func (s *service) HasCompletedBooking(ctx context.Context, bookerID, itemID string) (bool, error) {
	return s.repo.HasCompletedBooking(ctx, bookerID, itemID, s.clock.Now())
}
