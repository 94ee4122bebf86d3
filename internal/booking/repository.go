package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByBooker(ctx context.Context, bookerID string) ([]*Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Booking, error)
	ListByItems(ctx context.Context, itemIDs []string) ([]*Booking, error)

	// UpdateStatus moves the booking from one status to another only if it
	// is still in from. It returns ErrAlreadyDecided when the row was
	// changed by someone else first.
	UpdateStatus(ctx context.Context, id string, from, to Status) (time.Time, error)

	// HasCompletedBooking reports whether bookerID has an approved booking
	// of itemID that ended before the given instant.
	HasCompletedBooking(ctx context.Context, bookerID, itemID string, before time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
	psql squirrel.StatementBuilderType
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{
		pool: pool,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *pgxRepository) selectBookings() squirrel.SelectBuilder {
	return r.psql.Select(
		"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
		"b.start_time", "b.end_time", "b.status", "b.created_at", "b.updated_at",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.OwnerID, &b.BookerID, &b.BookerName,
		&b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	return &b, err
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := r.psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, b.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return ErrInvalidInterval
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := r.selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) ListByBooker(ctx context.Context, bookerID string) ([]*Booking, error) {
	return r.list(ctx, squirrel.Eq{"b.booker_id": bookerID})
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Booking, error) {
	return r.list(ctx, squirrel.Eq{"i.owner_id": ownerID})
}

func (r *pgxRepository) ListByItems(ctx context.Context, itemIDs []string) ([]*Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, squirrel.Eq{"b.item_id": itemIDs})
}

func (r *pgxRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*Booking, error) {
	query, args, err := r.selectBookings().
		Where(where).
		OrderBy("b.start_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}

	return bookings, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, from, to Status) (time.Time, error) {
	query, args, err := r.psql.Update("public.bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("build update booking status query failed: %w", err)
	}

	var updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Bookings are never deleted, so a miss means the status moved on.
			return time.Time{}, ErrAlreadyDecided
		}
		return time.Time{}, fmt.Errorf("update booking status failed: %w", err)
	}
	return updatedAt, nil
}

func (r *pgxRepository) HasCompletedBooking(ctx context.Context, bookerID, itemID string, before time.Time) (bool, error) {
	sub, args, err := r.psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"booker_id": bookerID, "item_id": itemID, "status": StatusApproved}).
		Where(squirrel.Lt{"end_time": before}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build completed booking query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check completed booking failed: %w", err)
	}
	return exists, nil
}
