package booking

import (
	"context"
	"io"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-backend/internal/item"
	"github.com/nekogravitycat/rental-backend/internal/pkg/clock"
	"github.com/nekogravitycat/rental-backend/internal/user"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, b *Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *mockRepo) ListByBooker(ctx context.Context, bookerID string) ([]*Booking, error) {
	args := m.Called(ctx, bookerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Booking), args.Error(1)
}

func (m *mockRepo) ListByOwner(ctx context.Context, ownerID string) ([]*Booking, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Booking), args.Error(1)
}

func (m *mockRepo) ListByItems(ctx context.Context, itemIDs []string) ([]*Booking, error) {
	args := m.Called(ctx, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Booking), args.Error(1)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id string, from, to Status) (time.Time, error) {
	args := m.Called(ctx, id, from, to)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *mockRepo) HasCompletedBooking(ctx context.Context, bookerID, itemID string, before time.Time) (bool, error) {
	args := m.Called(ctx, bookerID, itemID, before)
	return args.Bool(0), args.Error(1)
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type mockItems struct {
	mock.Mock
}

func (m *mockItems) GetByID(ctx context.Context, id string) (*item.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

// memRepo is an in-memory Repository with the same conditional update
// semantics as the SQL implementation.
type memRepo struct {
	mu       sync.Mutex
	seq      int
	bookings map[string]*Booking
}

func newMemRepo() *memRepo {
	return &memRepo{bookings: map[string]*Booking{}}
}

func (r *memRepo) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	b.ID = "booking-" + strconv.Itoa(r.seq)
	b.CreatedAt = now
	b.UpdatedAt = now
	stored := *b
	r.bookings[b.ID] = &stored
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) filter(keep func(*Booking) bool) []*Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Booking
	for _, b := range r.bookings {
		if keep(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out
}

func (r *memRepo) ListByBooker(_ context.Context, bookerID string) ([]*Booking, error) {
	return r.filter(func(b *Booking) bool { return b.BookerID == bookerID }), nil
}

func (r *memRepo) ListByOwner(_ context.Context, ownerID string) ([]*Booking, error) {
	return r.filter(func(b *Booking) bool { return b.OwnerID == ownerID }), nil
}

func (r *memRepo) ListByItems(_ context.Context, itemIDs []string) ([]*Booking, error) {
	return r.filter(func(b *Booking) bool {
		for _, id := range itemIDs {
			if b.ItemID == id {
				return true
			}
		}
		return false
	}), nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id string, from, to Status) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return time.Time{}, ErrAlreadyDecided
	}
	b.Status = to
	b.UpdatedAt = now
	return now, nil
}

func (r *memRepo) HasCompletedBooking(_ context.Context, bookerID, itemID string, before time.Time) (bool, error) {
	return len(r.filter(func(b *Booking) bool {
		return b.BookerID == bookerID && b.ItemID == itemID && b.Status == StatusApproved && b.End.Before(before)
	})) > 0, nil
}

var (
	owner   = &user.User{ID: "u1", Name: "Owner"}
	booker  = &user.User{ID: "u2", Name: "Booker"}
	drill   = &item.Item{ID: "item-1", OwnerID: "u1", Name: "Drill", Available: true}
	discard = zerolog.New(io.Discard)
)

func newMemService(t *testing.T) (Service, *memRepo) {
	t.Helper()
	users := new(mockUsers)
	users.On("GetByID", mock.Anything, "u1").Return(owner, nil).Maybe()
	users.On("GetByID", mock.Anything, "u2").Return(booker, nil).Maybe()
	users.On("GetByID", mock.Anything, mock.Anything).Return(nil, user.ErrNotFound).Maybe()

	items := new(mockItems)
	items.On("GetByID", mock.Anything, "item-1").Return(drill, nil).Maybe()
	items.On("GetByID", mock.Anything, mock.Anything).Return(nil, item.ErrNotFound).Maybe()

	repo := newMemRepo()
	return NewService(repo, users, items, clock.Fixed(now), discard), repo
}

func TestCreateAndDecide(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemService(t)

	b, err := svc.Create(ctx, CreateRequest{
		BookerID: "u2",
		ItemID:   "item-1",
		Start:    now.Add(5 * time.Minute),
		End:      now.Add(10 * time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, b.Status)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "Booker", b.BookerName)
	assert.Equal(t, "Drill", b.ItemName)

	approved, err := svc.Patch(ctx, "u1", b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	_, err = svc.Patch(ctx, "u1", b.ID, false)
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	got, err := svc.GetByID(ctx, "u2", b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)
	assert.Equal(t, b.Start, got.Start)
	assert.Equal(t, b.End, got.End)
}

func TestCreateFailures(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMemService(t)
	start, end := now.Add(time.Hour), now.Add(2*time.Hour)

	_, err := svc.Create(ctx, CreateRequest{BookerID: "ghost", ItemID: "item-1", Start: start, End: end})
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = svc.Create(ctx, CreateRequest{BookerID: "u2", ItemID: "missing", Start: start, End: end})
	assert.ErrorIs(t, err, item.ErrNotFound)

	_, err = svc.Create(ctx, CreateRequest{BookerID: "u1", ItemID: "item-1", Start: start, End: end})
	assert.ErrorIs(t, err, ErrSelfBookingForbidden)

	_, err = svc.Create(ctx, CreateRequest{BookerID: "u2", ItemID: "item-1", Start: end, End: start})
	assert.ErrorIs(t, err, ErrInvalidInterval)

	assert.Empty(t, repo.bookings)
}

func TestGetByIDAccess(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemService(t)

	b, err := svc.Create(ctx, CreateRequest{BookerID: "u2", ItemID: "item-1", Start: now.Add(time.Hour), End: now.Add(2 * time.Hour)})
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, "u1", b.ID)
	assert.NoError(t, err)
	_, err = svc.GetByID(ctx, "u2", b.ID)
	assert.NoError(t, err)

	_, err = svc.GetByID(ctx, "u3", b.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = svc.GetByID(ctx, "u1", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPatchByNonOwner(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMemService(t)

	b, err := svc.Create(ctx, CreateRequest{BookerID: "u2", ItemID: "item-1", Start: now.Add(time.Hour), End: now.Add(2 * time.Hour)})
	require.NoError(t, err)

	for _, actor := range []string{"u2", "u3"} {
		_, err := svc.Patch(ctx, actor, b.ID, true)
		assert.ErrorIs(t, err, ErrNotAuthorized)
	}
	assert.Equal(t, StatusWaiting, repo.bookings[b.ID].Status)

	_, err = svc.Patch(ctx, "u1", b.ID, false)
	require.NoError(t, err)

	// still NotAuthorized once decided
	_, err = svc.Patch(ctx, "u3", b.ID, true)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestConcurrentPatchDecidesOnce(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMemService(t)

	b, err := svc.Create(ctx, CreateRequest{BookerID: "u2", ItemID: "item-1", Start: now.Add(time.Hour), End: now.Add(2 * time.Hour)})
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Patch(ctx, "u1", b.ID, i%2 == 0)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyDecided)
	}
	assert.Equal(t, 1, succeeded)
	assert.NotEqual(t, StatusWaiting, repo.bookings[b.ID].Status)
}

func TestListByBookerScenario(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMemService(t)

	scenarioIDs := make([]string, 4)
	for i, b := range scenarioBookings() {
		b.ID = ""
		b.ItemID = "item-1"
		b.OwnerID = "u1"
		b.BookerID = "u2"
		require.NoError(t, repo.Create(ctx, b))
		scenarioIDs[i] = b.ID
	}

	list := func(state string) []string {
		got, total, err := svc.ListByBooker(ctx, "u2", state, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, len(got), total)
		return ids(got)
	}

	first, second, third, fourth := scenarioIDs[0], scenarioIDs[1], scenarioIDs[2], scenarioIDs[3]
	assert.Equal(t, []string{second}, list("CURRENT"))
	assert.Equal(t, []string{first}, list("PAST"))
	assert.Equal(t, []string{fourth, third}, list("FUTURE"))
	assert.Equal(t, []string{fourth, third, second, first}, list("ALL"))

	// owner sees the same bookings from the other side
	got, _, err := svc.ListByOwner(ctx, "u1", "WAITING", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{third}, ids(got))

	// booker is not the owner of anything
	got, total, err := svc.ListByOwner(ctx, "u2", "ALL", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, total)
}

func TestListPagination(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMemService(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &Booking{
			ItemID: "item-1", OwnerID: "u1", BookerID: "u2",
			Start: now.Add(time.Duration(i+1) * time.Hour), End: now.Add(time.Duration(i+2) * time.Hour),
			Status: StatusWaiting,
		}))
	}

	page, total, err := svc.ListByBooker(ctx, "u2", "FUTURE", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.True(t, page[0].Start.After(page[1].Start))

	page, total, err = svc.ListByBooker(ctx, "u2", "FUTURE", 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, page)
}

func TestListUnknownStateSkipsStorage(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	users := new(mockUsers)
	svc := NewService(repo, users, new(mockItems), clock.Fixed(now), discard)

	_, _, err := svc.ListByBooker(ctx, "u2", "UNSUPPORTED_STATUS", 1, 20)
	assert.ErrorIs(t, err, ErrUnknownState)

	_, _, err = svc.ListByOwner(ctx, "u1", "soon", 1, 20)
	assert.ErrorIs(t, err, ErrUnknownState)

	repo.AssertNotCalled(t, "ListByBooker", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestListUnknownUser(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	users := new(mockUsers)
	svc := NewService(repo, users, new(mockItems), clock.Fixed(now), discard)

	users.On("GetByID", ctx, "ghost").Return(nil, user.ErrNotFound).Once()

	_, _, err := svc.ListByBooker(ctx, "ghost", "ALL", 1, 20)
	assert.ErrorIs(t, err, user.ErrNotFound)
	repo.AssertNotCalled(t, "ListByBooker", mock.Anything, mock.Anything)
}

func TestPatchLosesRace(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	svc := NewService(repo, new(mockUsers), new(mockItems), clock.Fixed(now), discard)

	repo.On("GetByID", ctx, "b1").Return(bk("b1", now, now.Add(time.Hour), StatusWaiting), nil).Once()
	repo.On("UpdateStatus", ctx, "b1", StatusWaiting, StatusApproved).Return(time.Time{}, ErrAlreadyDecided).Once()

	// OwnerID in bk is "owner"
	_, err := svc.Patch(ctx, "owner", "b1", true)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
	repo.AssertExpectations(t)
}

func TestLastNextAndCompletion(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMemService(t)

	past := &Booking{ItemID: "item-1", OwnerID: "u1", BookerID: "u2", Start: years(-1), End: years(-1).Add(time.Hour), Status: StatusApproved}
	next := &Booking{ItemID: "item-1", OwnerID: "u1", BookerID: "u2", Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), Status: StatusWaiting}
	require.NoError(t, repo.Create(ctx, past))
	require.NoError(t, repo.Create(ctx, next))

	ln, err := svc.LastNext(ctx, "item-1")
	require.NoError(t, err)
	require.NotNil(t, ln.Last)
	require.NotNil(t, ln.Next)
	assert.Equal(t, past.ID, ln.Last.ID)
	assert.Equal(t, next.ID, ln.Next.ID)

	byItem, err := svc.LastNextForItems(ctx, []string{"item-1", "item-9"})
	require.NoError(t, err)
	assert.Equal(t, past.ID, byItem["item-1"].Last.ID)
	assert.Nil(t, byItem["item-9"].Last)

	done, err := svc.HasCompletedBooking(ctx, "u2", "item-1")
	require.NoError(t, err)
	assert.True(t, done)

	done, err = svc.HasCompletedBooking(ctx, "u3", "item-1")
	require.NoError(t, err)
	assert.False(t, done)
}
