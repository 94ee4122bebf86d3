package booking

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-backend/internal/item"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func years(n int) time.Time {
	return now.AddDate(n, 0, 0)
}

func bk(id string, start, end time.Time, status Status) *Booking {
	return &Booking{
		ID:       id,
		ItemID:   "item-1",
		OwnerID:  "owner",
		BookerID: "booker",
		Start:    start,
		End:      end,
		Status:   status,
	}
}

func ids(bs []*Booking) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.ID
	}
	return out
}

func TestValidateCreate(t *testing.T) {
	start := now.Add(5 * time.Minute)
	end := now.Add(10 * time.Minute)

	tests := []struct {
		name      string
		requester string
		item      item.Item
		start     time.Time
		end       time.Time
		want      error
	}{
		{"ok", "booker", item.Item{OwnerID: "owner", Available: true}, start, end, nil},
		{"end before start", "booker", item.Item{OwnerID: "owner", Available: true}, end, start, ErrInvalidInterval},
		{"empty interval", "booker", item.Item{OwnerID: "owner", Available: true}, start, start, ErrInvalidInterval},
		{"unavailable", "booker", item.Item{OwnerID: "owner", Available: false}, start, end, ErrItemNotAvailable},
		{"own item", "owner", item.Item{OwnerID: "owner", Available: true}, start, end, ErrSelfBookingForbidden},
		// interval is checked before everything else
		{"all three fail", "owner", item.Item{OwnerID: "owner", Available: false}, end, start, ErrInvalidInterval},
		// availability beats ownership
		{"unavailable own item", "owner", item.Item{OwnerID: "owner", Available: false}, start, end, ErrItemNotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreate(tt.requester, &tt.item, tt.start, tt.end)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInitialize(t *testing.T) {
	it := &item.Item{ID: "item-1", OwnerID: "owner", Name: "Drill", Available: true}
	b := Initialize(it, "booker", now.Add(time.Hour), now.Add(2*time.Hour))

	assert.Equal(t, StatusWaiting, b.Status)
	assert.Equal(t, "item-1", b.ItemID)
	assert.Equal(t, "Drill", b.ItemName)
	assert.Equal(t, "owner", b.OwnerID)
	assert.Equal(t, "booker", b.BookerID)
	assert.Empty(t, b.ID)
}

func TestTransition(t *testing.T) {
	t.Run("SingleFire", func(t *testing.T) {
		for _, first := range []bool{true, false} {
			for _, second := range []bool{true, false} {
				b := bk("b", now, now.Add(time.Hour), StatusWaiting)

				require.NoError(t, Transition(b, "owner", first))
				decided := b.Status

				err := Transition(b, "owner", second)
				assert.ErrorIs(t, err, ErrAlreadyDecided)
				assert.Equal(t, decided, b.Status)
			}
		}
	})

	t.Run("Outcome", func(t *testing.T) {
		b := bk("b", now, now.Add(time.Hour), StatusWaiting)
		require.NoError(t, Transition(b, "owner", true))
		assert.Equal(t, StatusApproved, b.Status)

		b = bk("b", now, now.Add(time.Hour), StatusWaiting)
		require.NoError(t, Transition(b, "owner", false))
		assert.Equal(t, StatusRejected, b.Status)
	})

	t.Run("NonOwnerAlwaysNotAuthorized", func(t *testing.T) {
		for _, st := range []Status{StatusWaiting, StatusApproved, StatusRejected} {
			for _, actor := range []string{"booker", "stranger"} {
				b := bk("b", now, now.Add(time.Hour), st)
				err := Transition(b, actor, true)
				assert.ErrorIs(t, err, ErrNotAuthorized, "status %s actor %s", st, actor)
				assert.Equal(t, st, b.Status)
			}
		}
	})

	t.Run("TerminalStatuses", func(t *testing.T) {
		assert.False(t, StatusWaiting.IsTerminal())
		assert.True(t, StatusApproved.IsTerminal())
		assert.True(t, StatusRejected.IsTerminal())
		assert.False(t, StatusApproved.CanTransitionTo(StatusRejected))
	})
}

func TestParseState(t *testing.T) {
	for _, s := range []string{"ALL", "CURRENT", "PAST", "FUTURE", "WAITING", "REJECTED"} {
		st, err := ParseState(s)
		require.NoError(t, err)
		assert.Equal(t, State(s), st)
	}

	for _, s := range []string{"", "all", "UNSUPPORTED_STATUS"} {
		_, err := ParseState(s)
		assert.ErrorIs(t, err, ErrUnknownState, s)
	}
}

func scenarioBookings() []*Booking {
	return []*Booking{
		bk("first", years(-10), years(-9), StatusApproved),
		bk("second", years(-5), years(5), StatusApproved),
		bk("third", years(8), years(9), StatusWaiting),
		bk("fourth", years(9), years(10), StatusRejected),
	}
}

func TestClassifyScenario(t *testing.T) {
	bs := scenarioBookings()

	assert.Equal(t, []string{"second"}, ids(Classify(bs, StateCurrent, now)))
	assert.Equal(t, []string{"first"}, ids(Classify(bs, StatePast, now)))
	assert.Equal(t, []string{"fourth", "third"}, ids(Classify(bs, StateFuture, now)))
	assert.Equal(t, []string{"third"}, ids(Classify(bs, StateWaiting, now)))
	assert.Equal(t, []string{"fourth"}, ids(Classify(bs, StateRejected, now)))
}

func TestClassifyAllIsInputSortedDescending(t *testing.T) {
	bs := scenarioBookings()
	original := ids(bs)

	for _, at := range []time.Time{years(-20), now, years(20)} {
		got := Classify(bs, StateAll, at)
		assert.Equal(t, []string{"fourth", "third", "second", "first"}, ids(got))
	}

	// input untouched
	assert.Equal(t, original, ids(bs))
}

func TestClassifyApprovedInExactlyOneTimeBucket(t *testing.T) {
	offsets := []struct{ start, end time.Duration }{
		{-48 * time.Hour, -24 * time.Hour},
		{-time.Hour, time.Hour},
		{time.Hour, 2 * time.Hour},
		{-2 * time.Hour, -time.Second},
	}

	var bs []*Booking
	for i, o := range offsets {
		bs = append(bs, bk(fmt.Sprintf("b%d", i), now.Add(o.start), now.Add(o.end), StatusApproved))
	}

	counts := map[string]int{}
	for _, st := range []State{StateCurrent, StatePast, StateFuture} {
		for _, b := range Classify(bs, st, now) {
			counts[b.ID]++
		}
	}

	for _, b := range bs {
		assert.Equal(t, 1, counts[b.ID], b.ID)
	}
}

func TestClassifyPastExcludesUndecided(t *testing.T) {
	bs := []*Booking{
		bk("waiting", years(-2), years(-1), StatusWaiting),
		bk("rejected", years(-2), years(-1), StatusRejected),
	}
	assert.Empty(t, Classify(bs, StatePast, now))
}

func TestClassifyStableOnEqualStarts(t *testing.T) {
	bs := []*Booking{
		bk("a", years(1), years(2), StatusWaiting),
		bk("b", years(1), years(3), StatusWaiting),
	}
	assert.Equal(t, []string{"a", "b"}, ids(Classify(bs, StateAll, now)))
}

func TestResolveLastNext(t *testing.T) {
	bs := []*Booking{
		bk("old-approved", years(-3), years(-2), StatusApproved),
		bk("recent-approved", years(-1), years(1), StatusApproved),
		bk("past-rejected", now.Add(-time.Hour), now.Add(-time.Minute), StatusRejected),
		bk("soon-waiting", now.Add(time.Hour), now.Add(2*time.Hour), StatusWaiting),
		bk("later-waiting", years(1), years(2), StatusWaiting),
		bk("soon-approved", now.Add(time.Minute), now.Add(time.Hour), StatusApproved),
	}

	ln := ResolveLastNext(bs, "item-1", now)
	require.NotNil(t, ln.Last)
	require.NotNil(t, ln.Next)
	assert.Equal(t, "recent-approved", ln.Last.ID)
	assert.Equal(t, "soon-waiting", ln.Next.ID)

	t.Run("Empty", func(t *testing.T) {
		ln := ResolveLastNext(nil, "item-1", now)
		assert.Nil(t, ln.Last)
		assert.Nil(t, ln.Next)
	})

	t.Run("OtherItemsIgnored", func(t *testing.T) {
		ln := ResolveLastNext(bs, "item-2", now)
		assert.Nil(t, ln.Last)
		assert.Nil(t, ln.Next)
	})
}

func TestResolveLastNextByItem(t *testing.T) {
	a := bk("a", years(-1), years(-1).Add(time.Hour), StatusApproved)
	b := bk("b", years(1), years(2), StatusWaiting)
	b.ItemID = "item-2"

	got := ResolveLastNextByItem([]*Booking{a, b}, []string{"item-1", "item-2", "item-3"}, now)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got["item-1"].Last.ID)
	assert.Nil(t, got["item-1"].Next)
	assert.Equal(t, "b", got["item-2"].Next.ID)
	assert.Nil(t, got["item-3"].Last)
}
