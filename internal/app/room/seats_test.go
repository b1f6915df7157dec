package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func participant(id string) Participant {
	return Participant{ID: id, Name: "user-" + id}
}

func TestSeatTable_NewTableAllOpen(t *testing.T) {
	t.Parallel()

	table := NewSeatTable()
	for i, seat := range table.Seats() {
		assert.Equal(t, SeatOpen, seat.Status, "seat %d", i)
		assert.Nil(t, seat.Occupant, "seat %d", i)
	}
}

func TestSeatTable_TakeVacatesPreviousSeat(t *testing.T) {
	t.Parallel()

	table := NewSeatTable()
	x := participant("x")

	require.True(t, table.Take(3, x))
	assert.Equal(t, SeatOccupied, table.Status(3))
	require.NotNil(t, table.Occupant(3))
	assert.Equal(t, "x", table.Occupant(3).ID)

	require.True(t, table.Take(7, x))
	assert.Equal(t, SeatOpen, table.Status(3), "previous seat must revert to open")
	assert.Nil(t, table.Occupant(3))
	assert.Equal(t, SeatOccupied, table.Status(7))
	assert.Equal(t, "x", table.Occupant(7).ID)
}

func TestSeatTable_AtMostOneSeatPerOccupant(t *testing.T) {
	t.Parallel()

	table := NewSeatTable()
	x := participant("x")
	y := participant("y")

	require.True(t, table.Take(0, x))
	require.True(t, table.Take(1, y))
	require.True(t, table.Take(5, x))
	require.True(t, table.Take(9, x))

	held := 0
	for _, seat := range table.Seats() {
		if seat.Occupant != nil && seat.Occupant.ID == "x" {
			held++
		}
	}
	assert.Equal(t, 1, held)
	assert.Equal(t, 9, table.SeatOf("x"))
	assert.Equal(t, 1, table.SeatOf("y"))
}

func TestSeatTable_LockedSeatRejectsTake(t *testing.T) {
	t.Parallel()

	table := NewSeatTable()
	require.True(t, table.ToggleLock(2))
	assert.Equal(t, SeatLocked, table.Status(2))
	assert.Nil(t, table.Occupant(2))

	assert.False(t, table.Take(2, participant("guest")))
	assert.Equal(t, SeatLocked, table.Status(2), "rejected take must not mutate the seat")
	assert.Nil(t, table.Occupant(2))
}

func TestSeatTable_LockedSeatNeverHasOccupant(t *testing.T) {
	t.Parallel()

	table := NewSeatTable()
	require.True(t, table.Take(4, participant("x")))

	// An occupied seat cannot be toggled, so the occupant is never evicted
	// by a lock.
	assert.False(t, table.ToggleLock(4))
	assert.Equal(t, SeatOccupied, table.Status(4))

	table.Leave(4)
	require.True(t, table.ToggleLock(4))
	assert.Equal(t, SeatLocked, table.Status(4))
	assert.Nil(t, table.Occupant(4))

	for _, seat := range table.Seats() {
		if seat.Status == SeatLocked {
			assert.Nil(t, seat.Occupant)
		}
	}
}

func TestSeatTable_TakeRejectedWhenHeldBySomeoneElse(t *testing.T) {
	t.Parallel()

	table := NewSeatTable()
	require.True(t, table.Take(6, participant("x")))

	assert.False(t, table.Take(6, participant("y")))
	assert.Equal(t, "x", table.Occupant(6).ID)
}

func TestSeatTable_ToggleLockRoundTrip(t *testing.T) {
	t.Parallel()

	table := NewSeatTable()
	require.True(t, table.ToggleLock(0))
	assert.Equal(t, SeatLocked, table.Status(0))
	require.True(t, table.ToggleLock(0))
	assert.Equal(t, SeatOpen, table.Status(0))
}

func TestSeatTable_LeaveUnknownSeat(t *testing.T) {
	t.Parallel()

	table := NewSeatTable()
	assert.Nil(t, table.Leave(3))
	assert.Nil(t, table.Leave(-1))
	assert.Nil(t, table.Leave(SeatCount))
}

func TestSeatTable_OutOfRangeIndexes(t *testing.T) {
	t.Parallel()

	table := NewSeatTable()
	assert.False(t, table.Take(-1, participant("x")))
	assert.False(t, table.Take(SeatCount, participant("x")))
	assert.False(t, table.ToggleLock(SeatCount))
	assert.Equal(t, -1, table.SeatOf("x"))
}

func TestSeatTable_SeatsReturnsCopy(t *testing.T) {
	t.Parallel()

	table := NewSeatTable()
	require.True(t, table.Take(1, participant("x")))

	snapshot := table.Seats()
	snapshot[1].Occupant.ID = "mutated"
	snapshot[2].Status = SeatLocked

	assert.Equal(t, "x", table.Occupant(1).ID)
	assert.Equal(t, SeatOpen, table.Status(2))
}

func TestSeatTable_Occupants(t *testing.T) {
	t.Parallel()

	table := NewSeatTable()
	require.True(t, table.Take(8, participant("b")))
	require.True(t, table.Take(2, participant("a")))

	occ := table.Occupants()
	require.Len(t, occ, 2)
	assert.Equal(t, "a", occ[0].ID, "occupants come back in seat order")
	assert.Equal(t, "b", occ[1].ID)
}
