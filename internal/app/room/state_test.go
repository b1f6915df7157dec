package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoomState(localID, ownerID string) *State {
	st := NewState(participant(localID))
	st.EnterRoom("room-1", ownerID)
	return st
}

func TestState_TakeSeatUnmutes(t *testing.T) {
	t.Parallel()

	st := newRoomState("x", "owner")
	require.True(t, st.Muted(), "sessions start muted")

	require.True(t, st.TakeSeat(3))
	assert.False(t, st.Muted())
	assert.Equal(t, SeatOccupied, st.Seats()[3].Status)
	assert.Equal(t, "x", st.Seats()[3].Occupant.ID)
}

func TestState_MoveBetweenSeats(t *testing.T) {
	t.Parallel()

	st := newRoomState("x", "owner")
	require.True(t, st.TakeSeat(3))
	require.True(t, st.TakeSeat(7))

	seats := st.Seats()
	assert.Equal(t, SeatOpen, seats[3].Status)
	assert.Nil(t, seats[3].Occupant)
	assert.Equal(t, SeatOccupied, seats[7].Status)
	assert.Equal(t, "x", seats[7].Occupant.ID)
	assert.False(t, st.Muted())
}

func TestState_LeaveOwnSeatMutes(t *testing.T) {
	t.Parallel()

	st := newRoomState("x", "owner")
	require.True(t, st.TakeSeat(5))
	require.False(t, st.Muted())

	st.LeaveSeat(5)
	assert.True(t, st.Muted())
	assert.Equal(t, SeatOpen, st.Seats()[5].Status)
	assert.False(t, st.OnSeat())
}

func TestState_OwnerLockRules(t *testing.T) {
	t.Parallel()

	owner := newRoomState("owner", "owner")
	require.True(t, owner.IsOwner())
	require.True(t, owner.ToggleLock(2))
	assert.Equal(t, SeatLocked, owner.Seats()[2].Status)

	guest := newRoomState("guest", "owner")
	assert.False(t, guest.IsOwner())
	assert.False(t, guest.ToggleLock(2), "only the owner toggles locks")
	assert.Equal(t, SeatOpen, guest.Seats()[2].Status)
}

func TestState_ClickResolution(t *testing.T) {
	t.Parallel()

	t.Run("owner always gets the menu", func(t *testing.T) {
		t.Parallel()
		st := newRoomState("owner", "owner")
		assert.Equal(t, ClickMenu, st.Click(0))
		assert.Equal(t, SeatOpen, st.Seats()[0].Status, "menu click does not seat the owner")
	})

	t.Run("occupant of the seat gets the menu", func(t *testing.T) {
		t.Parallel()
		st := newRoomState("x", "owner")
		require.True(t, st.TakeSeat(4))
		assert.Equal(t, ClickMenu, st.Click(4))
	})

	t.Run("guest takes an open seat directly", func(t *testing.T) {
		t.Parallel()
		st := newRoomState("guest", "owner")
		assert.Equal(t, ClickTookSeat, st.Click(6))
		assert.Equal(t, "guest", st.Seats()[6].Occupant.ID)
		assert.False(t, st.Muted())
	})

	t.Run("guest click on a locked seat is ignored", func(t *testing.T) {
		t.Parallel()
		st := newRoomState("guest", "owner")
		require.True(t, st.seats.ToggleLock(1))

		assert.Equal(t, ClickIgnored, st.Click(1))
		assert.Equal(t, SeatLocked, st.Seats()[1].Status)
		assert.True(t, st.Muted())
	})

	t.Run("guest click on someone else's seat is ignored", func(t *testing.T) {
		t.Parallel()
		st := newRoomState("guest", "owner")
		require.True(t, st.seats.Take(2, participant("y")))

		assert.Equal(t, ClickIgnored, st.Click(2))
		assert.Equal(t, "y", st.Seats()[2].Occupant.ID)
	})
}

func TestState_SwitchingRoomsResetsEverything(t *testing.T) {
	t.Parallel()

	st := newRoomState("x", "x")
	require.True(t, st.TakeSeat(3))
	require.True(t, st.ToggleLock(8))
	st.SetGiftMode(ModeAllMic)
	require.NotEmpty(t, st.GiftRecipients())

	st.EnterRoom("room-2", "someone-else")

	for i, seat := range st.Seats() {
		assert.Equal(t, SeatOpen, seat.Status, "seat %d", i)
		assert.Nil(t, seat.Occupant, "seat %d", i)
	}
	assert.True(t, st.Muted())
	assert.Equal(t, ModeManual, st.GiftMode())
	assert.Empty(t, st.GiftRecipients())
	assert.False(t, st.IsOwner())
}

func TestState_ReenteringSameRoomKeepsState(t *testing.T) {
	t.Parallel()

	st := newRoomState("x", "owner")
	require.True(t, st.TakeSeat(2))

	st.EnterRoom("room-1", "owner")
	assert.Equal(t, "x", st.Seats()[2].Occupant.ID)
	assert.False(t, st.Muted())
}

func TestState_ParticipantsDerived(t *testing.T) {
	t.Parallel()

	st := newRoomState("x", "owner")
	require.True(t, st.TakeSeat(0))
	st.seats.Take(3, participant("y"))
	st.seats.Take(5, participant("z"))

	got := st.Participants()
	require.Len(t, got, 3, "local user is not listed twice despite holding a seat")
	assert.Equal(t, "x", got[0].ID, "local user comes first")
	assert.Equal(t, []string{"y", "z"}, []string{got[1].ID, got[2].ID})
}

func TestState_GiftModeSnapshots(t *testing.T) {
	t.Parallel()

	st := newRoomState("x", "owner")
	st.seats.Take(1, participant("y"))

	st.SetGiftMode(ModeAllRoom)
	assert.ElementsMatch(t, []string{"x", "y"}, st.GiftRecipients())

	// A participant seated after the snapshot is not retroactively added.
	st.seats.Take(2, participant("late"))
	assert.ElementsMatch(t, []string{"x", "y"}, st.GiftRecipients())

	st.SetGiftMode(ModeAllMic)
	assert.ElementsMatch(t, []string{"y", "late"}, st.GiftRecipients(),
		"all-mic snapshots seat occupants only")

	st.SetGiftMode(ModeManual)
	assert.Empty(t, st.GiftRecipients())

	st.ToggleGiftTarget("y")
	assert.Equal(t, []string{"y"}, st.GiftRecipients())
}

func TestState_ExitRoom(t *testing.T) {
	t.Parallel()

	st := newRoomState("x", "x")
	require.True(t, st.TakeSeat(3))

	st.ExitRoom()
	assert.Empty(t, st.RoomID())
	assert.False(t, st.IsOwner())
	assert.True(t, st.Muted())
	assert.False(t, st.OnSeat())
}
