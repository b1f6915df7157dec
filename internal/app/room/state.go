package room

// ClickAction is the outcome of a seat click, resolved against the caller's
// role and the seat's current state.
type ClickAction int

const (
	// ClickIgnored means the click had no effect.
	ClickIgnored ClickAction = iota

	// ClickTookSeat means the click seated the caller directly.
	ClickTookSeat

	// ClickMenu means the caller may open the seat actions sheet.
	ClickMenu
)

// State is the complete in-room state of one session: the seat table, the
// gift-target selector, the local mute flag, and the room the session is
// currently inside. It is owned by a single session and mutated only from
// that session's event loop, so it needs no locking.
type State struct {
	local     Participant
	roomID    string
	ownerID   string
	seats     *SeatTable
	selection *Selection
	muted     bool
}

// NewState returns the state for a session identified by local.
func NewState(local Participant) *State {
	return &State{
		local:     local,
		seats:     NewSeatTable(),
		selection: NewSelection(),
		muted:     true,
	}
}

// Local returns the session's own participant summary.
func (st *State) Local() Participant { return st.local }

// SetLocal refreshes the session's participant summary, e.g. after a profile
// update arrives from the store.
func (st *State) SetLocal(p Participant) { st.local = p }

// RoomID returns the id of the room the session is in, or "" outside rooms.
func (st *State) RoomID() string { return st.roomID }

// IsOwner reports whether the session user owns the current room.
func (st *State) IsOwner() bool {
	return st.ownerID != "" && st.ownerID == st.local.ID
}

// Muted reports the local mute flag.
func (st *State) Muted() bool { return st.muted }

// SetMuted overrides the local mute flag (the manual mute button).
func (st *State) SetMuted(m bool) { st.muted = m }

// EnterRoom switches the session into a room. Entering a different room
// resets every seat to open/empty, re-arms the mute flag, and clears the gift
// selection; re-entering the same room keeps the state as is.
func (st *State) EnterRoom(roomID, ownerID string) {
	if st.roomID == roomID {
		st.ownerID = ownerID
		return
	}
	st.roomID = roomID
	st.ownerID = ownerID
	st.seats.Reset()
	st.selection.SetMode(ModeManual, nil)
	st.muted = true
}

// ExitRoom leaves the current room and drops all in-room state.
func (st *State) ExitRoom() {
	st.roomID = ""
	st.ownerID = ""
	st.seats.Reset()
	st.selection.SetMode(ModeManual, nil)
	st.muted = true
}

// Seats returns a snapshot of the seat grid.
func (st *State) Seats() []Seat { return st.seats.Seats() }

// SeatIndex returns the grid index the session user occupies, or -1.
func (st *State) SeatIndex() int { return st.seats.SeatOf(st.local.ID) }

// TakeSeat seats the local user on the seat at index. Unmutes on success;
// silently ignored when the seat is locked or held by someone else.
func (st *State) TakeSeat(index int) bool {
	if !st.seats.Take(index, st.local) {
		return false
	}
	st.muted = false
	return true
}

// LeaveSeat vacates the seat at index. Leaving a seat the local user held
// forces the mute flag back on.
func (st *State) LeaveSeat(index int) {
	occ := st.seats.Leave(index)
	if occ != nil && occ.ID == st.local.ID {
		st.muted = true
	}
}

// ToggleLock locks or unlocks a seat. Only the room owner may lock, and an
// occupied seat is never toggled.
func (st *State) ToggleLock(index int) bool {
	if !st.IsOwner() {
		return false
	}
	return st.seats.ToggleLock(index)
}

// Click resolves a tap on seat index. The owner and the seat's current
// occupant get the actions menu; anyone else takes the seat directly when it
// is open and free, and is ignored otherwise.
func (st *State) Click(index int) ClickAction {
	occ := st.seats.Occupant(index)

	if st.IsOwner() || (occ != nil && occ.ID == st.local.ID) {
		return ClickMenu
	}

	if st.seats.Status(index) == SeatOpen && occ == nil {
		if st.TakeSeat(index) {
			return ClickTookSeat
		}
	}
	return ClickIgnored
}

// OnSeat reports whether the local user currently holds any seat.
func (st *State) OnSeat() bool {
	return st.seats.SeatOf(st.local.ID) >= 0
}

// Participants derives the present-participant list: the local user first,
// then every seat occupant not already listed. Recomputed on each call, never
// stored.
func (st *State) Participants() []Participant {
	out := make([]Participant, 0, 1+SeatCount)
	seen := make(map[string]struct{}, 1+SeatCount)

	if st.local.ID != "" {
		out = append(out, st.local)
		seen[st.local.ID] = struct{}{}
	}
	for _, occ := range st.seats.Occupants() {
		if _, ok := seen[occ.ID]; ok {
			continue
		}
		seen[occ.ID] = struct{}{}
		out = append(out, occ)
	}
	return out
}

// SetGiftMode switches the gift-target strategy, snapshotting the id list the
// mode calls for at this moment.
func (st *State) SetGiftMode(mode SelectionMode) {
	var snapshot []string
	switch mode {
	case ModeAllRoom:
		for _, p := range st.Participants() {
			snapshot = append(snapshot, p.ID)
		}
	case ModeAllMic:
		for _, p := range st.seats.Occupants() {
			snapshot = append(snapshot, p.ID)
		}
	}
	st.selection.SetMode(mode, snapshot)
}

// ToggleGiftTarget flips one recipient in manual mode.
func (st *State) ToggleGiftTarget(id string) {
	st.selection.Toggle(id)
}

// GiftMode returns the active selection mode.
func (st *State) GiftMode() SelectionMode { return st.selection.Mode() }

// GiftRecipients returns the selected recipient ids in stable order.
func (st *State) GiftRecipients() []string { return st.selection.IDs() }
