/*
Package room contains the in-room session state for a voice room: the fixed
grid of microphone seats, the gift-target selector, and the derived participant
list.

All state in this package is per-session and ephemeral. It is never persisted
and never fanned out to other participants; every session keeps its own copy
and resets it when switching rooms.
*/
package room

// SeatCount is the fixed number of microphone seats in every voice room.
const SeatCount = 10

// SeatStatus describes the state of a single microphone seat.
type SeatStatus string

const (
	// SeatOpen means the seat is free and can be taken.
	SeatOpen SeatStatus = "open"

	// SeatLocked means the room owner closed the seat. Locked seats never
	// have an occupant.
	SeatLocked SeatStatus = "locked"

	// SeatOccupied means a participant is holding the seat.
	SeatOccupied SeatStatus = "occupied"
)

// Participant is the user summary attached to an occupied seat and shown in
// the participants list. JSON tags match the user documents served by the
// store.
type Participant struct {
	ID       string `json:"uid"`
	Name     string `json:"displayName"`
	Avatar   string `json:"photoURL,omitempty"`
	CustomID string `json:"customId,omitempty"`
}

// Seat is one slot in the microphone grid.
type Seat struct {
	Status   SeatStatus   `json:"status"`
	Occupant *Participant `json:"user,omitempty"`
}

// SeatTable is the fixed-length ordered collection of seats for one session.
// Transitions are synchronous and atomic from the caller's perspective; a
// rejected operation leaves the table untouched and reports false.
//
// Invariants held by every mutation:
//   - an occupied seat has a non-nil occupant,
//   - a locked seat has no occupant,
//   - any occupant id appears in at most one seat.
type SeatTable struct {
	seats [SeatCount]Seat
}

// NewSeatTable returns a table with every seat open and empty.
func NewSeatTable() *SeatTable {
	t := &SeatTable{}
	t.Reset()
	return t
}

// Reset returns every seat to open/empty. Called whenever the session switches
// to a different room.
func (t *SeatTable) Reset() {
	for i := range t.seats {
		t.seats[i] = Seat{Status: SeatOpen}
	}
}

// Seats returns a copy of the current seat array.
func (t *SeatTable) Seats() []Seat {
	out := make([]Seat, SeatCount)
	for i, s := range t.seats {
		out[i] = s
		if s.Occupant != nil {
			occ := *s.Occupant
			out[i].Occupant = &occ
		}
	}
	return out
}

// Occupant returns the participant holding seat index, or nil.
func (t *SeatTable) Occupant(index int) *Participant {
	if index < 0 || index >= SeatCount {
		return nil
	}
	return t.seats[index].Occupant
}

// Status returns the status of seat index. Out-of-range indexes read as
// locked so that callers treat them as never enterable.
func (t *SeatTable) Status(index int) SeatStatus {
	if index < 0 || index >= SeatCount {
		return SeatLocked
	}
	return t.seats[index].Status
}

// SeatOf returns the index of the seat currently held by the given user id,
// or -1 when the user holds no seat.
func (t *SeatTable) SeatOf(userID string) int {
	for i := range t.seats {
		if occ := t.seats[i].Occupant; occ != nil && occ.ID == userID {
			return i
		}
	}
	return -1
}

// Occupants returns the participants currently holding seats, in seat order.
func (t *SeatTable) Occupants() []Participant {
	out := make([]Participant, 0, SeatCount)
	for i := range t.seats {
		if occ := t.seats[i].Occupant; occ != nil {
			out = append(out, *occ)
		}
	}
	return out
}

// Take seats p on the seat at index. The operation is a silent no-op when the
// seat is locked or held by someone else; there is no error to surface, the
// click is simply ignored. Taking a seat vacates any other seat held by the
// same user.
func (t *SeatTable) Take(index int, p Participant) bool {
	if index < 0 || index >= SeatCount {
		return false
	}

	seat := &t.seats[index]
	if seat.Status == SeatLocked {
		return false
	}
	if seat.Occupant != nil && seat.Occupant.ID != p.ID {
		return false
	}

	if prev := t.SeatOf(p.ID); prev >= 0 && prev != index {
		t.seats[prev] = Seat{Status: SeatOpen}
	}

	occ := p
	seat.Status = SeatOccupied
	seat.Occupant = &occ
	return true
}

// Leave clears the seat at index back to open and returns the participant who
// was holding it, if any.
func (t *SeatTable) Leave(index int) *Participant {
	if index < 0 || index >= SeatCount {
		return nil
	}

	occ := t.seats[index].Occupant
	t.seats[index] = Seat{Status: SeatOpen}
	return occ
}

// ToggleLock flips the seat at index between locked and open, clearing any
// occupant reference. Occupied seats cannot be toggled; the occupant is never
// evicted by a lock, so the call is a no-op and returns false.
func (t *SeatTable) ToggleLock(index int) bool {
	if index < 0 || index >= SeatCount {
		return false
	}

	seat := &t.seats[index]
	if seat.Status == SeatOccupied {
		return false
	}

	if seat.Status == SeatLocked {
		seat.Status = SeatOpen
	} else {
		seat.Status = SeatLocked
	}
	seat.Occupant = nil
	return true
}
