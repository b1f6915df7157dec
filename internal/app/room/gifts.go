package room

import "sort"

// SelectionMode is the strategy used to pick gift recipients.
type SelectionMode string

const (
	// ModeManual selects recipients one by one via Toggle.
	ModeManual SelectionMode = "manual"

	// ModeAllRoom snapshots every participant present in the room.
	ModeAllRoom SelectionMode = "all-room"

	// ModeAllMic snapshots only the users currently holding a seat.
	ModeAllMic SelectionMode = "all-mic"
)

// Selection holds the set of gift recipients for one session.
//
// Switching to all-room or all-mic takes a one-time snapshot of the id list at
// that moment; the set does not follow later joins or seat changes. Switching
// to manual always empties the set.
type Selection struct {
	mode SelectionMode
	ids  map[string]struct{}
}

// NewSelection returns an empty manual selection.
func NewSelection() *Selection {
	return &Selection{
		mode: ModeManual,
		ids:  make(map[string]struct{}),
	}
}

// Mode reports the active selection mode.
func (s *Selection) Mode() SelectionMode { return s.mode }

// SetMode switches the selection strategy. snapshot carries the ids captured
// at switch time and is only consulted for all-room and all-mic; manual
// ignores it and clears the set.
func (s *Selection) SetMode(mode SelectionMode, snapshot []string) {
	s.mode = mode
	s.ids = make(map[string]struct{})

	if mode == ModeManual {
		return
	}
	for _, id := range snapshot {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
}

// Toggle flips membership of a single id. Only effective under manual mode;
// under the snapshot modes the call is ignored.
func (s *Selection) Toggle(id string) {
	if s.mode != ModeManual || id == "" {
		return
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

// Has reports whether id is currently selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the selected ids in a stable order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of selected recipients.
func (s *Selection) Len() int { return len(s.ids) }

// Gift is one entry of the static gift catalog.
type Gift struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Icon  string `json:"icon"`
}

// Catalog is the fixed gift catalog shown in every room.
var Catalog = []Gift{
	{ID: "1", Name: "وردة", Price: 10, Icon: "🌹"},
	{ID: "2", Name: "ألماس", Price: 100, Icon: "💎"},
	{ID: "3", Name: "سيارة", Price: 5000, Icon: "🏎️"},
	{ID: "4", Name: "صاروخ", Price: 9999, Icon: "🚀"},
	{ID: "5", Name: "قلب", Price: 50, Icon: "💖"},
	{ID: "6", Name: "تاج", Price: 1000, Icon: "👑"},
}

// Quantities is the quantity ladder offered by the gift sheet.
var Quantities = []int{1, 7, 38, 66, 188, 520, 1314}

// GiftByID looks up a catalog entry. The second return is false for unknown
// ids.
func GiftByID(id string) (Gift, bool) {
	for _, g := range Catalog {
		if g.ID == id {
			return g, true
		}
	}
	return Gift{}, false
}

// ValidQuantity reports whether qty is one of the offered quantities.
func ValidQuantity(qty int) bool {
	for _, q := range Quantities {
		if q == qty {
			return true
		}
	}
	return false
}

// Cost returns the total coin cost of sending qty of the gift to each of
// recipients.
func (g Gift) Cost(qty, recipients int) int64 {
	if qty <= 0 || recipients <= 0 {
		return 0
	}
	return g.Price * int64(qty) * int64(recipients)
}
