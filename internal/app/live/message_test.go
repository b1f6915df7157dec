package live

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yallagames/internal/app/room"
)

func TestNewMessage(t *testing.T) {
	t.Parallel()

	sender := room.Participant{ID: "u1", Name: "Sara"}
	msg, err := NewMessage(TypeText, "room-1", sender, TextPayload{Content: "hello"})
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, TypeText, msg.Type)
	assert.Equal(t, "room-1", msg.RoomID)
	assert.Equal(t, sender, msg.Sender)
	assert.NotZero(t, msg.Timestamp)

	var payload TextPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "hello", payload.Content)
}

func TestNewMessageNilPayload(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(TypeUserLeft, "room-1", SystemParticipant, nil)
	require.NoError(t, err)
	assert.Nil(t, msg.Payload)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"payload"`)
}

func TestSeatStatePayloadShape(t *testing.T) {
	t.Parallel()

	st := room.NewState(room.Participant{ID: "u1", Name: "Sara"})
	st.EnterRoom("room-1", "owner")
	require.True(t, st.TakeSeat(4))

	payload := SeatStatePayload{
		RoomID:     st.RoomID(),
		Seats:      st.Seats(),
		Muted:      st.Muted(),
		SeatIndex:  st.SeatIndex(),
		GiftMode:   st.GiftMode(),
		Recipients: st.GiftRecipients(),
	}

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "room-1", decoded["roomId"])
	assert.Equal(t, float64(4), decoded["seatIndex"])
	assert.Equal(t, false, decoded["muted"])
	assert.Len(t, decoded["seats"], room.SeatCount)
	assert.NotContains(t, decoded, "clickAction")
}
