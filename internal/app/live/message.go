/*
Package live contains the real-time session layer: WebSocket connections,
per-room broadcast channels, and the per-session room state (seats, gift
selector, mute flag).

Chat and gift announcements are relayed to the other sessions of a room.
Seat and selector commands are strictly session-local: they mutate the
issuing session's state and echo the new state back to that session alone.
*/
package live

import (
	"encoding/json"
	"time"

	"yallagames/internal/app/room"
	"yallagames/internal/pkg/randx"
)

// MessageType identifies the kind of a WebSocket message.
type MessageType string

// Inbound message types.
const (
	TypeJoinRoom    MessageType = "JOIN_ROOM"
	TypeLeaveRoom   MessageType = "LEAVE_ROOM"
	TypeText        MessageType = "TEXT"
	TypeGift        MessageType = "GIFT"
	TypeTakeSeat    MessageType = "TAKE_SEAT"
	TypeLeaveSeat   MessageType = "LEAVE_SEAT"
	TypeToggleLock  MessageType = "TOGGLE_LOCK"
	TypeSeatClick   MessageType = "SEAT_CLICK"
	TypeSetMute     MessageType = "SET_MUTE"
	TypeGiftMode    MessageType = "GIFT_MODE"
	TypeGiftTarget  MessageType = "GIFT_TARGET"
	TypeSubscribe   MessageType = "SUBSCRIBE"
	TypeUnsubscribe MessageType = "UNSUBSCRIBE"
)

// Outbound message types.
const (
	TypeSeatState    MessageType = "SEAT_STATE"
	TypeSnapshot     MessageType = "SNAPSHOT"
	TypeWalletUpdate MessageType = "WALLET_UPDATE"
	TypeUserJoined   MessageType = "USER_JOINED"
	TypeUserLeft     MessageType = "USER_LEFT"
	TypeError        MessageType = "ERROR"
)

// SystemParticipant is the sender identity used for server-originated messages.
var SystemParticipant = room.Participant{ID: "system", Name: "System"}

// Message is the envelope for every WebSocket frame, inbound and outbound.
type Message struct {
	ID        string           `json:"id"`
	Type      MessageType      `json:"type"`
	RoomID    string           `json:"roomId,omitempty"`
	Sender    room.Participant `json:"sender"`
	Payload   json.RawMessage  `json:"payload,omitempty"`
	Timestamp int64            `json:"timestamp"`
}

// NewMessage builds an outbound Message, marshaling the payload and stamping
// a fresh identifier and timestamp.
func NewMessage(msgType MessageType, roomID string, sender room.Participant, payload any) (Message, error) {
	var raw json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return Message{}, err
		}
		raw = bytes
	}

	return Message{
		ID:        randx.MessageID(),
		Type:      msgType,
		RoomID:    roomID,
		Sender:    sender,
		Payload:   raw,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// JoinRoomPayload asks the session to enter a room.
type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
}

// TextPayload carries a chat message.
type TextPayload struct {
	Content string `json:"content"`
}

// SeatPayload references a seat by grid index.
type SeatPayload struct {
	Index int `json:"index"`
}

// MutePayload sets the microphone mute flag.
type MutePayload struct {
	Muted bool `json:"muted"`
}

// GiftModePayload switches the gift-target selection mode.
type GiftModePayload struct {
	Mode room.SelectionMode `json:"mode"`
}

// GiftTargetPayload toggles one recipient in manual selection mode.
type GiftTargetPayload struct {
	UserID string `json:"userId"`
}

// GiftPayload sends a gift to the current selection.
type GiftPayload struct {
	GiftID   string `json:"giftId"`
	Quantity int    `json:"quantity"`
}

// SubscribePayload names a document collection to watch.
type SubscribePayload struct {
	Collection string `json:"collection"`
}

// SeatStatePayload is the full per-session room state echoed after every
// seat or selector mutation. It is an idempotent full replacement.
type SeatStatePayload struct {
	RoomID     string             `json:"roomId"`
	Seats      []room.Seat        `json:"seats"`
	Muted      bool               `json:"muted"`
	SeatIndex  int                `json:"seatIndex"`
	GiftMode   room.SelectionMode `json:"giftMode"`
	Recipients []string           `json:"recipients"`

	// ClickAction reports how a SEAT_CLICK was resolved ("ignored",
	// "tookSeat", or "menu"). Empty on other echoes.
	ClickAction string `json:"clickAction,omitempty"`
}

// SnapshotPayload delivers the full contents of a subscribed collection.
type SnapshotPayload struct {
	Collection string           `json:"collection"`
	Documents  []map[string]any `json:"documents"`
}

// GiftEventPayload announces a sent gift to the other sessions of a room.
type GiftEventPayload struct {
	GiftID     string `json:"giftId"`
	GiftName   string `json:"giftName"`
	Quantity   int    `json:"quantity"`
	Recipients int    `json:"recipients"`
}

// WalletUpdatePayload reports the sender's balance after a debit.
type WalletUpdatePayload struct {
	Coins int64 `json:"coins"`
}

// UserEventPayload announces a join or leave in a room.
type UserEventPayload struct {
	User room.Participant `json:"user"`
}

// ErrorPayload reports a failed command to the issuing session.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
