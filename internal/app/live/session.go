/*
Package live contains the real-time session layer.

This file defines the Session struct, representing an active WebSocket
connection. It manages the connection lifecycle (ReadPump and WritePump),
dispatches inbound commands, and owns the session's in-room state.
*/
package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"yallagames/internal/app/room"
	"yallagames/internal/app/store"
	"yallagames/internal/pkg/errs"
	"yallagames/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 8192

	// maximum allowed size (in bytes) for text message content.
	MaxContentBytes = 5000

	// WsCloseCodeSessionKicked is a custom WebSocket Close Code (4000-4999 range)
	// used to signal the client that the session was replaced by a new connection.
	WsCloseCodeSessionKicked = 4001

	// storeTimeout bounds document store round trips triggered by commands.
	storeTimeout = 5 * time.Second
)

// Session represents an active WebSocket connection and its associated user.
type Session struct {
	// hub is the central coordinator the session belongs to.
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// user is the participant summary from the caller's identity token.
	user room.Participant

	// state is the session-local room state (seats, selector, mute flag).
	// It is mutated only from the ReadPump goroutine.
	state *room.State

	// channel is the broadcast hub of the room the session is in, nil outside rooms.
	channel *Channel

	// subscriptions maps collection names to their cancel functions.
	subscriptions map[string]func()

	// a buffered channel used to queue messages waiting to be sent to the client.
	send chan []byte

	// sendMu guards send and closed. Subscription pumps, Kick, and the hub
	// shutdown all touch the queue from outside the ReadPump goroutine.
	sendMu sync.Mutex
	closed bool

	// structured logger with session context.
	logger zerolog.Logger
}

// NewSession constructs and returns a new Session instance.
func NewSession(hub *Hub, conn *websocket.Conn, user room.Participant) *Session {
	sessionLogger := logx.Logger().With().
		Str("user_id", user.ID).
		Logger()

	return &Session{
		hub:           hub,
		conn:          conn,
		user:          user,
		state:         room.NewState(user),
		subscriptions: make(map[string]func()),
		send:          make(chan []byte, 256),
		logger:        sessionLogger,
	}
}

// ReadPump handles reading messages from the WebSocket connection.
// It handles heartbeats (Pong), command dispatch, and performs cleanup upon connection closure.
func (s *Session) ReadPump() {
	defer s.cleanupOnDisconnect()

	s.conn.SetReadLimit(maxMessageSize)

	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		s.processInboundMessage(messageBytes)
	}
}

// cleanupOnDisconnect handles the necessary cleanup steps when the session's ReadPump terminates.
func (s *Session) cleanupOnDisconnect() {
	s.logger.Info().Msg("Session cleanup starting.")

	for collection, cancel := range s.subscriptions {
		cancel()
		delete(s.subscriptions, collection)
	}

	if s.channel != nil {
		s.channel.Unregister(s)
		s.channel = nil
	}

	s.hub.UnregisterSession(s)

	if err := s.conn.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Session connection close error")
	}
}

// processInboundMessage dispatches raw byte messages received from the client.
func (s *Session) processInboundMessage(messageBytes []byte) {
	var inbound struct {
		Type    MessageType     `json:"type"`
		Payload json.RawMessage `json:"payload,omitempty"`
	}

	if err := json.Unmarshal(messageBytes, &inbound); err != nil {
		s.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		return
	}

	switch inbound.Type {
	case TypeJoinRoom:
		s.handleJoinRoom(inbound.Payload)
	case TypeLeaveRoom:
		s.handleLeaveRoom()
	case TypeText:
		s.handleText(inbound.Payload)
	case TypeGift:
		s.handleGift(inbound.Payload)
	case TypeTakeSeat:
		s.handleTakeSeat(inbound.Payload)
	case TypeLeaveSeat:
		s.handleLeaveSeat(inbound.Payload)
	case TypeToggleLock:
		s.handleToggleLock(inbound.Payload)
	case TypeSeatClick:
		s.handleSeatClick(inbound.Payload)
	case TypeSetMute:
		s.handleSetMute(inbound.Payload)
	case TypeGiftMode:
		s.handleGiftMode(inbound.Payload)
	case TypeGiftTarget:
		s.handleGiftTarget(inbound.Payload)
	case TypeSubscribe:
		s.handleSubscribe(inbound.Payload)
	case TypeUnsubscribe:
		s.handleUnsubscribe(inbound.Payload)
	default:
		s.logger.Warn().Str("msg_type", string(inbound.Type)).Msg("Client sent unsupported message type")
	}
}

// handleJoinRoom moves the session into a room, resolving the owner from the
// room document. Entering a different room resets the session's seat state.
func (s *Session) handleJoinRoom(payloadBytes json.RawMessage) {
	var payload JoinRoomPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil || payload.RoomID == "" {
		s.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	doc, err := s.hub.documents.Get(ctx, store.CollectionRooms, payload.RoomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.SendError(errs.NewError(errs.ErrRoomNotFound))
			return
		}
		s.logger.Error().Err(err).Msg("Room lookup failed")
		s.SendError(errs.NewError(errs.ErrDocumentStoreFailed))
		return
	}

	ownerID, _ := doc.Data["ownerId"].(string)

	if s.channel != nil {
		s.channel.Unregister(s)
	}

	channel := s.hub.GetOrCreateChannel(doc.ID, ownerID)
	channel.Register(s)
	s.channel = channel

	s.state.EnterRoom(doc.ID, ownerID)
	s.sendSeatState("")
}

// handleLeaveRoom moves the session out of its current room.
func (s *Session) handleLeaveRoom() {
	if s.channel == nil {
		return
	}

	s.channel.Unregister(s)
	s.channel = nil
	s.state.ExitRoom()
	s.sendSeatState("")
}

// handleText relays a chat message to the other sessions of the room.
func (s *Session) handleText(payloadBytes json.RawMessage) {
	var payload TextPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.logger.Warn().Err(err).Msg("Client sent invalid TEXT payload")
		return
	}

	if s.channel == nil {
		s.SendError(errs.NewError(errs.ErrRoomNotFound))
		return
	}

	if len(payload.Content) > MaxContentBytes {
		s.SendError(errs.NewError(errs.ErrMessageContentTooLong))
		return
	}

	msg, err := NewMessage(TypeText, s.channel.RoomID, s.user, payload)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build TEXT message for relay")
		return
	}

	s.channel.Broadcast(msg)
}

// handleGift validates a gift send, debits the sender's wallet, and announces
// the gift to the room. The recipient set is the session's current selection.
func (s *Session) handleGift(payloadBytes json.RawMessage) {
	var payload GiftPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	gift, ok := room.GiftByID(payload.GiftID)
	if !ok {
		s.SendError(errs.NewError(errs.ErrGiftNotFound))
		return
	}

	if !room.ValidQuantity(payload.Quantity) {
		s.SendError(errs.NewError(errs.ErrGiftQuantityInvalid))
		return
	}

	recipients := s.state.GiftRecipients()
	if len(recipients) == 0 {
		s.SendError(errs.NewError(errs.ErrGiftNoRecipients))
		return
	}

	cost := gift.Cost(payload.Quantity, len(recipients))

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	balance, err := s.hub.users.DebitCoins(ctx, s.user.ID, cost)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInsufficientCoins):
			s.SendError(errs.NewError(errs.ErrInsufficientCoins))
		case errors.Is(err, store.ErrNotFound):
			s.SendError(errs.NewError(errs.ErrUserNotFound))
		default:
			s.logger.Error().Err(err).Msg("Gift debit failed")
			s.SendError(errs.NewError(errs.ErrDocumentStoreFailed))
		}
		return
	}

	wallet, err := NewMessage(TypeWalletUpdate, s.state.RoomID(), SystemParticipant, WalletUpdatePayload{Coins: balance})
	if err == nil {
		s.queueMessage(wallet)
	}

	if s.channel != nil {
		event := GiftEventPayload{
			GiftID:     gift.ID,
			GiftName:   gift.Name,
			Quantity:   payload.Quantity,
			Recipients: len(recipients),
		}
		msg, err := NewMessage(TypeGift, s.channel.RoomID, s.user, event)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to build GIFT message for relay")
			return
		}
		s.channel.Broadcast(msg)
	}
}

// seatIndexFromPayload parses and range-checks a seat command payload.
func (s *Session) seatIndexFromPayload(payloadBytes json.RawMessage) (int, bool) {
	var payload SeatPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.SendError(errs.NewError(errs.ErrInvalidParams))
		return 0, false
	}

	if payload.Index < 0 || payload.Index >= room.SeatCount {
		s.SendError(errs.NewError(errs.ErrSeatIndexInvalid))
		return 0, false
	}

	return payload.Index, true
}

func (s *Session) handleTakeSeat(payloadBytes json.RawMessage) {
	index, ok := s.seatIndexFromPayload(payloadBytes)
	if !ok {
		return
	}

	if !s.state.TakeSeat(index) {
		s.SendError(errs.NewError(errs.ErrSeatUnavailable))
		return
	}

	s.sendSeatState("")
}

func (s *Session) handleLeaveSeat(payloadBytes json.RawMessage) {
	index, ok := s.seatIndexFromPayload(payloadBytes)
	if !ok {
		return
	}

	s.state.LeaveSeat(index)
	s.sendSeatState("")
}

// handleToggleLock flips a seat between open and locked. Non-owners and
// occupied seats make it a no-op; the echoed state reflects whatever held.
func (s *Session) handleToggleLock(payloadBytes json.RawMessage) {
	index, ok := s.seatIndexFromPayload(payloadBytes)
	if !ok {
		return
	}

	s.state.ToggleLock(index)
	s.sendSeatState("")
}

func (s *Session) handleSeatClick(payloadBytes json.RawMessage) {
	index, ok := s.seatIndexFromPayload(payloadBytes)
	if !ok {
		return
	}

	action := s.state.Click(index)

	var actionName string
	switch action {
	case room.ClickTookSeat:
		actionName = "tookSeat"
	case room.ClickMenu:
		actionName = "menu"
	default:
		actionName = "ignored"
	}

	s.sendSeatState(actionName)
}

func (s *Session) handleSetMute(payloadBytes json.RawMessage) {
	var payload MutePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	s.state.SetMuted(payload.Muted)
	s.sendSeatState("")
}

func (s *Session) handleGiftMode(payloadBytes json.RawMessage) {
	var payload GiftModePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	switch payload.Mode {
	case room.ModeManual, room.ModeAllRoom, room.ModeAllMic:
	default:
		s.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	s.state.SetGiftMode(payload.Mode)
	s.sendSeatState("")
}

func (s *Session) handleGiftTarget(payloadBytes json.RawMessage) {
	var payload GiftTargetPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil || payload.UserID == "" {
		s.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	s.state.ToggleGiftTarget(payload.UserID)
	s.sendSeatState("")
}

// handleSubscribe starts a snapshot stream for a document collection: one
// snapshot immediately, then one after every change-bus wakeup.
func (s *Session) handleSubscribe(payloadBytes json.RawMessage) {
	var payload SubscribePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	if !store.KnownCollection(payload.Collection) {
		s.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	if _, exists := s.subscriptions[payload.Collection]; exists {
		return
	}

	collection := payload.Collection
	s.pushSnapshot(collection, nil)

	wakeups, cancelBus := s.hub.bus.Subscribe(collection)
	done := make(chan struct{})
	finished := make(chan struct{})

	// Cancellation is synchronous: once it returns, the pump has exited and
	// no further snapshot for this subscription will be queued.
	s.subscriptions[collection] = func() {
		cancelBus()
		close(done)
		<-finished
	}

	go func() {
		defer close(finished)

		for {
			select {
			case <-done:
				return
			case _, ok := <-wakeups:
				if !ok {
					return
				}
				s.pushSnapshot(collection, done)
			}
		}
	}()
}

func (s *Session) handleUnsubscribe(payloadBytes json.RawMessage) {
	var payload SubscribePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	if cancel, ok := s.subscriptions[payload.Collection]; ok {
		cancel()
		delete(s.subscriptions, payload.Collection)
	}
}

// pushSnapshot re-reads a collection and queues a SNAPSHOT message. A
// non-nil abort channel suppresses delivery when the subscription was
// released while the read was in flight.
func (s *Session) pushSnapshot(collection string, abort <-chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	docs, err := s.hub.documents.List(ctx, collection, 0)
	if err != nil {
		s.logger.Error().Err(err).Str("collection", collection).Msg("Snapshot read failed")
		s.SendError(errs.NewError(errs.ErrDocumentStoreFailed))
		return
	}

	if abort != nil {
		select {
		case <-abort:
			return
		default:
		}
	}

	payload := SnapshotPayload{Collection: collection, Documents: make([]map[string]any, 0, len(docs))}
	for _, doc := range docs {
		entry := map[string]any{"id": doc.ID, "createdAt": doc.CreatedAt.UnixMilli()}
		for k, v := range doc.Data {
			entry[k] = v
		}
		payload.Documents = append(payload.Documents, entry)
	}

	msg, err := NewMessage(TypeSnapshot, "", SystemParticipant, payload)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build SNAPSHOT message")
		return
	}

	s.queueMessage(msg)
}

// sendSeatState echoes the session's full room state back to this session only.
func (s *Session) sendSeatState(clickAction string) {
	payload := SeatStatePayload{
		RoomID:      s.state.RoomID(),
		Seats:       s.state.Seats(),
		Muted:       s.state.Muted(),
		SeatIndex:   s.state.SeatIndex(),
		GiftMode:    s.state.GiftMode(),
		Recipients:  s.state.GiftRecipients(),
		ClickAction: clickAction,
	}

	msg, err := NewMessage(TypeSeatState, s.state.RoomID(), SystemParticipant, payload)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build SEAT_STATE message")
		return
	}

	s.queueMessage(msg)
}

// WritePump handles writing messages from the Session.send channel to the WebSocket connection.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := s.conn.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Session connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-s.send:
			if !s.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !s.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage handles messages pulled from the send channel, writing them to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (s *Session) writeQueuedMessage(message []byte, ok bool) bool {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := s.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			s.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		s.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (s *Session) writePingMessage() bool {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		s.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// queueMessage marshals the message and attempts to queue it on the send
// channel. Messages arriving after Close are dropped.
func (s *Session) queueMessage(msg Message) {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error marshaling message for session")
		return
	}

	s.queueRaw(messageBytes)
}

// queueRaw places already-encoded bytes on the send channel. It reports false
// when the session is closed or the queue is full; the message is dropped
// either way.
func (s *Session) queueRaw(messageBytes []byte) bool {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.closed {
		s.logger.Debug().Msg("Session closed, dropping message")
		return false
	}

	select {
	case s.send <- messageBytes:
		return true
	default:
		s.logger.Warn().Int("queue_len", len(s.send)).Msg("Session send channel full, dropping message")
		return false
	}
}

// SendError constructs and sends an ERROR message to the session.
func (s *Session) SendError(err error) {
	var code int
	var message string

	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		code = customErr.Code
		message = customErr.Message
	} else {
		code = errs.ErrUnknown
		message = fmt.Sprintf("Internal server error: %v", err)
	}

	errorMsg, msgErr := NewMessage(
		TypeError,
		s.state.RoomID(),
		SystemParticipant,
		ErrorPayload{Code: code, Message: message},
	)
	if msgErr != nil {
		s.logger.Error().Err(msgErr).Msg("Failed to build ERROR message")
		return
	}

	s.queueMessage(errorMsg)
}

// Kick gracefully closes the session's connection by sending a custom WebSocket
// Close Frame (Code 4001) indicating that the session was replaced.
func (s *Session) Kick(reason string) {
	s.logger.Warn().
		Int("close_code", WsCloseCodeSessionKicked).
		Str("reason", reason).
		Msg("Sending WS Kick message and closing connection.")

	closeMessage := websocket.FormatCloseMessage(
		WsCloseCodeSessionKicked,
		reason,
	)

	s.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := s.conn.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to send WS 4001 Close Message.")
	}

	s.Close()
}

// Close shuts the outbound queue, terminating the WritePump. Safe to call
// more than once and concurrently with queueMessage.
func (s *Session) Close() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}
