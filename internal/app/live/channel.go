/*
Package live contains the real-time session layer.

This file defines the Channel struct, the broadcast hub for a single room.
It manages session membership (register/unregister), relays chat and gift
announcements to the room's participants, and shuts itself down after a
period of inactivity.
*/
package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"yallagames/internal/pkg/logx"
)

const broadcastChannelBuffer = 1024

// ChannelInactivityTimeout is the duration after which an empty channel will automatically shut down.
const ChannelInactivityTimeout = 5 * time.Minute

// ChannelCleanupMsg notifies the Hub that a channel finished its run loop.
type ChannelCleanupMsg struct {
	RoomID string
}

// Channel represents the live broadcast hub of one room.
type Channel struct {
	// RoomID is the document identifier of the room this channel serves.
	RoomID string

	// OwnerID is the account that owns the room, used to resolve seat permissions.
	OwnerID string

	// a map of currently connected sessions, keyed by their user ID.
	sessions map[string]*Session

	// a buffered channel for messages to be relayed to the room's sessions.
	broadcast chan Message

	// a channel for sessions entering the room.
	register chan *Session

	// a channel for sessions leaving the room.
	unregister chan *Session

	// a write-only channel used to notify the Hub to clean up this channel.
	cleanupChan chan<- ChannelCleanupMsg

	// used to signal the Channel to stop its Run loop immediately.
	stopChan chan struct{}

	// the timer used to track channel inactivity.
	shutdownTimer *time.Timer

	// mu protects access to the sessions map.
	mu sync.RWMutex

	// structured logger with room context.
	logger zerolog.Logger
}

// NewChannel creates and initializes a new Channel instance.
func NewChannel(roomID, ownerID string, cleanupChan chan<- ChannelCleanupMsg) *Channel {
	channelLogger := logx.Logger().With().
		Str("room_id", roomID).
		Logger()

	return &Channel{
		RoomID:        roomID,
		OwnerID:       ownerID,
		sessions:      make(map[string]*Session),
		broadcast:     make(chan Message, broadcastChannelBuffer),
		register:      make(chan *Session),
		unregister:    make(chan *Session),
		cleanupChan:   cleanupChan,
		stopChan:      make(chan struct{}),
		shutdownTimer: time.NewTimer(ChannelInactivityTimeout),
		logger:        channelLogger,
	}
}

// Stop sends a signal to immediately terminate the Channel's Run loop.
func (c *Channel) Stop() {
	c.logger.Info().Msg("Received stop signal. Stopping channel immediately.")

	select {
	case <-c.stopChan:
	default:
		close(c.stopChan)
	}
}

// Run starts the main event loop for the Channel.
// It handles session registration, deregistration, message relaying, and channel shutdown.
func (c *Channel) Run() {
	defer func() {
		c.logger.Info().Msg("Channel Run loop finished. Notifying Hub for cleanup.")

		if c.shutdownTimer != nil {
			c.shutdownTimer.Stop()
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					logx.Warn("Recovered from panic during Hub cleanup notification (channel likely closed).")
				}
			}()

			select {
			case c.cleanupChan <- ChannelCleanupMsg{RoomID: c.RoomID}:
			default:
				c.logger.Warn().Msg("Hub cleanup channel blocked/full. Skipping cleanup notification.")
			}
		}()
	}()

	timerChan := c.shutdownTimer.C

	for {
		select {
		case session := <-c.register:
			c.addSession(session)

		case session := <-c.unregister:
			c.removeSession(session)

		case message := <-c.broadcast:
			c.relay(message)

		case <-timerChan:
			c.logger.Info().Msgf("Channel inactivity timeout (%s) reached. Shutting down.", ChannelInactivityTimeout)
			return

		case <-c.stopChan:
			c.logger.Info().Msg("Channel forced stop initiated.")
			return
		}
	}
}

// addSession registers a session with the channel and announces the join.
func (c *Channel) addSession(session *Session) {
	c.mu.Lock()

	if c.shutdownTimer.Stop() {
		select {
		case <-c.shutdownTimer.C:
		default:
		}
	}

	c.sessions[session.user.ID] = session
	total := len(c.sessions)
	c.mu.Unlock()

	c.logger.Info().
		Str("user_id", session.user.ID).
		Int("total_users", total).
		Msg("Session joined room.")

	msg, err := NewMessage(TypeUserJoined, c.RoomID, SystemParticipant, UserEventPayload{User: session.user})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build USER_JOINED message.")
		return
	}
	c.queueBroadcast(msg)
}

// removeSession unregisters a session and announces the leave. An empty
// channel arms the inactivity timer.
func (c *Channel) removeSession(session *Session) {
	c.mu.Lock()

	current, ok := c.sessions[session.user.ID]
	if !ok || current != session {
		// Stale unregister from a replaced connection.
		c.mu.Unlock()
		return
	}

	delete(c.sessions, session.user.ID)
	total := len(c.sessions)

	if total == 0 {
		if c.shutdownTimer.Stop() {
			select {
			case <-c.shutdownTimer.C:
			default:
			}
		}
		c.shutdownTimer.Reset(ChannelInactivityTimeout)
	}
	c.mu.Unlock()

	c.logger.Info().
		Str("user_id", session.user.ID).
		Int("total_users", total).
		Msg("Session left room.")

	msg, err := NewMessage(TypeUserLeft, c.RoomID, SystemParticipant, UserEventPayload{User: session.user})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build USER_LEFT message.")
		return
	}
	c.queueBroadcast(msg)
}

// relay delivers a message to every session in the room except the sender.
func (c *Channel) relay(message Message) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		c.logger.Error().
			Str("message_id", message.ID).
			Err(err).
			Msg("Error marshaling message for relay.")
		return
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, session := range c.sessions {
		if session.user.ID == message.Sender.ID {
			continue
		}

		if !session.queueRaw(messageBytes) {
			c.logger.Warn().
				Str("user_id", session.user.ID).
				Msg("Dropped relayed message.")
		}
	}
}

// queueBroadcast enqueues a message for relaying without blocking the run loop.
func (c *Channel) queueBroadcast(msg Message) {
	select {
	case c.broadcast <- msg:
	default:
		c.logger.Warn().Str("msg_type", string(msg.Type)).Msg("Broadcast channel full, dropping message.")
	}
}

// Register asks the run loop to add a session to the room.
func (c *Channel) Register(session *Session) {
	select {
	case c.register <- session:
	case <-c.stopChan:
	}
}

// Unregister asks the run loop to remove a session from the room.
func (c *Channel) Unregister(session *Session) {
	select {
	case c.unregister <- session:
	case <-c.stopChan:
	}
}

// Broadcast relays a message to the room's other sessions.
func (c *Channel) Broadcast(msg Message) {
	c.queueBroadcast(msg)
}

// Size returns the number of sessions currently in the room.
func (c *Channel) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}
