/*
Package live contains the real-time session layer.

This file defines the Hub struct, which serves as the central coordinator:
it tracks every connected session, owns the per-room broadcast channels,
and cleans up channels that shut themselves down.
*/
package live

import (
	"sync"

	"github.com/rs/zerolog"

	"yallagames/internal/app/store"
	"yallagames/internal/configs"
	"yallagames/internal/pkg/logx"
)

// Hub coordinates all live sessions and room channels.
type Hub struct {
	// channels stores a map of all Channel instances, keyed by room ID.
	channels map[string]*Channel

	// sessions stores every connected session, keyed by user ID.
	sessions map[string]*Session

	// config holds the application's read-only configuration settings.
	config *configs.AppConfig

	// users provides wallet access for gift debits.
	users *store.UserStore

	// documents provides collection reads for room lookups and subscriptions.
	documents *store.DocumentStore

	// bus delivers collection change wakeups for SUBSCRIBE streams.
	bus *store.ChangeBus

	// mu protects concurrent access to the channels and sessions maps.
	mu sync.RWMutex

	// the channel used by Channels to notify the Hub to clean up and remove them.
	cleanup chan ChannelCleanupMsg

	// wg is used to wait for the runCleanupLoop goroutine to finish during shutdown.
	wg sync.WaitGroup

	// structured logger with Hub context.
	logger zerolog.Logger
}

// NewHub constructs and returns a new Hub instance.
func NewHub(cfg *configs.AppConfig, users *store.UserStore, documents *store.DocumentStore, bus *store.ChangeBus) *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	h := &Hub{
		channels:  make(map[string]*Channel),
		sessions:  make(map[string]*Session),
		config:    cfg,
		users:     users,
		documents: documents,
		bus:       bus,
		cleanup:   make(chan ChannelCleanupMsg, 10),
		logger:    hubLogger,
	}

	h.wg.Add(1)

	go h.runCleanupLoop()

	return h
}

// runCleanupLoop is a blocking loop that listens on the cleanup channel.
// When a ChannelCleanupMsg is received, it removes the corresponding channel.
func (h *Hub) runCleanupLoop() {
	defer h.wg.Done()

	h.logger.Info().Msg("Cleanup loop started.")

	for msg := range h.cleanup {
		h.deleteChannel(msg.RoomID)
	}

	h.logger.Info().Msg("Cleanup loop stopped.")
}

// deleteChannel removes the specified channel from the Hub's channels map.
func (h *Hub) deleteChannel(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.channels[roomID]; ok {
		delete(h.channels, roomID)
		h.logger.Info().Str("room_id", roomID).Msg("Channel successfully removed.")
	}
}

// GetOrCreateChannel returns the live channel for a room, starting one if
// needed. The owner ID is recorded at creation for seat permission checks.
func (h *Hub) GetOrCreateChannel(roomID, ownerID string) *Channel {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.channels[roomID]; ok {
		return existing
	}

	channel := NewChannel(roomID, ownerID, h.cleanup)
	h.channels[roomID] = channel

	go channel.Run()

	h.logger.Info().Str("room_id", roomID).Msg("New channel created and started.")
	return channel
}

// RegisterSession records a connected session. A previous connection for the
// same user is kicked and replaced.
func (h *Hub) RegisterSession(session *Session) {
	h.mu.Lock()
	existing, ok := h.sessions[session.user.ID]
	h.sessions[session.user.ID] = session
	h.mu.Unlock()

	if ok {
		h.logger.Warn().
			Str("user_id", session.user.ID).
			Msg("User already connected. Kicking old connection for replacement.")
		existing.Kick("Session replaced by new connection. Check other tabs.")
	}
}

// UnregisterSession removes a session from the registry. A stale entry from a
// replaced connection is left untouched.
func (h *Hub) UnregisterSession(session *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.sessions[session.user.ID]; ok && current == session {
		delete(h.sessions, session.user.ID)
	}
}

// Shutdown gracefully shuts down the Hub and all managed channels.
// It stops all channel Run loops, closes the cleanup channel, and waits for the cleanup goroutine to exit.
func (h *Hub) Shutdown() {
	h.logger.Info().Msg("Shutting down Hub cleanup loop...")

	h.mu.Lock()

	for _, channel := range h.channels {
		channel.Stop()
	}
	h.channels = nil

	for _, session := range h.sessions {
		session.Close()
	}
	h.sessions = nil

	h.mu.Unlock()

	close(h.cleanup)
	h.wg.Wait()

	h.logger.Info().Msg("Hub shutdown complete.")
}
