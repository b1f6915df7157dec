/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
authenticating the caller, upgrading the HTTP connection to WebSocket, and initiating the
session lifecycle.
*/
package handler

import (
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"yallagames/internal/app/live"
	"yallagames/internal/app/room"
	"yallagames/internal/pkg/auth/jwt"
	"yallagames/internal/pkg/errs"
	"yallagames/internal/pkg/limiter"
	"yallagames/internal/pkg/logx"
	"yallagames/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
// Browsers cannot set the Authorization header on WebSocket upgrades, so the
// identity token is accepted as a query parameter.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			logx.Warn("WebSocket request rejected: Missing token query parameter")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		payload, err := jwt.ParseToken(tokenString, deps.Config.JWTSecret)
		if err != nil {
			logx.Warn("WebSocket request rejected: Invalid token", "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		// Load the account for a fresh profile and a ban check; the token may
		// predate both.
		user, err := deps.Users.GetByID(r.Context(), payload.ID)
		if err != nil {
			logx.Warn("WebSocket request rejected: Account not found", "user_id", payload.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		if user.IsBanned(time.Now()) {
			logx.Warn("WebSocket request rejected: Account banned", "user_id", user.ID, "ban_until", user.BanUntil)
			resp.RespondError(w, r, errs.NewError(errs.ErrAccountBanned, user.BanUntil.Format("2006-01-02 15:04")))
			return
		}

		participant := room.Participant{
			ID:       user.ID,
			Name:     user.DisplayName,
			Avatar:   user.PhotoURL,
			CustomID: user.CustomID,
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		session := live.NewSession(deps.Hub, conn, participant)

		go session.WritePump()

		logx.Info("WebSocket connection established", "user_id", user.ID)

		deps.Hub.RegisterSession(session)

		session.ReadPump()
	}
}
