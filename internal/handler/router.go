/*
Package handler provides the HTTP handlers and routing setup for the YallaGames server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"yallagames/internal/pkg/auth/jwt"
	"yallagames/internal/pkg/limiter"
	"yallagames/internal/pkg/logx"
	"yallagames/internal/pkg/resp"
)

const (
	RegisterRate  = 0.05
	RegisterBurst = 2
	GenerateRate  = 0.1
	GenerateBurst = 3
	ConnectRate   = 0.2
	ConnectBurst  = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and
// per-route middleware before wiring the REST and WebSocket handlers.
func Router(deps *AppDeps) http.Handler {
	registerLimiter := limiter.NewIPRateLimiter(rate.Limit(RegisterRate), RegisterBurst)
	generateLimiter := limiter.NewIPRateLimiter(rate.Limit(GenerateRate), GenerateBurst)
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "YallaGames Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			rateLimitedRegister := registerLimiter.Middleware(HandleRegister(deps))
			auth.Post("/register", rateLimitedRegister.ServeHTTP)
			auth.Post("/login", HandleLogin(deps))
		})

		api.Route("/user", func(user chi.Router) {
			user.Use(jwt.RequireAuthMiddleware)

			user.Get("/profile", HandleGetProfile(deps))
			user.Post("/profile", HandleUpdateProfile(deps))
			user.Post("/setup", HandleSetupProfile(deps))
			user.Get("/wallet", HandleGetWallet(deps))
		})

		api.Route("/rooms", func(rooms chi.Router) {
			rooms.Get("/", HandleListRooms(deps))
			rooms.Get("/{id}", HandleGetRoom(deps))
			rooms.With(jwt.RequireAuthMiddleware).Post("/", HandleCreateRoom(deps))
		})

		api.Get("/content/{collection}", HandleListContent(deps))

		rateLimitedGenerate := generateLimiter.Middleware(HandleGenerateFrame(deps))
		api.With(jwt.RequireAuthMiddleware).Post("/frames/generate", rateLimitedGenerate.ServeHTTP)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(jwt.RequireAdminMiddleware)

			admin.Get("/users", HandleAdminListUsers(deps))
			admin.Post("/users/{id}/coins", HandleAdminChargeCoins(deps))
			admin.Post("/users/{id}/custom-id", HandleAdminSetCustomID(deps))
			admin.Post("/users/{id}/ban", HandleAdminBanUser(deps))
			admin.Post("/users/{id}/unban", HandleAdminUnbanUser(deps))

			admin.Post("/content/{collection}", HandleAdminCreateContent(deps))
			admin.Put("/content/{collection}/{id}", HandleAdminUpdateContent(deps))
			admin.Delete("/content/{collection}/{id}", HandleAdminDeleteContent(deps))

			admin.Put("/settings/{id}", HandleAdminMergeSettings(deps))
		})
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	return r
}
