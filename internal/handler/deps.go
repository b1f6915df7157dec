package handler

import (
	"yallagames/internal/app/imagegen"
	"yallagames/internal/app/live"
	"yallagames/internal/app/storage"
	"yallagames/internal/app/store"
	"yallagames/internal/configs"
)

// AppDeps bundles the shared services handed to every handler constructor.
type AppDeps struct {
	Hub       *live.Hub
	Config    *configs.AppConfig
	Users     *store.UserStore
	Documents *store.DocumentStore
	ImageGen  *imagegen.Client

	// Storage is nil when object storage is not configured; images then stay
	// inline as data URLs.
	Storage storage.Service
}
