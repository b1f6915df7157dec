/*
Package handler provides HTTP handler functions for room browsing and creation.
*/
package handler

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"yallagames/internal/app/store"
	"yallagames/internal/pkg/auth/jwt"
	"yallagames/internal/pkg/errs"
	"yallagames/internal/pkg/logx"
	"yallagames/internal/pkg/req"
	"yallagames/internal/pkg/resp"
)

// MaxRoomNameLen caps the rendered length of a room name.
const MaxRoomNameLen = 50

// HandleListRooms returns the room directory, newest first, capped at the
// rooms collection limit.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := deps.Documents.List(r.Context(), store.CollectionRooms, 0)
		if err != nil {
			logx.Error(err, "list_rooms: collection read failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"rooms": flattenDocuments(docs)})
	}
}

// HandleGetRoom returns a single room document.
func HandleGetRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "id")
		if roomID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		doc, err := deps.Documents.Get(r.Context(), store.CollectionRooms, roomID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
				return
			}
			logx.Error(err, "get_room: document read failed", "room_id", roomID)
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"room": flattenDocument(*doc)})
	}
}

type CreateRoomInput struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	BackgroundData string `json:"backgroundData,omitempty"`
}

// HandleCreateRoom creates a room owned by the caller.
func HandleCreateRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		var input CreateRoomInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Name == "" || utf8.RuneCountInString(input.Name) > MaxRoomNameLen {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		owner, err := deps.Users.GetByID(r.Context(), identity.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		background := ""
		if input.BackgroundData != "" {
			resolved, customErr := resolveImage(r, deps, "rooms/"+owner.ID, input.BackgroundData)
			if customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
			background = resolved
		}

		data := map[string]any{
			"name":              input.Name,
			"description":       input.Description,
			"background":        background,
			"ownerId":           owner.ID,
			"ownerName":         owner.DisplayName,
			"ownerAvatar":       owner.PhotoURL,
			"ownerCustomId":     owner.CustomID,
			"ownerLevel":        owner.Level,
			"participantsCount": 0,
		}

		doc, err := deps.Documents.Put(r.Context(), store.CollectionRooms, data)
		if err != nil {
			logx.Error(err, "create_room: document insert failed", "owner_id", owner.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"room": flattenDocument(*doc)})
	}
}

// HandleListContent serves the public content collections (banners, news,
// room backgrounds, settings).
func HandleListContent(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection := chi.URLParam(r, "collection")
		if !store.KnownCollection(collection) || collection == store.CollectionRooms {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		docs, err := deps.Documents.List(r.Context(), collection, 0)
		if err != nil {
			logx.Error(err, "list_content: collection read failed", "collection", collection)
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"documents": flattenDocuments(docs)})
	}
}

// flattenDocument merges a document's identifier and timestamps into its data
// for client consumption.
func flattenDocument(doc store.Document) map[string]any {
	out := map[string]any{
		"id":        doc.ID,
		"createdAt": doc.CreatedAt.UnixMilli(),
	}
	for k, v := range doc.Data {
		out[k] = v
	}
	return out
}

func flattenDocuments(docs []store.Document) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		out = append(out, flattenDocument(doc))
	}
	return out
}
