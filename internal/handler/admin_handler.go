/*
Package handler provides HTTP handler functions for the admin panel: account
moderation (coins, display IDs, bans) and content management for the public
collections.
*/
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"yallagames/internal/app/store"
	"yallagames/internal/pkg/errs"
	"yallagames/internal/pkg/logx"
	"yallagames/internal/pkg/randx"
	"yallagames/internal/pkg/req"
	"yallagames/internal/pkg/resp"
)

// PermanentBanUntil is the sentinel expiry used for permanent bans.
var PermanentBanUntil = time.Date(2099, time.January, 1, 0, 0, 0, 0, time.UTC)

// allowedBanDays lists the selectable temporary ban durations.
var allowedBanDays = map[int]bool{1: true, 7: true, 30: true}

// HandleAdminListUsers returns the newest accounts, capped at the listing limit.
func HandleAdminListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := deps.Users.List(r.Context(), store.MaxUserListSize)
		if err != nil {
			logx.Error(err, "admin_list_users: query failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"users": users})
	}
}

type ChargeCoinsInput struct {
	Amount int64 `json:"amount"`
}

// HandleAdminChargeCoins credits a user's wallet.
func HandleAdminChargeCoins(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")

		var input ChargeCoinsInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Amount <= 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		balance, err := deps.Users.AddCoins(r.Context(), userID, input.Amount)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "admin_charge_coins: credit failed", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		logx.Info("admin credited coins", "user_id", userID, "amount", input.Amount)
		resp.RespondSuccess(w, r, map[string]any{"coins": balance})
	}
}

type SetCustomIDInput struct {
	CustomID string `json:"customId"`
}

// HandleAdminSetCustomID changes a user's 8-digit display ID.
func HandleAdminSetCustomID(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")

		var input SetCustomIDInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !randx.IsValidCustomID(input.CustomID) {
			resp.RespondError(w, r, errs.NewError(errs.ErrCustomIDInvalid))
			return
		}

		err := deps.Users.SetCustomID(r.Context(), userID, input.CustomID)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			case store.UniqueConstraint(err) == store.ConstraintUsersCustomID:
				resp.RespondError(w, r, errs.NewError(errs.ErrCustomIDTaken))
			default:
				logx.Error(err, "admin_set_custom_id: update failed", "user_id", userID)
				resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			}
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"customId": input.CustomID})
	}
}

type BanInput struct {
	Days      int  `json:"days,omitempty"`
	Permanent bool `json:"permanent,omitempty"`
}

// HandleAdminBanUser bans an account for 1, 7, or 30 days, or permanently.
// Banned accounts are refused at sign-in until the expiry passes.
func HandleAdminBanUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")

		var input BanInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var until time.Time
		if input.Permanent {
			until = PermanentBanUntil
		} else {
			if !allowedBanDays[input.Days] {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
				return
			}
			until = time.Now().Add(time.Duration(input.Days) * 24 * time.Hour)
		}

		if err := deps.Users.SetBan(r.Context(), userID, &until); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "admin_ban_user: update failed", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		logx.Info("admin banned account", "user_id", userID, "ban_until", until)
		resp.RespondSuccess(w, r, map[string]any{"banUntil": until})
	}
}

// HandleAdminUnbanUser lifts an account ban.
func HandleAdminUnbanUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")

		if err := deps.Users.SetBan(r.Context(), userID, nil); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "admin_unban_user: update failed", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		logx.Info("admin lifted ban", "user_id", userID)
		resp.RespondSuccess(w, r, nil)
	}
}

// contentCollection validates the collection path parameter for content CRUD.
func contentCollection(r *http.Request) (string, *errs.CustomError) {
	collection := chi.URLParam(r, "collection")
	if !store.KnownCollection(collection) {
		return "", errs.NewError(errs.ErrInvalidParams)
	}
	return collection, nil
}

// prepareContentData offloads an inline "imageData" field (when object
// storage is configured) and stores the result under "image".
func prepareContentData(r *http.Request, deps *AppDeps, collection string, data map[string]any) (map[string]any, *errs.CustomError) {
	raw, ok := data["imageData"].(string)
	if !ok || raw == "" {
		return data, nil
	}

	resolved, customErr := resolveImage(r, deps, "content/"+collection, raw)
	if customErr != nil {
		return nil, customErr
	}

	delete(data, "imageData")
	data["image"] = resolved
	return data, nil
}

// HandleAdminCreateContent inserts a document into a content collection.
func HandleAdminCreateContent(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection, customErr := contentCollection(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var data map[string]any
		if customErr := req.BindJSON(w, r, &data); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		data, customErr = prepareContentData(r, deps, collection, data)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		doc, err := deps.Documents.Put(r.Context(), collection, data)
		if err != nil {
			logx.Error(err, "admin_create_content: insert failed", "collection", collection)
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"document": flattenDocument(*doc)})
	}
}

// HandleAdminUpdateContent replaces a content document.
func HandleAdminUpdateContent(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection, customErr := contentCollection(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		docID := chi.URLParam(r, "id")

		var data map[string]any
		if customErr := req.BindJSON(w, r, &data); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		data, customErr = prepareContentData(r, deps, collection, data)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := deps.Documents.Replace(r.Context(), collection, docID, data); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
				return
			}
			logx.Error(err, "admin_update_content: replace failed", "collection", collection, "doc_id", docID)
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleAdminDeleteContent removes a content document.
func HandleAdminDeleteContent(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection, customErr := contentCollection(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		docID := chi.URLParam(r, "id")

		if err := deps.Documents.Delete(r.Context(), collection, docID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
				return
			}
			logx.Error(err, "admin_delete_content: delete failed", "collection", collection, "doc_id", docID)
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleAdminMergeSettings shallow-merges fields into a fixed-name settings
// document ("appearance" or "design"), creating it on first write.
func HandleAdminMergeSettings(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docID := chi.URLParam(r, "id")
		if docID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		var patch map[string]any
		if customErr := req.BindJSON(w, r, &patch); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		patch, customErr := prepareContentData(r, deps, store.CollectionSettings, patch)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := deps.Documents.Merge(r.Context(), store.CollectionSettings, docID, patch); err != nil {
			if errors.Is(err, store.ErrWrongCollection) {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
				return
			}
			logx.Error(err, "admin_merge_settings: merge failed", "doc_id", docID)
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}
