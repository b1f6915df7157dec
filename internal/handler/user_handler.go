/*
Package handler provides HTTP handler functions for user profile and wallet access.
*/
package handler

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"yallagames/internal/app/storage"
	"yallagames/internal/app/store"
	"yallagames/internal/pkg/auth/jwt"
	"yallagames/internal/pkg/errs"
	"yallagames/internal/pkg/logx"
	"yallagames/internal/pkg/randx"
	"yallagames/internal/pkg/req"
	"yallagames/internal/pkg/resp"
)

// MaxDisplayNameLen caps the rendered length of a display name.
const MaxDisplayNameLen = 30

// HandleGetProfile returns the authenticated account, wallet balance included.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		user, err := deps.Users.GetByID(r.Context(), identity.ID)
		if err != nil {
			logx.Warn("get_profile: user not found", "id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"user": user})
	}
}

type SetupProfileInput struct {
	DisplayName string `json:"displayName"`
	Gender      string `json:"gender"`
	BirthDate   string `json:"birthDate"`
	PhotoData   string `json:"photoData,omitempty"`
}

// HandleSetupProfile completes a fresh account's profile. The photo arrives as
// an inline data URL; when absent, a generated placeholder avatar seeded by
// the display ID is used instead.
func HandleSetupProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		var input SetupProfileInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.DisplayName == "" || input.Gender == "" || input.BirthDate == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if utf8.RuneCountInString(input.DisplayName) > MaxDisplayNameLen {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		user, err := deps.Users.GetByID(r.Context(), identity.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		photoURL := fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", user.CustomID)
		if input.PhotoData != "" {
			resolved, customErr := resolveImage(r, deps, "avatars/"+user.ID, input.PhotoData)
			if customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
			photoURL = resolved
		}

		update := store.ProfileUpdate{
			DisplayName: input.DisplayName,
			Bio:         user.Bio,
			Gender:      input.Gender,
			BirthDate:   input.BirthDate,
			PhotoURL:    photoURL,
			HeaderURL:   user.HeaderURL,
		}

		if err := deps.Users.UpdateProfile(r.Context(), user.ID, update); err != nil {
			logx.Error(err, "setup_profile: update failed", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		user, err = deps.Users.GetByID(r.Context(), user.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		// Re-issue the token so the live session label picks up the new name.
		token, err := issueToken(deps, user)
		if err != nil {
			logx.Error(err, "setup_profile: token refresh failed", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user":  user,
		})
	}
}

type UpdateProfileInput struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	Gender      string `json:"gender"`
	BirthDate   string `json:"birthDate"`
	PhotoData   string `json:"photoData,omitempty"`
	HeaderData  string `json:"headerData,omitempty"`
}

// HandleUpdateProfile overwrites the editable profile fields. New photo or
// header images arrive as inline data URLs.
func HandleUpdateProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		var input UpdateProfileInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.DisplayName == "" || utf8.RuneCountInString(input.DisplayName) > MaxDisplayNameLen {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		user, err := deps.Users.GetByID(r.Context(), identity.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		photoURL := user.PhotoURL
		if input.PhotoData != "" {
			resolved, customErr := resolveImage(r, deps, "avatars/"+user.ID, input.PhotoData)
			if customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
			photoURL = resolved
		}

		headerURL := user.HeaderURL
		if input.HeaderData != "" {
			resolved, customErr := resolveImage(r, deps, "headers/"+user.ID, input.HeaderData)
			if customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
			headerURL = resolved
		}

		update := store.ProfileUpdate{
			DisplayName: input.DisplayName,
			Bio:         input.Bio,
			Gender:      input.Gender,
			BirthDate:   input.BirthDate,
			PhotoURL:    photoURL,
			HeaderURL:   headerURL,
		}

		if err := deps.Users.UpdateProfile(r.Context(), user.ID, update); err != nil {
			logx.Error(err, "update_profile: update failed", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		user, err = deps.Users.GetByID(r.Context(), user.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrDocumentStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"user": user})
	}
}

// HandleGetWallet returns the caller's coin balance.
func HandleGetWallet(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		user, err := deps.Users.GetByID(r.Context(), identity.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"coins": user.Coins})
	}
}

// resolveImage validates an inline image and, when object storage is
// configured, offloads it and returns the download URL. Without storage the
// validated data URL is kept inline.
func resolveImage(r *http.Request, deps *AppDeps, keyPrefix, dataURL string) (string, *errs.CustomError) {
	if _, _, err := storage.ParseDataURL(dataURL); err != nil {
		logx.Warn("image rejected", "key_prefix", keyPrefix, "error", err)
		return "", errs.NewError(errs.ErrImageDataInvalid)
	}

	if deps.Storage == nil {
		return dataURL, nil
	}

	suffix, err := randx.ObjectKey()
	if err != nil {
		return "", errs.NewError(errs.ErrUnknown)
	}

	url, err := deps.Storage.UploadDataURL(r.Context(), keyPrefix+"/"+suffix, dataURL)
	if err != nil {
		logx.Error(err, "image offload failed", "key_prefix", keyPrefix)
		return "", errs.NewError(errs.ErrFileStorageFailed)
	}

	return url, nil
}
