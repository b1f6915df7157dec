/*
Package handler provides the HTTP handler for avatar frame concept generation.
*/
package handler

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"yallagames/internal/app/imagegen"
	"yallagames/internal/pkg/errs"
	"yallagames/internal/pkg/logx"
	"yallagames/internal/pkg/randx"
	"yallagames/internal/pkg/req"
	"yallagames/internal/pkg/resp"
)

// MaxFrameIdeaLen caps the length of a frame concept idea.
const MaxFrameIdeaLen = 200

type GenerateFrameInput struct {
	Idea string `json:"idea"`
}

// HandleGenerateFrame renders an avatar frame concept (assembled view plus
// exploded parts view) for the given idea. When object storage is configured
// the renders are offloaded and returned as download URLs; otherwise they
// come back inline as data URLs. Failures return no partial result.
func HandleGenerateFrame(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input GenerateFrameInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		idea := strings.TrimSpace(input.Idea)
		if idea == "" || utf8.RuneCountInString(idea) > MaxFrameIdeaLen {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		concept, err := deps.ImageGen.GenerateFrameConcept(r.Context(), idea)
		if err != nil {
			logx.Error(err, "frame generation failed", "idea", idea)
			resp.RespondError(w, r, errs.NewError(errs.ErrImageGenFailed))
			return
		}

		if deps.Storage != nil {
			if err := offloadConcept(r, deps, concept); err != nil {
				resp.RespondError(w, r, err)
				return
			}
		}

		resp.RespondSuccess(w, r, map[string]any{"concept": concept})
	}
}

// offloadConcept moves both renders of a concept to object storage, replacing
// the inline data URLs with download links.
func offloadConcept(r *http.Request, deps *AppDeps, concept *imagegen.FrameConcept) *errs.CustomError {
	suffix, err := randx.ObjectKey()
	if err != nil {
		return errs.NewError(errs.ErrUnknown)
	}

	mainURL, err := deps.Storage.UploadDataURL(r.Context(), "frames/"+suffix+"-main", concept.MainImageURL)
	if err != nil {
		logx.Error(err, "frame offload failed (main)")
		return errs.NewError(errs.ErrFileStorageFailed)
	}

	explodedURL, err := deps.Storage.UploadDataURL(r.Context(), "frames/"+suffix+"-exploded", concept.ExplodedImageURL)
	if err != nil {
		logx.Error(err, "frame offload failed (exploded)")
		return errs.NewError(errs.ErrFileStorageFailed)
	}

	concept.MainImageURL = mainURL
	concept.ExplodedImageURL = explodedURL
	return nil
}
