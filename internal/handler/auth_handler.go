/*
Package handler provides HTTP handler functions for user authentication and management.
*/
package handler

import (
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"yallagames/internal/app/store"
	"yallagames/internal/pkg/auth/jwt"
	"yallagames/internal/pkg/errs"
	"yallagames/internal/pkg/logx"
	"yallagames/internal/pkg/randx"
	"yallagames/internal/pkg/req"
	"yallagames/internal/pkg/resp"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// customIDAttempts caps retries when a freshly generated display ID collides.
const customIDAttempts = 5

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister processes the request to create a new account with email and password.
// The account starts with a generated display ID, level 1, and an empty wallet;
// the profile is completed afterwards through the profile setup endpoint.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))
		if !emailRegex.MatchString(email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}

		passwordLen := utf8.RuneCountInString(input.Password)
		if passwordLen < 6 || passwordLen > 50 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		role := jwt.RoleUser
		if deps.Config.OfficialEmail != "" && email == deps.Config.OfficialEmail {
			role = jwt.RoleOfficial
		}

		user := &store.User{
			ID:           uuid.New().String(),
			Email:        email,
			PasswordHash: string(hashedPassword),
			Level:        1,
			Coins:        0,
			Role:         role,
		}

		var created bool
		for attempt := 0; attempt < customIDAttempts && !created; attempt++ {
			customID, err := randx.CustomID()
			if err != nil {
				logx.Error(err, "failed to generate display ID")
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
				return
			}
			user.CustomID = customID

			err = deps.Users.Create(r.Context(), user)
			if err == nil {
				created = true
				break
			}

			switch store.UniqueConstraint(err) {
			case store.ConstraintUsersEmail:
				logx.Warn("registration conflict: email already exists", "email", email)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			case store.ConstraintUsersCustomID:
				// Collision on the generated display ID, try another.
				continue
			default:
				logx.Error(err, "failed to create user in database")
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
				return
			}
		}

		if !created {
			logx.Error(nil, "exhausted display ID generation attempts", "email", email)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		token, err := issueToken(deps, user)
		if err != nil {
			logx.Error(err, "failed to generate token after registration")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user":  user,
		})
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials, refuses banned accounts, and issues a JWT token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))

		user, err := deps.Users.GetByEmail(r.Context(), email)
		if err != nil {
			logx.Warn("login: user fetch failed", "email", email, "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "email", email)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if user.IsBanned(time.Now()) {
			logx.Warn("login: banned account refused", "user_id", user.ID, "ban_until", user.BanUntil)
			resp.RespondError(w, r, errs.NewError(errs.ErrAccountBanned, user.BanUntil.Format("2006-01-02 15:04")))
			return
		}

		token, err := issueToken(deps, user)
		if err != nil {
			logx.Error(err, "login: jwt generation failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user":  user,
		})
	}
}

// issueToken signs an identity token for the given account.
func issueToken(deps *AppDeps, user *store.User) (string, error) {
	payload := &jwt.Payload{
		ID:     user.ID,
		Role:   user.Role,
		Name:   user.DisplayName,
		Avatar: user.PhotoURL,
	}

	return jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.IdentityExpiration)
}
