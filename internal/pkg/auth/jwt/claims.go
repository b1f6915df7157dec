package jwt

import "github.com/golang-jwt/jwt"

// Role values carried in token claims. Admins may additionally hold the
// "official" role, which unlocks destructive panel operations.
const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleOfficial = "official"
)

// Payload defines the structure of the JSON Web Token (JWT) claims for Yalla Games.
// It includes standard claims required by the JWT specification and custom claims
// necessary for identifying and authorizing users within the platform.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the account identifier assigned at registration.
	ID string `json:"id"`

	// Role defines the permission tier of the account ("user", "admin", or "official").
	Role string `json:"role"`

	// Name is the display name at the time the token was issued, used for
	// labeling live sessions without a store round trip.
	Name string `json:"name"`

	// Avatar is the profile image reference at issue time, if any.
	Avatar string `json:"avatar,omitempty"`
}

// IsAdmin reports whether the token holder may access the admin panel.
func (p *Payload) IsAdmin() bool {
	return p.Role == RoleAdmin || p.Role == RoleOfficial
}

// IsOfficial reports whether the token holder has the highest permission tier.
func (p *Payload) IsOfficial() bool {
	return p.Role == RoleOfficial
}
