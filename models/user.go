package models

import "time"

// ============================================================================
// USER MODEL
// ============================================================================

// Plan tiers
const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Avatar        string     `json:"avatar,omitempty"`
	Plan          string     `json:"plan"`
	PremiumUntil  *time.Time `json:"premium_until,omitempty"`
	IsAdmin       bool       `json:"is_admin"`
	PasswordHash  string     `json:"-"` // Never expose in JSON
	TOTPSecret    string     `json:"-"` // Never expose in JSON
	TOTPEnabled   bool       `json:"totp_enabled"`
	EmailVerified bool       `json:"email_verified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HasPremium reports whether the user is currently on a paying tier,
// either by plan or by a still-running premium window (bonus credits).
func (u *User) HasPremium(now time.Time) bool {
	if u.Plan == PlanPremium {
		return true
	}
	return u.PremiumUntil != nil && u.PremiumUntil.After(now)
}

// ============================================================================
// AUTHENTICATION REQUESTS
// ============================================================================

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ============================================================================
// PASSWORD & 2FA
// ============================================================================

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type TOTPSetupResponse struct {
	Secret string `json:"secret"`
	QRCode string `json:"qr_code"`
}

type VerifyTOTPRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}
