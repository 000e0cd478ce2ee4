package dto

// AuthRequest describes email/password payload.
type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileRequest replaces account details.
type ProfileRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProfileResponse describes the authenticated account.
type ProfileResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsSuperuser bool   `json:"is_superuser"`
}

// PasswordChangeRequest replaces the account password.
type PasswordChangeRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

// ErrorResponse is returned with every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports service availability.
type HealthResponse struct {
	Status string `json:"status"`
}
