package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/port"
	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
)

const requestIDKey = "request_id"

// ErrorResponse is the body of every non-validation failure.
type ErrorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse stamps the request id on message.
func NewErrorResponse(c *gin.Context, message string) ErrorResponse {
	return ErrorResponse{Message: message, RequestID: c.GetString(requestIDKey)}
}

// ValidationErrorResponse lists every accumulated validation error.
type ValidationErrorResponse struct {
	Message   string             `json:"message"`
	Errors    []validation.Error `json:"errors"`
	RequestID string             `json:"request_id,omitempty"`
}

type IDResponse struct {
	ID string `json:"id"`
}

type CreateAccountRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type UpdateAccountRoleRequest struct {
	RoleID string `json:"role_id"`
}

// AccountResponse never carries the password hash.
type AccountResponse struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	MailStatus string    `json:"mail_status"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	RoleID     string    `json:"role_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func newAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:         a.ID.String(),
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Email:      a.Email,
		MailStatus: string(a.MailStatus),
		AvatarURL:  a.AvatarURL,
		RoleID:     a.RoleID.String(),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

type AvatarResponse struct {
	ID        string `json:"id"`
	AvatarURL string `json:"avatar_url"`
}

type RequestConfirmationRequest struct {
	AccountID string `json:"account_id"`
}

type RequestPasswordResetRequest struct {
	Email string `json:"email"`
}

type ConfirmAccountRequest struct {
	Token string `json:"token"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// AccountMailResponse describes an issued token; the token itself only travels by mail.
type AccountMailResponse struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AccountIDResponse struct {
	AccountID string `json:"account_id"`
}

type CreateAccountCodeRequest struct {
	AccountID     string `json:"account_id"`
	CodeChallenge string `json:"code_challenge"`
}

type AccountCodeResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	AccountID string `json:"account_id"`
}

type ExchangeAccountCodeRequest struct {
	Code         string `json:"code"`
	CodeVerifier string `json:"code_verifier"`
}

type AccessTokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	AccountID   string    `json:"account_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type CreateRoleRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	RoleType    string   `json:"role_type"`
	IsDefault   bool     `json:"is_default"`
	Permissions []string `json:"permissions"`
}

// UpdateRoleRequest fields left out of the body keep their current value.
type UpdateRoleRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	RoleType    string   `json:"role_type"`
	IsDefault   *bool    `json:"is_default"`
	Permissions []string `json:"permissions"`
}

type RoleResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description *string                 `json:"description,omitempty"`
	RoleType    string                  `json:"role_type"`
	IsDefault   bool                    `json:"is_default"`
	Permissions []domain.RolePermission `json:"permissions"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

func newRoleResponse(r *domain.Role) RoleResponse {
	perms := r.Permissions
	if perms == nil {
		perms = []domain.RolePermission{}
	}
	return RoleResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		RoleType:    string(r.RoleType),
		IsDefault:   r.IsDefault,
		Permissions: perms,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type CreatePermissionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type UpdatePermissionRequest struct {
	Description *string `json:"description"`
}

type PermissionResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func newPermissionResponse(p *domain.Permission) PermissionResponse {
	return PermissionResponse{ID: p.ID.String(), Name: p.Name, Description: p.Description}
}

// PageResponse is one page of a listing.
type PageResponse[T any] struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	Items       []T   `json:"items"`
}

func newPageResponse[T, U any](p port.Pagination[T], fn func(T) U) PageResponse[U] {
	mapped := port.MapPagination(p, fn)
	return PageResponse[U]{CurrentPage: mapped.CurrentPage, PerPage: mapped.PerPage, Total: mapped.Total, Items: mapped.Items}
}

// HealthResponse describes the liveness payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse lists the outcome of every readiness check.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
