package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/either"
	"github.com/Kaua3045/ecommerce-users/internal/core/port"
	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
	"github.com/Kaua3045/ecommerce-users/internal/repository"
	"github.com/Kaua3045/ecommerce-users/internal/usecase"
)

type accountUseCasesStub struct {
	createCmd    usecase.CreateAccountCommand
	createResult either.Either[*validation.Notification, usecase.CreateAccountOutput]
	createErr    error

	account *domain.Account
	getErr  error

	deleteErr error

	avatarCmd    usecase.UpdateAvatarCommand
	avatarResult either.Either[*validation.Notification, usecase.UpdateAvatarOutput]

	roleResult either.Either[*validation.Notification, usecase.UpdateAccountRoleOutput]
	roleErr    error
}

func (s *accountUseCasesStub) CreateAccount(_ context.Context, cmd usecase.CreateAccountCommand) (either.Either[*validation.Notification, usecase.CreateAccountOutput], error) {
	s.createCmd = cmd
	return s.createResult, s.createErr
}

func (s *accountUseCasesStub) GetAccountByID(context.Context, string) (*domain.Account, error) {
	return s.account, s.getErr
}

func (s *accountUseCasesStub) DeleteAccount(context.Context, string) error {
	return s.deleteErr
}

func (s *accountUseCasesStub) UpdateAccountRole(context.Context, usecase.UpdateAccountRoleCommand) (either.Either[*validation.Notification, usecase.UpdateAccountRoleOutput], error) {
	return s.roleResult, s.roleErr
}

func (s *accountUseCasesStub) UpdateAvatar(_ context.Context, cmd usecase.UpdateAvatarCommand) (either.Either[*validation.Notification, usecase.UpdateAvatarOutput], error) {
	s.avatarCmd = cmd
	return s.avatarResult, nil
}

type roleUseCasesStub struct {
	query     port.SearchQuery
	page      port.Pagination[*domain.Role]
	deleteErr error
	role      *domain.Role
	updateCmd usecase.UpdateRoleCommand
}

func (s *roleUseCasesStub) CreateRole(context.Context, usecase.CreateRoleCommand) (either.Either[*validation.Notification, usecase.RoleOutput], error) {
	return either.Left[*validation.Notification, usecase.RoleOutput](validation.NotificationOf(validation.NewError("Role already exists"))), nil
}

func (s *roleUseCasesStub) UpdateRole(_ context.Context, cmd usecase.UpdateRoleCommand) (either.Either[*validation.Notification, usecase.RoleOutput], error) {
	s.updateCmd = cmd
	return either.Right[*validation.Notification](usecase.RoleOutput{ID: domain.RoleID(cmd.ID)}), nil
}

func (s *roleUseCasesStub) DeleteRole(context.Context, string) error { return s.deleteErr }

func (s *roleUseCasesStub) GetRoleByID(context.Context, string) (*domain.Role, error) {
	return s.role, nil
}

func (s *roleUseCasesStub) GetDefaultRole(context.Context) (*domain.Role, error) {
	return s.role, nil
}

func (s *roleUseCasesStub) ListRoles(_ context.Context, query port.SearchQuery) (port.Pagination[*domain.Role], error) {
	s.query = query
	return s.page, nil
}

func (s *roleUseCasesStub) RemoveRolePermission(context.Context, string, string) error { return nil }

type mailUseCasesStub struct {
	resetCmd usecase.ResetPasswordCommand
}

func (s *mailUseCasesStub) RequestAccountConfirmation(_ context.Context, cmd usecase.RequestAccountConfirmationCommand) (either.Either[*validation.Notification, usecase.AccountMailOutput], error) {
	return either.Right[*validation.Notification](usecase.AccountMailOutput{ID: "mail-1", AccountID: domain.AccountID(cmd.AccountID), ExpiresAt: time.Now().Add(3 * time.Hour)}), nil
}

func (s *mailUseCasesStub) ConfirmAccountMail(context.Context, usecase.ConfirmAccountMailCommand) (either.Either[*validation.Notification, usecase.ConsumeAccountMailOutput], error) {
	return either.Left[*validation.Notification, usecase.ConsumeAccountMailOutput](validation.NotificationOf(validation.NewError("Token expired"))), nil
}

func (s *mailUseCasesStub) RequestPasswordReset(context.Context, usecase.RequestPasswordResetCommand) (either.Either[*validation.Notification, usecase.AccountMailOutput], error) {
	return either.Right[*validation.Notification](usecase.AccountMailOutput{}), domain.NewNotFoundError(domain.EntityAccount, "nobody@teste.com")
}

func (s *mailUseCasesStub) ResetPassword(_ context.Context, cmd usecase.ResetPasswordCommand) (either.Either[*validation.Notification, usecase.ConsumeAccountMailOutput], error) {
	s.resetCmd = cmd
	return either.Right[*validation.Notification](usecase.ConsumeAccountMailOutput{AccountID: "acc-1"}), nil
}

type codeUseCasesStub struct{}

func (codeUseCasesStub) CreateAccountCode(context.Context, usecase.CreateAccountCodeCommand) (either.Either[*validation.Notification, usecase.AccountCodeOutput], error) {
	return either.Right[*validation.Notification](usecase.AccountCodeOutput{ID: "code-id", Code: "code", AccountID: "acc-1"}), nil
}

func (codeUseCasesStub) GetAccountCode(_ context.Context, code string) (*domain.AccountCode, error) {
	return nil, domain.NewNotFoundError(domain.EntityAccountCode, code)
}

func (codeUseCasesStub) ExchangeAccountCode(context.Context, usecase.ExchangeAccountCodeCommand) (either.Either[*validation.Notification, usecase.ExchangeAccountCodeOutput], error) {
	return either.Right[*validation.Notification](usecase.ExchangeAccountCodeOutput{AccountID: "acc-1", AccessToken: "jwt"}), nil
}

func newTestRouter(register func(api *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r.Group("/api/v1"))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAccountHandler_CreateSuccess(t *testing.T) {
	stub := &accountUseCasesStub{
		createResult: either.Right[*validation.Notification](usecase.CreateAccountOutput{ID: "acc-1"}),
	}
	r := newTestRouter(func(api *gin.RouterGroup) { NewAccountHandler(stub).RegisterRoutes(api.Group("/accounts")) })

	rr := doJSON(t, r, http.MethodPost, "/api/v1/accounts", CreateAccountRequest{
		FirstName: "Fulano", LastName: "Silveira", Email: "teste@teste.com", Password: "1234567Ab",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("Location") != "/api/v1/accounts/acc-1" {
		t.Fatalf("unexpected location %q", rr.Header().Get("Location"))
	}
	if stub.createCmd.Email != "teste@teste.com" || stub.createCmd.Password != "1234567Ab" {
		t.Fatalf("command not forwarded: %+v", stub.createCmd)
	}
}

func TestAccountHandler_CreateValidationErrors(t *testing.T) {
	notification := validation.NotificationOf(
		validation.BlankError("firstName"),
		validation.BlankError("lastName"),
	)
	stub := &accountUseCasesStub{
		createResult: either.Left[*validation.Notification, usecase.CreateAccountOutput](notification),
	}
	r := newTestRouter(func(api *gin.RouterGroup) { NewAccountHandler(stub).RegisterRoutes(api.Group("/accounts")) })

	rr := doJSON(t, r, http.MethodPost, "/api/v1/accounts", CreateAccountRequest{})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	var body ValidationErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Errors) != 2 || body.Errors[0].Message != "'firstName' should not be null or blank" || body.Errors[1].Message != "'lastName' should not be null or blank" {
		t.Fatalf("expected ordered validation errors, got %+v", body.Errors)
	}
}

func TestAccountHandler_CreateMalformedBody(t *testing.T) {
	r := newTestRouter(func(api *gin.RouterGroup) {
		NewAccountHandler(&accountUseCasesStub{}).RegisterRoutes(api.Group("/accounts"))
	})

	if rr := doJSON(t, r, http.MethodPost, "/api/v1/accounts", "{"); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAccountHandler_CreateInfrastructureError(t *testing.T) {
	stub := &accountUseCasesStub{createErr: errors.New("db down")}
	r := newTestRouter(func(api *gin.RouterGroup) { NewAccountHandler(stub).RegisterRoutes(api.Group("/accounts")) })

	rr := doJSON(t, r, http.MethodPost, "/api/v1/accounts", CreateAccountRequest{})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "db down") {
		t.Fatal("internal error details must not leak")
	}
}

func TestAccountHandler_GetHidesPassword(t *testing.T) {
	account := domain.NewAccount("Fulano", "Silveira", "teste@teste.com", "argon2id$secret", time.Now())
	r := newTestRouter(func(api *gin.RouterGroup) {
		NewAccountHandler(&accountUseCasesStub{account: account}).RegisterRoutes(api.Group("/accounts"))
	})

	rr := doJSON(t, r, http.MethodGet, "/api/v1/accounts/"+account.ID.String(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "secret") || strings.Contains(rr.Body.String(), "password") {
		t.Fatalf("password leaked: %s", rr.Body.String())
	}
}

func TestAccountHandler_GetNotFound(t *testing.T) {
	stub := &accountUseCasesStub{getErr: domain.NewNotFoundError(domain.EntityAccount, "missing")}
	r := newTestRouter(func(api *gin.RouterGroup) { NewAccountHandler(stub).RegisterRoutes(api.Group("/accounts")) })

	rr := doJSON(t, r, http.MethodGet, "/api/v1/accounts/missing", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	var body ErrorResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	if body.Message != "Account with id missing was not found" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestAccountHandler_UpdateAvatar(t *testing.T) {
	stub := &accountUseCasesStub{
		avatarResult: either.Right[*validation.Notification](usecase.UpdateAvatarOutput{ID: "acc-1", AvatarURL: "https://cdn/avatars/acc-1"}),
	}
	r := newTestRouter(func(api *gin.RouterGroup) { NewAccountHandler(stub).RegisterRoutes(api.Group("/accounts")) })

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="avatar"; filename="me.png"`},
		"Content-Type":        {"image/png"},
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write([]byte("png-bytes"))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/accounts/acc-1/avatar", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if stub.avatarCmd.AccountID != "acc-1" || stub.avatarCmd.Resource.ContentType != "image/png" || string(stub.avatarCmd.Resource.Content) != "png-bytes" {
		t.Fatalf("unexpected avatar command %+v", stub.avatarCmd)
	}
}

func TestAccountHandler_UpdateAvatarMissingFile(t *testing.T) {
	r := newTestRouter(func(api *gin.RouterGroup) {
		NewAccountHandler(&accountUseCasesStub{}).RegisterRoutes(api.Group("/accounts"))
	})

	rr := doJSON(t, r, http.MethodPatch, "/api/v1/accounts/acc-1/avatar", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAccountHandler_DeleteNoContent(t *testing.T) {
	r := newTestRouter(func(api *gin.RouterGroup) {
		NewAccountHandler(&accountUseCasesStub{}).RegisterRoutes(api.Group("/accounts"))
	})

	if rr := doJSON(t, r, http.MethodDelete, "/api/v1/accounts/acc-1", nil); rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}

func TestAccountMailHandler_Flows(t *testing.T) {
	stub := &mailUseCasesStub{}
	limited := 0
	limiter := func(c *gin.Context) {
		limited++
		c.Next()
	}
	r := newTestRouter(func(api *gin.RouterGroup) {
		NewAccountMailHandler(stub).RegisterRoutes(api.Group("/mails"), limiter)
	})

	if rr := doJSON(t, r, http.MethodPost, "/api/v1/mails/confirmation", RequestConfirmationRequest{AccountID: "acc-1"}); rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if rr := doJSON(t, r, http.MethodPost, "/api/v1/mails/confirmation/confirm", ConfirmAccountRequest{Token: "t"}); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for expired token, got %d", rr.Code)
	}
	if rr := doJSON(t, r, http.MethodPost, "/api/v1/mails/password-reset", RequestPasswordResetRequest{Email: "nobody@teste.com"}); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown email, got %d", rr.Code)
	}
	rr := doJSON(t, r, http.MethodPost, "/api/v1/mails/password-reset/confirm", ResetPasswordRequest{Token: "t", Password: "1234567Ab"})
	if rr.Code != http.StatusOK || stub.resetCmd.Password != "1234567Ab" {
		t.Fatalf("expected 200 with forwarded password, got %d %+v", rr.Code, stub.resetCmd)
	}

	if limited != 2 {
		t.Fatalf("expected only the two request endpoints to be limited, got %d", limited)
	}
}

func TestAccountCodeHandler(t *testing.T) {
	r := newTestRouter(func(api *gin.RouterGroup) {
		NewAccountCodeHandler(codeUseCasesStub{}).RegisterRoutes(api.Group("/codes"))
	})

	rr := doJSON(t, r, http.MethodPost, "/api/v1/codes/exchange", ExchangeAccountCodeRequest{Code: "c", CodeVerifier: "v"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var token AccessTokenResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &token)
	if token.TokenType != "Bearer" || token.AccessToken != "jwt" {
		t.Fatalf("unexpected token response %+v", token)
	}

	if rr := doJSON(t, r, http.MethodGet, "/api/v1/codes/unknown", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestRoleHandler_ListForwardsQuery(t *testing.T) {
	role := domain.NewRole("Admin", nil, "EMPLOYEES", false, time.Now())
	stub := &roleUseCasesStub{page: port.Pagination[*domain.Role]{CurrentPage: 1, PerPage: 5, Total: 6, Items: []*domain.Role{role}}}
	r := newTestRouter(func(api *gin.RouterGroup) { NewRoleHandler(stub).RegisterRoutes(api.Group("/roles")) })

	rr := doJSON(t, r, http.MethodGet, "/api/v1/roles?page=1&perPage=5&search=adm&sort=created_at&dir=DESC", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	want := port.SearchQuery{Page: 1, PerPage: 5, Terms: "adm", Sort: "created_at", Direction: "desc"}
	if stub.query != want {
		t.Fatalf("expected %+v, got %+v", want, stub.query)
	}

	var body PageResponse[RoleResponse]
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 6 || len(body.Items) != 1 || body.Items[0].Name != "Admin" || body.Items[0].Permissions == nil {
		t.Fatalf("unexpected page %+v", body)
	}
}

func TestRoleHandler_CreateDuplicate(t *testing.T) {
	r := newTestRouter(func(api *gin.RouterGroup) { NewRoleHandler(&roleUseCasesStub{}).RegisterRoutes(api.Group("/roles")) })

	rr := doJSON(t, r, http.MethodPost, "/api/v1/roles", CreateRoleRequest{Name: "Admin", RoleType: "COMMON"})
	if rr.Code != http.StatusUnprocessableEntity || !strings.Contains(rr.Body.String(), "Role already exists") {
		t.Fatalf("expected 422 with duplicate message, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestRoleHandler_UpdateKeepsOmittedPermissions(t *testing.T) {
	stub := &roleUseCasesStub{}
	r := newTestRouter(func(api *gin.RouterGroup) { NewRoleHandler(stub).RegisterRoutes(api.Group("/roles")) })

	rr := doJSON(t, r, http.MethodPatch, "/api/v1/roles/role-1", `{"name":"Admins","is_default":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if stub.updateCmd.Permissions != nil || stub.updateCmd.IsDefault == nil || !*stub.updateCmd.IsDefault {
		t.Fatalf("unexpected update command %+v", stub.updateCmd)
	}
}

func TestRoleHandler_DeleteInUse(t *testing.T) {
	stub := &roleUseCasesStub{deleteErr: repository.ErrConflict}
	r := newTestRouter(func(api *gin.RouterGroup) { NewRoleHandler(stub).RegisterRoutes(api.Group("/roles")) })

	rr := doJSON(t, r, http.MethodDelete, "/api/v1/roles/role-1", nil)
	if rr.Code != http.StatusConflict || !strings.Contains(rr.Body.String(), "still assigned") {
		t.Fatalf("expected 409, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	health := NewHealthHandler(
		WithReadinessCheck("database", func(context.Context) error { return nil }),
		WithReadinessCheck("redis", func(context.Context) error { return errors.New("down") }),
	)
	r := gin.New()
	r.GET("/readyz", health.Readiness)
	r.GET("/healthz", health.Status)

	rr := doJSON(t, r, http.MethodGet, "/readyz", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	var body ReadyResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	if body.Checks["database"] != "ok" || body.Checks["redis"] != "down" {
		t.Fatalf("unexpected checks %+v", body.Checks)
	}

	if rr := doJSON(t, r, http.MethodGet, "/healthz", nil); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
