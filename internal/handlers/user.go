package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sbilibin2017/expense-tracker/internal/logger"
	"github.com/sbilibin2017/expense-tracker/internal/models"
	"github.com/sbilibin2017/expense-tracker/internal/repositories"
	"github.com/sbilibin2017/expense-tracker/internal/services"
)

//go:generate mockgen -source=user.go -destination=mock_user.go -package=handlers

// UserManager defines the operations the user resource needs.
type UserManager interface {
	Register(ctx context.Context, username, password string, email *string) (models.PublicUser, error)
	Login(ctx context.Context, username, password string) (models.PublicUser, error)
	ListUsers(ctx context.Context) ([]models.PublicUser, error)
}

// CredentialsRequest represents the JSON body for registration and login
// swagger:model CredentialsRequest
type CredentialsRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username string `json:"username"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password"`

	// Email, registration only
	// required: false
	// default: john@example.com
	Email *string `json:"email,omitempty"`
}

var credentialFields = []string{"username", "password"}

// NewUserHandler returns an HTTP handler for the user resource.
// @Summary User resource
// @Description POST with action=register creates an account, POST with action=login checks credentials, GET lists all users.
// @Tags users
// @Accept json
// @Produce json
// @Param action query string false "register or login (POST)"
// @Param credentials body handlers.CredentialsRequest false "Credentials (POST)"
// @Success 200 {object} models.Envelope "Operation succeeded"
// @Failure 400 {object} models.Envelope "Missing fields or username already exists"
// @Failure 401 {object} models.Envelope "Invalid username or password"
// @Failure 405 {object} models.Envelope "Method or action not allowed"
// @Failure 500 {object} models.Envelope "Internal server error"
// @Router /tables/user [get]
// @Router /tables/user [post]
func NewUserHandler(svc UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			listUsers(w, r, svc)
		case r.Method == http.MethodPost && r.URL.Query().Get("action") == "register":
			register(w, r, svc)
		case r.Method == http.MethodPost && r.URL.Query().Get("action") == "login":
			login(w, r, svc)
		default:
			MethodNotAllowed(w, r)
		}
	}
}

func register(w http.ResponseWriter, r *http.Request, svc UserManager) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	if tooLong(req.Username, models.MaxUsernameLen) {
		writeError(w, http.StatusBadRequest, invalidField("username").Error())
		return
	}
	if req.Email != nil && tooLong(*req.Email, models.MaxEmailLen) {
		writeError(w, http.StatusBadRequest, invalidField("email").Error())
		return
	}

	user, err := svc.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			writeError(w, http.StatusBadRequest, services.ErrUserAlreadyExists.Error())
			return
		}
		if errors.Is(err, repositories.ErrInvalidValue) {
			writeError(w, http.StatusBadRequest, msgInvalidValue)
			return
		}
		logger.Log.Errorw("failed to register user", "username", req.Username, "err", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	writeJSON(w, http.StatusOK, models.Envelope{Success: true, Message: "Registration successful", Data: user})
}

func login(w http.ResponseWriter, r *http.Request, svc UserManager) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, services.ErrInvalidCredentials.Error())
			return
		}
		logger.Log.Errorw("failed to log in", "username", req.Username, "err", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	writeJSON(w, http.StatusOK, models.Envelope{Success: true, Message: "Login successful", Data: user})
}

func listUsers(w http.ResponseWriter, r *http.Request, svc UserManager) {
	users, err := svc.ListUsers(r.Context())
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if users == nil {
		users = []models.PublicUser{}
	}
	writeJSON(w, http.StatusOK, models.Envelope{Success: true, Data: users})
}

// decodeCredentials writes the 400 response itself and reports false when
// the body is unusable.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (CredentialsRequest, bool) {
	var req CredentialsRequest

	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}

	if res := repositories.ValidateRequired(body, credentialFields); !res.Valid {
		writeError(w, http.StatusBadRequest, "missing required fields: "+strings.Join(res.MissingFields, ", "))
		return req, false
	}

	var ok bool
	if req.Username, ok = body["username"].(string); !ok {
		writeError(w, http.StatusBadRequest, invalidField("username").Error())
		return req, false
	}
	if req.Password, ok = body["password"].(string); !ok {
		writeError(w, http.StatusBadRequest, invalidField("password").Error())
		return req, false
	}

	switch email := body["email"].(type) {
	case nil:
	case string:
		if email = strings.TrimSpace(email); email != "" {
			req.Email = &email
		}
	default:
		writeError(w, http.StatusBadRequest, invalidField("email").Error())
		return req, false
	}

	return req, true
}
