package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Adithecoder/SocialM-sub001/internal/auth"
	"github.com/Adithecoder/SocialM-sub001/internal/store"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

const invalidCredentialsMessage = "invalid username or password"

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// serverError logs the failure and returns the generic 500 shape. The error
// field carries diagnostic detail for operators, never a stack trace.
func serverError(w http.ResponseWriter, err error) {
	log.Printf("server error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Message: "server error",
		Error:   err.Error(),
	})
}

func (api *Api) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), api.Config.Database.QueryTimeout)
}

// LoginHandler verifies credentials, issues a session token and records the
// login. Unknown username and wrong password produce identical responses.
func (api *Api) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return
	}
	if creds.Username == "" || creds.Password == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "username and password are required"})
		return
	}

	ctx, cancel := api.requestContext(r)
	defer cancel()

	user, token, err := api.Auth.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, messageResponse{Message: invalidCredentialsMessage})
			return
		}
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message:  "login successful",
		Token:    token,
		Username: user.Username,
	})
}

// RegisterHandler creates a new user account.
func (api *Api) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return
	}
	if creds.Username == "" || creds.Password == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "username and password are required"})
		return
	}

	ctx, cancel := api.requestContext(r)
	defer cancel()

	user, err := api.Auth.Register(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			writeJSON(w, http.StatusConflict, messageResponse{Message: "username already taken"})
			return
		}
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// MeHandler echoes the authenticated identity, including last login.
func (api *Api) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "unauthorized"})
		return
	}

	ctx, cancel := api.requestContext(r)
	defer cancel()

	user, err := api.Auth.UserByID(ctx, claims.UserID)
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
