package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fileintake/internal/mw"
	"fileintake/internal/service"
)

const tokenTTL = 24 * time.Hour

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler checks the admin credentials and on success issues an
// HS256 token, returned both as the session cookie and in the response
// body for API clients.
func LoginHandler(authSvc *service.AuthService, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req, err := readCredentials(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid request"})
			return
		}

		if err := authSvc.Authenticate(req.Username, req.Password); err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				writeJSON(w, http.StatusUnauthorized, response{Success: false, Message: "Invalid username or password"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, response{Success: false, Message: "Server error"})
			return
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"username": req.Username,
			"exp":      jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		})
		tokenString, err := token.SignedString([]byte(secret))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, response{Success: false, Message: "Token generation failed"})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     mw.AuthCookie,
			Value:    tokenString,
			Path:     "/",
			MaxAge:   int(tokenTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.Header().Set("Authorization", "Bearer "+tokenString)
		writeJSON(w, http.StatusOK, response{Success: true, Message: "Login successful"})
	}
}

func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     mw.AuthCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, response{Success: true, Message: "Logged out"})
	}
}

// SessionDebugHandler reports who the current token belongs to.
func SessionDebugHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, _ := r.Context().Value(mw.UserCtxKey).(string)
		writeJSON(w, http.StatusOK, map[string]any{
			"logged_in": username != "",
			"username":  username,
		})
	}
}

// readCredentials accepts either a JSON body or a classic login form.
func readCredentials(r *http.Request) (loginRequest, error) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, err
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Username = r.PostFormValue("username")
	req.Password = r.PostFormValue("password")
	return req, nil
}
