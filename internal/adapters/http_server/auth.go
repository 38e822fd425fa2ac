package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"lion_estate/internal/adapters/observability"
	"lion_estate/internal/app"
	"lion_estate/internal/auth"
	"lion_estate/internal/domain"
)

func (h *Handlers) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
		c.Expires = time.Now().Add(ttl)
	} else {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	}
	return c
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in app.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	admin, token, err := h.Auth.Login(r.Context(), in)
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Email and password are required", Fields: ve.Fields})
		return
	case errors.Is(err, domain.ErrInvalidCredentials):
		observability.ObserveAuth("login_failed")
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case err != nil:
		writeServiceError(w, r, err, "Admin not found")
		return
	}

	observability.ObserveAuth("login_ok")
	log.Info().Str("admin_id", admin.ID).Msg("admin logged in")
	http.SetCookie(w, h.sessionCookie(token, auth.TokenTTL))
	writeJSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Admin   adminDTO `json:"admin"`
	}{true, toAdminDTO(admin)})
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	admin, err := h.Auth.Me(r.Context(), claims)
	if err != nil {
		writeServiceError(w, r, err, "Admin not found")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Admin adminDTO `json:"admin"`
	}{toAdminDTO(admin)})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	observability.ObserveAuth("logout")
	http.SetCookie(w, h.sessionCookie("", 0))
	writeJSON(w, http.StatusOK, successBody{Success: true})
}
