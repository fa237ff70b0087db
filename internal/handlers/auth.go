package handlers

import (
	"encoding/json"
	"net/http"

	"talenthub/internal/auth"
	"talenthub/internal/logger"
)

// AccessTokenHandler: POST /api/auth/access-token. Любой присланный JSON
// становится личностью в токене.
func (h *Handler) AccessTokenHandler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var claim json.RawMessage
	if err := decodeJSON(w, r, &claim); err != nil {
		writeError(w, r, err)
		return
	}

	credential, err := h.Tokens.Issue(auth.Identity(claim))
	if err != nil {
		log.Err(err).Msg("creation of token failed")
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		return
	}

	log.Debug().Str("email", auth.Identity(claim).Email()).Time("expires_at", credential.ExpiresAt).Msg("credential issued")

	http.SetCookie(w, auth.Cookie(credential))
	_ = writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

// LogoutHandler: POST /api/auth/logout, просрочивает куку.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearCookie())
	_ = writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}
