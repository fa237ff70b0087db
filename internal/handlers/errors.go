package handlers

import (
	"errors"
	"net/http"

	"talenthub/db"
	"talenthub/internal/auth"
	"talenthub/internal/logger"
)

const (
	genericErrorMessage      = "An error occurred while processing your request."
	unauthorizedErrorMessage = "You are not Authorized"
)

type errorResponse struct {
	status  int
	message string
}

// errorResponses: единая таблица ошибок API. Всё, чего здесь нет,
// считается сбоем хранилища и даёт 500.
var errorResponses = map[error]errorResponse{
	errInvalidJSON:    {http.StatusBadRequest, "Invalid JSON format"},
	db.ErrInvalidID:   {http.StatusBadRequest, "Invalid id"},
	db.ErrNoBidFilter: {http.StatusBadRequest, "userEmail or clientEmail query parameter is required"},
	db.ErrJobNotFound: {http.StatusNotFound, "Job not found"},
	db.ErrDuplicateID: {http.StatusConflict, "A record with this id already exists"},

	auth.ErrTokenInvalid: {http.StatusUnauthorized, unauthorizedErrorMessage},
	auth.ErrTokenExpired: {http.StatusUnauthorized, unauthorizedErrorMessage},
}

func responseFromError(err error) errorResponse {
	for target, resp := range errorResponses {
		if errors.Is(err, target) {
			return resp
		}
	}
	return errorResponse{http.StatusInternalServerError, genericErrorMessage}
}

func statusFromError(err error) int {
	return responseFromError(err).status
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	resp := responseFromError(err)

	if resp.status >= http.StatusInternalServerError {
		log.Err(err).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", resp.status).Msg("request rejected")
	}

	if resp.status == http.StatusUnauthorized {
		writeUnauthorized(w)
		return
	}
	http.Error(w, resp.message, resp.status)
}

func writeUnauthorized(w http.ResponseWriter) {
	_ = writeJSON(w, map[string]string{"message": unauthorizedErrorMessage}, http.StatusUnauthorized)
}
