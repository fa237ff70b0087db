package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"talenthub/internal/auth"
	"talenthub/internal/logger"
)

const maxBodyBytes = 1 << 20

var errInvalidJSON = errors.New("invalid JSON format")

// Handler оборачивает Storage для доступа к данным
type Handler struct {
	Store  StorageInterface
	Tokens *auth.Tokens

	logger *logger.Logger
}

// NewHandler создает новый Handler
func NewHandler(store StorageInterface, tokens *auth.Tokens, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		Store:  store,
		Tokens: tokens,
		logger: logger,
	}
}

// RootHandler отвечает на проверку живости.
func (h *Handler) RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Hello World!"))
}

func writeJSON(w http.ResponseWriter, data any, statusCode int) error {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		return fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, err = w.Write(body)
	return err
}

// readBody читает тело запроса с ограничением размера.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(body), nil
}

// decodeJSON разбирает JSON-тело в v. Числа остаются json.Number,
// чтобы сохраниться без изменений.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidJSON, err)
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errInvalidJSON, err)
	}
	return nil
}
