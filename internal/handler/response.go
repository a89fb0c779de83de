package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/forgo/moveyes/internal/model"
)

// maxBodyBytes caps request bodies; every payload this API accepts is small.
const maxBodyBytes = 1 << 20

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteRawJSON writes an already-encoded JSON document unchanged.
func WriteRawJSON(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// DecodeJSON decodes a JSON request body into the given struct. The body
// is read in full first so an oversized payload surfaces as a 413 rather
// than a truncated document. Malformed bodies come back as a 400 AppError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil {
		return model.NewBadRequestError("Request body is required")
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.NewAppError(http.StatusRequestEntityTooLarge, "Request body is too large")
		}
		return &model.AppError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return model.NewBadRequestError("Request body is required")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &model.AppError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err}
	}
	return nil
}

// queryPage reads ?page=, falling back to 1 when missing or unparsable.
func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("page")))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
