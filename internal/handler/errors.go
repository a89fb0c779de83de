package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/forgo/moveyes/internal/database"
	"github.com/forgo/moveyes/internal/middleware"
	"github.com/forgo/moveyes/internal/model"
	"github.com/forgo/moveyes/internal/service"
	"github.com/forgo/moveyes/internal/tmdb"
	"github.com/forgo/moveyes/pkg/jwt"
)

// MsgUnexpected is the only detail a client sees for a non-operational failure.
const MsgUnexpected = "Something went very wrong!"

// TranslatorConfig configures an ErrorTranslator.
type TranslatorConfig struct {
	// Verbose adds the error chain and a stack trace to every response.
	Verbose bool
	Logger  *slog.Logger
}

// ErrorTranslator renders every failure the API produces. Anticipated
// failures keep their status and message; anything else is logged in full
// and reported as a generic 500.
type ErrorTranslator struct {
	verbose bool
	logger  *slog.Logger
}

// NewErrorTranslator creates a new error translator
func NewErrorTranslator(cfg TranslatorConfig) *ErrorTranslator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorTranslator{verbose: cfg.Verbose, logger: logger}
}

// Translate maps err to a status code and response body.
func (t *ErrorTranslator) Translate(err error) (int, model.ErrorResponse) {
	appErr := operational(err)
	if appErr == nil {
		appErr = &model.AppError{Status: http.StatusInternalServerError, Message: MsgUnexpected}
	}

	resp := model.ErrorResponse{
		Status:  model.StatusLabel(appErr.Status),
		Message: appErr.Message,
	}
	if t.verbose {
		resp.Error = err.Error()
		resp.Stack = string(stackOf(err))
	}
	return appErr.Status, resp
}

// stackOf prefers the stack recorded where err was raised. Without one it
// falls back to the current request stack, which ends in the handler that
// gave up on the request.
func stackOf(err error) []byte {
	if stack, ok := model.StackOf(err); ok {
		return stack
	}
	return debug.Stack()
}

// WriteError implements middleware.ErrorWriter.
func (t *ErrorTranslator) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := t.Translate(err)

	if status >= http.StatusInternalServerError {
		t.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()),
		)
	}

	var appErr *model.AppError
	if errors.As(err, &appErr) && appErr.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(appErr.RetryAfter))
	}

	WriteJSON(w, status, resp)
}

// operational returns the client-facing form of err, or nil when err is
// not an anticipated failure.
func operational(err error) *model.AppError {
	var (
		appErr        *model.AppError
		validationErr *model.ValidationError
		invalidIDErr  *model.InvalidIDError
		upstreamErr   *tmdb.UpstreamError
		dbErr         *database.Error
	)

	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &validationErr):
		return model.NewBadRequestError(validationErr.Error())
	case errors.As(err, &invalidIDErr):
		return model.NewBadRequestError(invalidIDErr.Error())

	// ===== Authentication → 401 =====
	case errors.Is(err, jwt.ErrTokenExpired):
		return model.NewUnauthorizedError(middleware.MsgTokenExpired)
	case errors.Is(err, jwt.ErrInvalidToken):
		return model.NewUnauthorizedError(middleware.MsgTokenInvalid)
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError("Invalid credentials")

	// ===== Not Found → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("User")
	case errors.Is(err, service.ErrProfileNotFound):
		return model.NewNotFoundError("Profile")
	case errors.Is(err, service.ErrMovieNotFound), errors.Is(err, tmdb.ErrNotFound):
		return model.NewNotFoundError("Movie")
	case errors.Is(err, service.ErrFavoriteNotFound):
		return model.NewNotFoundError("Favorite")

	// ===== Conflict → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return model.NewConflictError("User already exists")

	// ===== Upstream catalog =====
	case errors.Is(err, tmdb.ErrUnavailable):
		return model.NewServiceUnavailableError("Movie service is temporarily unavailable. Please try again later.")
	case errors.As(err, &upstreamErr), errors.Is(err, tmdb.ErrRequestFailed):
		return model.NewBadGatewayError("Movie service request failed")

	case errors.Is(err, context.DeadlineExceeded):
		return model.NewServiceUnavailableError("The request timed out. Please try again.")

	case errors.As(err, &dbErr):
		return fromDatabase(dbErr)
	}
	return nil
}

func fromDatabase(err *database.Error) *model.AppError {
	switch err.Kind {
	case database.KindNotFound:
		return model.NewNotFoundError("Resource")
	case database.KindDuplicate:
		return model.NewConflictError("Duplicate field value. Please use another value!")
	case database.KindInvalid:
		msg := "Invalid input"
		if err.Detail != "" {
			msg += ": " + err.Detail
		}
		return model.NewBadRequestError(msg)
	case database.KindTransient:
		return model.NewServiceUnavailableError("The database is temporarily unavailable. Please try again later.")
	}
	return nil
}
