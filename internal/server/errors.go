package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/rtplus/rtplus/internal/auth"
	"github.com/rtplus/rtplus/internal/monitoring"
	"github.com/rtplus/rtplus/internal/personnel"
	"github.com/rtplus/rtplus/internal/store"
)

// Error is an API failure with a stable machine-readable code.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func badRequest(format string, args ...any) *Error {
	return &Error{Status: fiber.StatusBadRequest, Code: "bad_request", Message: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...any) *Error {
	return &Error{Status: fiber.StatusForbidden, Code: "forbidden", Message: fmt.Sprintf(format, args...)}
}

// ErrorResponse is the body of every failed API request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// toError maps any handler error onto a status, code and client message.
func toError(err error) *Error {
	var (
		apiErr   *Error
		verrs    validator.ValidationErrors
		parseErr *personnel.ParseError
		fiberErr *fiber.Error
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &verrs):
		return &Error{Status: fiber.StatusBadRequest, Code: "invalid_request", Message: describeValidation(verrs)}
	case errors.As(err, &parseErr):
		return &Error{Status: fiber.StatusBadRequest, Code: "invalid_import", Message: parseErr.Error()}
	case errors.Is(err, auth.ErrNoSession):
		return &Error{Status: fiber.StatusUnauthorized, Code: "unauthorized", Message: "sign in required"}
	case errors.Is(err, store.ErrNotFound):
		return &Error{Status: fiber.StatusNotFound, Code: "not_found", Message: firstLine(err)}
	case errors.Is(err, store.ErrConflict):
		return &Error{Status: fiber.StatusConflict, Code: "conflict", Message: firstLine(err)}
	case errors.Is(err, store.ErrInvalidReference):
		return &Error{Status: fiber.StatusUnprocessableEntity, Code: "invalid_reference", Message: firstLine(err)}
	case errors.As(err, &fiberErr):
		code := strings.ToLower(strings.ReplaceAll(utils.StatusMessage(fiberErr.Code), " ", "_"))
		return &Error{Status: fiberErr.Code, Code: code, Message: fiberErr.Message}
	}
	return &Error{Status: fiber.StatusInternalServerError, Code: "internal", Message: "internal server error"}
}

// handleError is the fiber error handler. API requests get an
// ErrorResponse; page requests get the error page.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	e := toError(err)
	if e.Status >= fiber.StatusInternalServerError {
		monitoring.Logf("server: %s %s: %v", c.Method(), c.Path(), err)
	}

	if strings.HasPrefix(c.Path(), "/app") {
		return s.renderError(c, e)
	}
	return c.Status(e.Status).JSON(ErrorResponse{Error: ErrorBody{Code: e.Code, Message: e.Message}})
}

// firstLine drops the driver detail that errors.Join appends.
func firstLine(err error) string {
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return msg
}

func describeValidation(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "datetime":
			msgs = append(msgs, field+" must be a date (YYYY-MM-DD)")
		case "uuid":
			msgs = append(msgs, field+" must be an id")
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
