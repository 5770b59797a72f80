package httperr

import (
	"net/http"

	"book-locker/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	abort(c, status, err, msg, "", detail)
}

// AbortWithDomainError maps an engine error kind to its HTTP status.
func AbortWithDomainError(c *gin.Context, err error) {
	m := Classify(err)
	abort(c, m.Status, err, m.Message, m.Code, nil)
}

func abort(c *gin.Context, status int, err error, msg, code string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Code = code
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

type Mapping struct {
	Kind    error
	Status  int
	Code    string
	Message string
}

// mappings is ordered: fatal kinds first, since a fatal error may also
// carry a storage mark.
var mappings = []Mapping{
	{errs.ErrHoldNotFound, http.StatusInternalServerError, "HOLD_NOT_FOUND", "Point hold missing for reservation"},
	{errs.ErrLogWriteFailed, http.StatusInternalServerError, "LOG_WRITE_FAILED", "System log unavailable"},
	{errs.ErrInsufficientPoints, http.StatusPaymentRequired, "INSUFFICIENT_POINTS", "Insufficient points"},
	{errs.ErrBookAlreadyReserved, http.StatusConflict, "BOOK_ALREADY_RESERVED", "Book already reserved"},
	{errs.ErrNoLockerAvailable, http.StatusConflict, "NO_LOCKER_AVAILABLE", "No locker available"},
	{errs.ErrLockerFault, http.StatusConflict, "LOCKER_FAULT", "Locker out of service"},
	{errs.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION", "Operation not allowed in current state"},
	{errs.ErrUnauthorized, http.StatusForbidden, "UNAUTHORIZED", "Operation not permitted"},
	{errs.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "Not found"},
	{errs.ErrInvalidArgument, http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid request"},
}

var internalError = Mapping{Status: http.StatusInternalServerError, Code: "INTERNAL", Message: "Internal server error"}

func Classify(err error) Mapping {
	for _, m := range mappings {
		if errs.Is(err, m.Kind) {
			return m
		}
	}
	return internalError
}
