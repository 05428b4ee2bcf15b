package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// InvalidArgument marks malformed or missing input (400).
func InvalidArgument(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// NotFound marks a missing entity (404).
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

// Forbidden marks an authenticated but unauthorized caller (403).
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message, nil)
}

// Unauthorized marks a missing or invalid identity (401).
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message, nil)
}

// Conflict marks a uniqueness violation (409).
func Conflict(message string) *Error {
	return New(http.StatusConflict, message, nil)
}

// Internal wraps an unexpected failure (500). The wrapped error is logged by
// the caller, never returned to the client.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// EmptyCart rejects checkout on a cart with zero lines.
func EmptyCart() *Error {
	return New(http.StatusBadRequest, "Carrinho vazio, nenhum pedido criado", nil)
}

// InvalidLineItem rejects the whole checkout when one line references a
// product that no longer exists or has no valid price.
func InvalidLineItem(productName string) *Error {
	return New(http.StatusBadRequest,
		fmt.Sprintf("Produto %s indisponivel ou sem preco valido", productName), nil)
}

// Respond writes an error as a JSON response on the gin context.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if e, ok := err.(*Error); ok {
		appErr = e
	} else {
		appErr = Internal("Erro interno do servidor", err)
	}
	c.JSON(appErr.Code, gin.H{"message": appErr.Message})
}
