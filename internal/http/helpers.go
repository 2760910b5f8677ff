package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/famhub/famhub/internal/auth"
	"github.com/famhub/famhub/internal/database"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// GetUserID extracts the authenticated user's ID from the Gin context.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
// Field is set for validation and conflict errors so clients can highlight
// the offending input.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PaginatedResponse wraps a page of rows with its envelope.
type PaginatedResponse struct {
	Data       any                 `json:"data"`
	Pagination database.Pagination `json:"pagination"`
}

// --- Middleware ---

// RequestIDMiddleware assigns a UUID to each request, honouring one the
// client already sent.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 response. The actual
// error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s) [request_id=%s]: %v", context, c.GetString("request_id"), err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondStoreError translates a store error into the matching HTTP
// response: 400 for validation, 404 for missing rows, 409 for conflicts,
// 401 for authorization and 500 for everything else.
func respondStoreError(c *gin.Context, err error, context string) {
	translated := database.Translate(err)

	var validation *database.ValidationError
	if errors.As(translated, &validation) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validation.Message, Field: validation.Field})
		return
	}

	var conflict *database.ConflictError
	if errors.As(translated, &conflict) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: conflict.Field + " is already taken",
			Field: conflict.Field,
		})
		return
	}

	var notFound *database.NotFoundError
	if errors.As(translated, &notFound) {
		respondNotFound(c, notFound.Resource)
		return
	}

	var unauthorized *database.UnauthorizedError
	if errors.As(translated, &unauthorized) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: unauthorized.Message})
		return
	}

	respondInternalError(c, err, context)
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondPage sends a 200 OK response with a page of rows.
func respondPage(c *gin.Context, data any, pagination database.Pagination) {
	c.JSON(http.StatusOK, PaginatedResponse{Data: data, Pagination: pagination})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. Responds with a 400 error and returns false on failure.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads page/limit query parameters. Out-of-range values
// are clamped downstream, never rejected.
func parsePagination(c *gin.Context) database.PaginationOptions {
	opts := database.PaginationOptions{}
	if pageStr := c.Query("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil {
			opts.Page = page
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			opts.Limit = limit
		}
	}
	return opts
}
