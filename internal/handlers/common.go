package handlers

import (
	"errors"
	"net/http"

	"quizroom-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"room not found"`
}

type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// respondError maps the domain error taxonomy onto HTTP statuses.
// Store and other unexpected failures become a generic 500 so internal
// detail never leaks to players.
func respondError(c *gin.Context, err error) {
	var (
		validation *services.ValidationError
		notFound   *services.NotFoundError
		authz      *services.AuthorizationError
		conflict   *services.StateConflictError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validation.Msg})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: notFound.Msg})
	case errors.As(err, &authz):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: authz.Msg})
	case errors.As(err, &conflict):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: conflict.Msg})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
