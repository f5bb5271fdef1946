package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Juli03-22/lookaly-fullstack/apperrors"
)

// respondError renders an error from the taxonomy with its proper status.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	var valErr *apperrors.ValidationError
	if errors.As(err, &valErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": valErr.Error(), "detail": valErr.Fields})
		return
	}

	var upErr *apperrors.UpstreamError
	if errors.As(err, &upErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
