package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/PetrosyanDev/armen-cs-teammate/services"

	"github.com/gin-gonic/gin"
)

// SubmitRatingRequest answers a fired feedback prompt. DisplayName is
// optional; when present it must name the candidate the prompt asked about.
type SubmitRatingRequest struct {
	UserID      string `json:"userId" binding:"required"`
	DisplayName string `json:"displayName"`
	Kind        string `json:"kind" binding:"required"`
}

// SubmitRating consumes the requester's fired prompt and applies exactly one
// reputation increment to the top-ranked candidate
func SubmitRating(c *gin.Context) {
	var req SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.DisplayName != "" {
		if event, ok := feedback.Pending(req.UserID); ok && event.TopCandidate() != req.DisplayName {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("This prompt is about %s, not %s", event.TopCandidate(), req.DisplayName),
			})
			return
		}
	}

	candidate, err := feedback.Consume(c.Request.Context(), req.UserID, req.Kind)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown rating kind"})
		case errors.Is(err, services.ErrNoPendingFeedback):
			c.JSON(http.StatusNotFound, gin.H{"error": "No feedback prompt is waiting for you"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "⚠️ Could not update rating."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("✅ Thank you for your feedback on %s!", candidate)})
}
