package controllers

import (
	"errors"
	"net/http"

	"github.com/PetrosyanDev/armen-cs-teammate/services"

	"github.com/gin-gonic/gin"
)

// StartOnboardingRequest begins the profile question sequence
type StartOnboardingRequest struct {
	UserID      string `json:"userId" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
}

// OnboardingInputRequest carries one answer for the current step
type OnboardingInputRequest struct {
	UserID string `json:"userId" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

// CancelOnboardingRequest discards an in-progress draft
type CancelOnboardingRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// StartOnboarding resets any prior session and returns the first prompt
func StartOnboarding(c *gin.Context) {
	var req StartOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	prompt := onboarding.Start(req.UserID, req.DisplayName)
	c.JSON(http.StatusOK, gin.H{"prompt": prompt})
}

// OnboardingInput validates one answer. A validation failure re-prompts the
// same step; the terminal step reports the saved profile.
func OnboardingInput(c *gin.Context) {
	var req OnboardingInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	prompt, err := onboarding.Input(c.Request.Context(), req.UserID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No onboarding in progress. Start over first."})
		case errors.Is(err, services.ErrInvalidInput):
			// Recovered locally: same step, draft unchanged.
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "prompt": prompt})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save profile"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"prompt": prompt})
}

// CancelOnboarding discards the draft without touching stored profiles
func CancelOnboarding(c *gin.Context) {
	var req CancelOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := onboarding.Cancel(req.UserID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No onboarding in progress"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "❌ Cancelled."})
}
