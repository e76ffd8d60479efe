package handlers

import (
	"net/http"

	"guidely/services/review"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	svc    review.ReviewService
	logger *zap.Logger
}

func NewReviewHandler(svc review.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, logger: logger}
}

// AddReviewHandler records the buyer's review for a completed booking.
func (h *ReviewHandler) AddReviewHandler(c *gin.Context) {
	var input struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	rev, err := h.svc.AddReview(c.Request.Context(), callerFromContext(c), c.Param("id"), input.Rating, input.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviewId": rev.ID})
}
