// Package handlers implements the admin HTTP API.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seatwise/internal/application/enforcement/usecases"
	"seatwise/internal/shared/logger"
	"seatwise/internal/shared/utils"
)

// EnforcementHandler handles seat activation, deactivation, grade band
// changes, feature access checks, and seat usage reporting.
type EnforcementHandler struct {
	activateLearnerUC     *usecases.ActivateLearnerUseCase
	deactivateLearnerUC   *usecases.DeactivateLearnerUseCase
	changeGradeBandUC     *usecases.ChangeGradeBandUseCase
	checkFeatureAccessUC  *usecases.CheckFeatureAccessUseCase
	getSeatUsageSummaryUC *usecases.GetSeatUsageSummaryUseCase
	logger                logger.Interface
}

// NewEnforcementHandler creates a new enforcement handler
func NewEnforcementHandler(
	activateLearnerUC *usecases.ActivateLearnerUseCase,
	deactivateLearnerUC *usecases.DeactivateLearnerUseCase,
	changeGradeBandUC *usecases.ChangeGradeBandUseCase,
	checkFeatureAccessUC *usecases.CheckFeatureAccessUseCase,
	getSeatUsageSummaryUC *usecases.GetSeatUsageSummaryUseCase,
	logger logger.Interface,
) *EnforcementHandler {
	return &EnforcementHandler{
		activateLearnerUC:     activateLearnerUC,
		deactivateLearnerUC:   deactivateLearnerUC,
		changeGradeBandUC:     changeGradeBandUC,
		checkFeatureAccessUC:  checkFeatureAccessUC,
		getSeatUsageSummaryUC: getSeatUsageSummaryUC,
		logger:                logger,
	}
}

// ActivateLearner handles POST /learners/:id/activate
func (h *EnforcementHandler) ActivateLearner(c *gin.Context) {
	learnerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.activateLearnerUC.Execute(c.Request.Context(), usecases.ActivateLearnerCommand{
		LearnerID: learnerID,
	})
	if err != nil {
		h.logger.Errorw("failed to activate learner", "error", err, "learner_id", learnerID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	// Business rejections are part of the contract, not errors. They still
	// return 200 with the failure kind and admin guidance.
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

type deactivateLearnerRequest struct {
	Reason string `json:"reason"`
}

// DeactivateLearner handles POST /learners/:id/deactivate
func (h *EnforcementHandler) DeactivateLearner(c *gin.Context) {
	learnerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req deactivateLearnerRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := h.deactivateLearnerUC.Execute(c.Request.Context(), usecases.DeactivateLearnerCommand{
		LearnerID: learnerID,
		Reason:    req.Reason,
	}); err != nil {
		h.logger.Errorw("failed to deactivate learner", "error", err, "learner_id", learnerID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "learner deactivated", nil)
}

type changeGradeBandRequest struct {
	GradeBand string `json:"grade_band" binding:"required"`
}

// ChangeGradeBand handles POST /learners/:id/grade-band
func (h *EnforcementHandler) ChangeGradeBand(c *gin.Context) {
	learnerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req changeGradeBandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "grade_band is required")
		return
	}

	result, err := h.changeGradeBandUC.Execute(c.Request.Context(), usecases.ChangeGradeBandCommand{
		LearnerID: learnerID,
		NewTier:   req.GradeBand,
	})
	if err != nil {
		h.logger.Errorw("failed to change grade band",
			"error", err,
			"learner_id", learnerID,
			"grade_band", req.GradeBand,
		)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CheckFeatureAccess handles GET /learners/:id/features/:key/access
func (h *EnforcementHandler) CheckFeatureAccess(c *gin.Context) {
	learnerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	featureKey := c.Param("key")
	if featureKey == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "feature key is required")
		return
	}

	result, err := h.checkFeatureAccessUC.Execute(c.Request.Context(), usecases.CheckFeatureAccessQuery{
		LearnerID:  learnerID,
		FeatureKey: featureKey,
	})
	if err != nil {
		h.logger.Errorw("failed to check feature access",
			"error", err,
			"learner_id", learnerID,
			"feature_key", featureKey,
		)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetSeatUsage handles GET /organizations/:id/seat-usage
func (h *EnforcementHandler) GetSeatUsage(c *gin.Context) {
	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.getSeatUsageSummaryUC.Execute(c.Request.Context(), usecases.GetSeatUsageSummaryQuery{
		OrganizationID: orgID,
	})
	if err != nil {
		h.logger.Errorw("failed to get seat usage", "error", err, "organization_id", orgID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid "+name+" parameter")
		return 0, false
	}
	return uint(parsed), true
}
