package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"seatwise/internal/application/reconciliation/usecases"
	"seatwise/internal/shared/logger"
	"seatwise/internal/shared/utils"
)

// ReconciliationHandler exposes the coverage overlap scan and its results.
type ReconciliationHandler struct {
	scanOverlapsUC *usecases.ScanCoverageOverlapsUseCase
	listOverlapsUC *usecases.ListCoverageOverlapsUseCase
	logger         logger.Interface
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(
	scanOverlapsUC *usecases.ScanCoverageOverlapsUseCase,
	listOverlapsUC *usecases.ListCoverageOverlapsUseCase,
	logger logger.Interface,
) *ReconciliationHandler {
	return &ReconciliationHandler{
		scanOverlapsUC: scanOverlapsUC,
		listOverlapsUC: listOverlapsUC,
		logger:         logger,
	}
}

type triggerScanRequest struct {
	AsOf *time.Time `json:"as_of"`
}

// TriggerScan handles POST /reconciliation/scan
func (h *ReconciliationHandler) TriggerScan(c *gin.Context) {
	var req triggerScanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	cmd := usecases.ScanCoverageOverlapsCommand{}
	if req.AsOf != nil {
		cmd.AsOf = *req.AsOf
	}

	result, err := h.scanOverlapsUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to run reconciliation scan", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListOverlaps handles GET /organizations/:id/coverage-overlaps
// Query parameters:
//   - since: RFC 3339 timestamp; defaults to 30 days ago
func (h *ReconciliationHandler) ListOverlaps(c *gin.Context) {
	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	since := time.Now().UTC().AddDate(0, 0, -30)
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid since parameter")
			return
		}
		since = parsed
	}

	result, err := h.listOverlapsUC.Execute(c.Request.Context(), usecases.ListCoverageOverlapsQuery{
		OrganizationID: orgID,
		Since:          since,
	})
	if err != nil {
		h.logger.Errorw("failed to list coverage overlaps", "error", err, "organization_id", orgID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"overlaps": result,
	})
}
