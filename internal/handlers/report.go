package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/sales-objectives-api/internal/errors"
	"github.com/yukikurage/sales-objectives-api/internal/middleware"
	"github.com/yukikurage/sales-objectives-api/internal/services"
)

// ReportHandler serves progress reports.
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// GetMyScorecard returns the caller's scorecard.
func (h *ReportHandler) GetMyScorecard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	h.respondScorecard(c, userID)
}

// GetContributorScorecard returns a contributor's scorecard to managers and
// to the contributor themself.
func (h *ReportHandler) GetContributorScorecard(c *gin.Context) {
	contributorID, ok := parseIDParam(c, "id", "contributor")
	if !ok {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	if user.ID != contributorID && !user.IsManager() {
		apierrors.Forbidden(c, "Only managers can view other contributors' scorecards")
		return
	}

	h.respondScorecard(c, contributorID)
}

// GetCompanyDashboard returns company-wide totals.
func (h *ReportHandler) GetCompanyDashboard(c *gin.Context) {
	dashboard, err := h.reportService.CompanyDashboard()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *ReportHandler) respondScorecard(c *gin.Context, contributorID uint64) {
	card, err := h.reportService.Scorecard(contributorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}
