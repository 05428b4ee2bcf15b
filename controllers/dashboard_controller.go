package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/middleware"
	apperrors "github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/errors"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/services"
)

type DashboardController struct {
	dashboard *services.DashboardService
}

func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

// GetMetrics returns the admin dashboard for an optional date range.
func (ctl *DashboardController) GetMetrics(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	metrics, appErr := ctl.dashboard.GetMetrics(c.Request.Context(), user.IsAdmin, c.Query("startDate"), c.Query("endDate"))
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, metrics)
}
