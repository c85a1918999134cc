package api

import (
	"github.com/marciomartinho/minhas-financas/config"
	"github.com/marciomartinho/minhas-financas/database"
	"github.com/marciomartinho/minhas-financas/service"

	"github.com/gin-gonic/gin"
)

// AlertHandler triggers due-date alert runs
type AlertHandler struct{}

// NewAlertHandler creates an alert handler
func NewAlertHandler() *AlertHandler {
	return &AlertHandler{}
}

// Run sends the due-date digest email
// @Summary Run the due-date alert
// @Description Collects pending entries due in the configured window and emails a digest to the configured recipient. Meant to be triggered externally, for example by cron.
// @Tags alerts
// @Produce json
// @Success 200 {object} Response "digest result"
// @Failure 400 {object} Response "no alert recipient configured"
// @Failure 500 {object} Response "delivery failed"
// @Router /api/v1/alerts/run [post]
func (h *AlertHandler) Run(c *gin.Context) {
	cfg := config.GetConfig()
	alerts := service.NewAlertService(database.DB, service.NewEmailService(&cfg.Email), &cfg.Alert)

	alerted, err := alerts.Run(today())
	if err != nil {
		LedgerError(c, err)
		return
	}

	SuccessWithMessage(c, "alert run finished", gin.H{"alerted": alerted})
}
