package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
)

// resetConfirmation must be sent as ?confirm= to wipe the store
const resetConfirmation = "RESET"

// AdminHandler handles store-wide maintenance
type AdminHandler struct {
	resetService *service.ResetService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(resetService *service.ResetService) *AdminHandler {
	return &AdminHandler{resetService: resetService}
}

// Reset handles deleting all shop data
func (h *AdminHandler) Reset(c *gin.Context) {
	if c.Query("confirm") != resetConfirmation {
		response.BadRequest(c, "Pass confirm="+resetConfirmation+" to reset all data")
		return
	}

	if err := h.resetService.ResetAll(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "All data reset successfully", nil)
}
