package handler

import (
	"github.com/gin-gonic/gin"

	"deepdelve/campaignhub/internal/service"
	"deepdelve/campaignhub/pkg/response"
)

// AdminHandler exposes operator-only views. Access is gated by the
// AdminAuth middleware, not by campaign membership.
type AdminHandler struct {
	inviteService service.InviteService
}

func NewAdminHandler(inviteService service.InviteService) *AdminHandler {
	return &AdminHandler{inviteService: inviteService}
}

// ListInviteCodes returns every invite code across all campaigns.
func (h *AdminHandler) ListInviteCodes(c *gin.Context) {
	codes, err := h.inviteService.ListAllCodes(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to list invite codes")
		return
	}

	response.Success(c, codes)
}
