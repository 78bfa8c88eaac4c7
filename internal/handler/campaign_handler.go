package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"deepdelve/campaignhub/internal/model"
	"deepdelve/campaignhub/internal/service"
	"deepdelve/campaignhub/pkg/response"
)

type CampaignHandler struct {
	campaignService service.CampaignService
}

func NewCampaignHandler(campaignService service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

type CreateCampaignRequest struct {
	Name string `json:"name"`
}

type SaveCampaignDataRequest struct {
	Data model.GameData `json:"data" binding:"required"`
}

func (h *CampaignHandler) Create(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	// Body is optional; an empty name falls back to the default.
	var req CreateCampaignRequest
	_ = c.ShouldBindJSON(&req)

	campaign, err := h.campaignService.CreateCampaign(c.Request.Context(), userID, req.Name)
	if err != nil {
		response.InternalError(c, "failed to create campaign")
		return
	}

	response.Success(c, campaign)
}

func (h *CampaignHandler) Get(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	campaign, err := h.campaignService.GetCampaign(c.Request.Context(), campaignID, userID)
	if err != nil {
		respondCampaignError(c, err, "failed to load campaign")
		return
	}

	response.Success(c, campaign)
}

func (h *CampaignHandler) ListMine(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	memberships, err := h.campaignService.ListMyCampaigns(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, "failed to list campaigns")
		return
	}

	response.Success(c, memberships)
}

func (h *CampaignHandler) SaveData(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	var req SaveCampaignDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	campaign, err := h.campaignService.SaveCampaignData(c.Request.Context(), campaignID, userID, req.Data)
	if err != nil {
		respondCampaignError(c, err, "failed to save campaign data")
		return
	}

	response.Success(c, gin.H{"id": campaign.ID, "updated_at": campaign.UpdatedAt})
}

func (h *CampaignHandler) Delete(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	if err := h.campaignService.DeleteCampaign(c.Request.Context(), campaignID, userID); err != nil {
		respondCampaignError(c, err, "failed to delete campaign")
		return
	}

	response.Success(c, nil)
}

func (h *CampaignHandler) ListMembers(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	members, err := h.campaignService.ListMembers(c.Request.Context(), campaignID, userID)
	if err != nil {
		respondCampaignError(c, err, "failed to list members")
		return
	}

	response.Success(c, members)
}

func (h *CampaignHandler) RulesConfig(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	cfg, err := h.campaignService.RulesConfig(c.Request.Context(), campaignID, userID)
	if err != nil {
		respondCampaignError(c, err, "failed to load rules config")
		return
	}

	response.Success(c, cfg)
}

// respondCampaignError maps the campaign/membership error taxonomy onto the
// HTTP surface. Unclassified errors become opaque 500s.
func respondCampaignError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrCampaignNotFound):
		response.NotFound(c, "campaign not found")
	case errors.Is(err, service.ErrNotMember):
		response.Forbidden(c, "not a member of this campaign")
	case errors.Is(err, service.ErrNotGM):
		response.Forbidden(c, "requires gm role")
	case errors.Is(err, service.ErrNotOwner):
		response.Forbidden(c, "only the owner may do this")
	default:
		response.InternalError(c, fallback)
	}
}
