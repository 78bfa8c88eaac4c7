package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"deepdelve/campaignhub/internal/model"
	"deepdelve/campaignhub/internal/service"
	"deepdelve/campaignhub/pkg/response"
)

type InviteHandler struct {
	inviteService service.InviteService
}

func NewInviteHandler(inviteService service.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

type IssueInviteRequest struct {
	RoleToGrant    string `json:"role_to_grant"`
	MaxUses        int    `json:"max_uses"`
	ExpiresMinutes int    `json:"expires_minutes"`
}

type RedeemInviteRequest struct {
	Code string `json:"code" binding:"required"`
}

type RevokeInviteRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *InviteHandler) Issue(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	var req IssueInviteRequest
	_ = c.ShouldBindJSON(&req)

	invite, err := h.inviteService.IssueCode(
		c.Request.Context(),
		campaignID, userID,
		model.Role(req.RoleToGrant), req.MaxUses, req.ExpiresMinutes,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrNotMember), errors.Is(err, service.ErrNotGM):
			response.Forbidden(c, "requires gm role")
		default:
			response.InternalError(c, "failed to issue invite code")
		}
		return
	}

	response.Success(c, invite)
}

func (h *InviteHandler) Redeem(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	var req RedeemInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	campaignID, err := h.inviteService.RedeemCode(c.Request.Context(), userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeRequired):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrInviteCodeInvalid):
			response.NotFound(c, "invalid code")
		case errors.Is(err, service.ErrInviteCodeExpired):
			response.Gone(c, response.CodeInviteExpired, "code expired")
		case errors.Is(err, service.ErrInviteCodeRevoked):
			response.Gone(c, response.CodeInviteRevoked, "code revoked")
		case errors.Is(err, service.ErrInviteCodeExhausted):
			response.Gone(c, response.CodeInviteExhausted, "no remaining uses")
		default:
			response.InternalError(c, "failed to redeem invite code")
		}
		return
	}

	response.Success(c, gin.H{"campaign_id": campaignID})
}

func (h *InviteHandler) Revoke(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	var req RevokeInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "code required")
		return
	}

	invite, err := h.inviteService.RevokeCode(c.Request.Context(), campaignID, userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeRequired):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrInviteCodeInvalid):
			response.NotFound(c, "invalid code")
		case errors.Is(err, service.ErrNotMember), errors.Is(err, service.ErrNotGM):
			response.Forbidden(c, "requires gm role")
		default:
			response.InternalError(c, "failed to revoke invite code")
		}
		return
	}

	response.Success(c, invite)
}

func (h *InviteHandler) ListForCampaign(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	codes, err := h.inviteService.ListCampaignCodes(c.Request.Context(), campaignID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotMember), errors.Is(err, service.ErrNotGM):
			response.Forbidden(c, "requires gm role")
		default:
			response.InternalError(c, "failed to list invite codes")
		}
		return
	}

	response.Success(c, codes)
}
