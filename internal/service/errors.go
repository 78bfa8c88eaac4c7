package service

import "errors"

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrRefreshTokenInvalid = errors.New("refresh token invalid or revoked")
	ErrProfileNotFound     = errors.New("profile not found")

	ErrCampaignNotFound = errors.New("campaign not found")
	ErrNotMember        = errors.New("not a member of this campaign")
	ErrNotGM            = errors.New("requires gm role in this campaign")
	ErrNotOwner         = errors.New("only the campaign owner may do this")

	ErrInvalidRole         = errors.New("role must be player or gm")
	ErrCodeRequired        = errors.New("code required")
	ErrInviteCodeInvalid   = errors.New("invalid code")
	ErrInviteCodeRevoked   = errors.New("code revoked")
	ErrInviteCodeExpired   = errors.New("code expired")
	ErrInviteCodeExhausted = errors.New("no remaining uses")
)
