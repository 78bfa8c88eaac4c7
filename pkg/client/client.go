// Package client is a thin Go wrapper over the campaignhub HTTP API. Each
// method maps 1:1 to one remote call; there is no batching, retrying, or
// response reshaping. Cancellation follows the context passed to each call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	BaseURL string
	// HTTPClient is optional; a default with a 30s timeout is used when nil.
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	hc      *http.Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

// New establishes a fresh API handle. Calling New again returns a new
// handle with no session; it does not invalidate tokens held by others.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("client: base url is required")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: base, hc: hc}, nil
}

type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	AccountType string    `json:"account_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Campaign struct {
	ID        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	OwnerID   uuid.UUID              `json:"owner_id"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

type CampaignMembership struct {
	Role     string   `json:"role"`
	Campaign Campaign `json:"campaign"`
}

type Member struct {
	CampaignID uuid.UUID `json:"campaign_id"`
	UserID     uuid.UUID `json:"user_id"`
	Role       string    `json:"role"`
	JoinedAt   time.Time `json:"joined_at"`
}

type InviteCode struct {
	ID          uuid.UUID  `json:"id"`
	CampaignID  uuid.UUID  `json:"campaign_id"`
	Code        string     `json:"code"`
	RoleToGrant string     `json:"role_to_grant"`
	MaxUses     int        `json:"max_uses"`
	UsedCount   int        `json:"used_count"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Revoked     bool       `json:"revoked"`
	CreatedAt   time.Time  `json:"created_at"`
}

type RulesConfig struct {
	DifficultyDowngrades bool `json:"difficultyDowngrades"`
	FalloutCheckOnStress bool `json:"falloutCheckOnStress"`
	ClearStressOnFallout bool `json:"clearStressOnFallout"`
}

type SaveResult struct {
	ID        uuid.UUID `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
}

type signUpResponse struct {
	Profile Profile  `json:"profile"`
	Tokens  TokenSet `json:"tokens"`
}

// SignUp registers a new account and retains the returned session tokens.
func (c *Client) SignUp(ctx context.Context, email, password, username, accountType string) (*Profile, error) {
	var out signUpResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":        email,
		"password":     password,
		"username":     username,
		"account_type": accountType,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.setTokens(out.Tokens)
	return &out.Profile, nil
}

// SignIn authenticates and retains the returned session tokens.
func (c *Client) SignIn(ctx context.Context, email, password string) (*TokenSet, error) {
	var tokens TokenSet
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &tokens)
	if err != nil {
		return nil, err
	}
	c.setTokens(tokens)
	return &tokens, nil
}

// SignOut revokes the session's refresh token and drops both tokens locally.
// Signing out without a session is a no-op.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.RLock()
	refresh := c.refreshToken
	c.mu.RUnlock()
	if refresh == "" {
		return nil
	}

	err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", map[string]string{
		"refresh_token": refresh,
	}, nil)

	c.mu.Lock()
	c.accessToken = ""
	c.refreshToken = ""
	c.mu.Unlock()
	return err
}

// CurrentUser returns the signed-in profile.
func (c *Client) CurrentUser(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateCampaign creates a campaign. A blank name becomes "New Campaign"
// server-side.
func (c *Client) CreateCampaign(ctx context.Context, name string) (*Campaign, error) {
	var campaign Campaign
	err := c.do(ctx, http.MethodPost, "/api/v1/campaigns", map[string]string{"name": name}, &campaign)
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// ListMyCampaigns returns the caller's memberships ordered by join time.
func (c *Client) ListMyCampaigns(ctx context.Context) ([]CampaignMembership, error) {
	var memberships []CampaignMembership
	if err := c.do(ctx, http.MethodGet, "/api/v1/campaigns", nil, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// SaveCampaignData overwrites the campaign's opaque data blob.
func (c *Client) SaveCampaignData(ctx context.Context, campaignID uuid.UUID, data map[string]interface{}) (*SaveResult, error) {
	var out SaveResult
	err := c.do(ctx, http.MethodPut, "/api/v1/campaigns/"+campaignID.String()+"/data",
		map[string]interface{}{"data": data}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRulesConfig returns the campaign's effective rules selection.
func (c *Client) GetRulesConfig(ctx context.Context, campaignID uuid.UUID) (*RulesConfig, error) {
	var cfg RulesConfig
	err := c.do(ctx, http.MethodGet, "/api/v1/campaigns/"+campaignID.String()+"/rules", nil, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ListMembers returns the campaign's member list; co-members only.
func (c *Client) ListMembers(ctx context.Context, campaignID uuid.UUID) ([]Member, error) {
	var members []Member
	err := c.do(ctx, http.MethodGet, "/api/v1/campaigns/"+campaignID.String()+"/members", nil, &members)
	if err != nil {
		return nil, err
	}
	return members, nil
}

// GenerateInviteCode issues a new invite code; the caller must be a gm of
// the campaign. Zero values select the server defaults (player role, one
// use, 24h expiry).
func (c *Client) GenerateInviteCode(ctx context.Context, campaignID uuid.UUID, roleToGrant string, maxUses, expiresMinutes int) (*InviteCode, error) {
	var invite InviteCode
	err := c.do(ctx, http.MethodPost, "/api/v1/campaigns/"+campaignID.String()+"/invites",
		map[string]interface{}{
			"role_to_grant":   roleToGrant,
			"max_uses":        maxUses,
			"expires_minutes": expiresMinutes,
		}, &invite)
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

type redeemResponse struct {
	CampaignID uuid.UUID `json:"campaign_id"`
}

// JoinCampaignWithCode redeems an invite code and returns the campaign id
// the caller joined.
func (c *Client) JoinCampaignWithCode(ctx context.Context, code string) (uuid.UUID, error) {
	var out redeemResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/invites/redeem", map[string]string{"code": code}, &out)
	if err != nil {
		return uuid.Nil, err
	}
	return out.CampaignID, nil
}

// RevokeInviteCode marks a code unusable; gm only.
func (c *Client) RevokeInviteCode(ctx context.Context, campaignID uuid.UUID, code string) (*InviteCode, error) {
	var invite InviteCode
	err := c.do(ctx, http.MethodPost, "/api/v1/campaigns/"+campaignID.String()+"/invites/revoke",
		map[string]string{"code": code}, &invite)
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (c *Client) setTokens(tokens TokenSet) {
	c.mu.Lock()
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
	c.mu.Unlock()
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.RLock()
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	c.mu.RUnlock()

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || env.Code != 0 {
		return &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("client: decode response data: %w", err)
		}
	}
	return nil
}
