// Package linkedin publishes recruiting posts through the LinkedIn UGC API,
// with OAuth handled by golang.org/x/oauth2 and the member token cached on
// disk between runs.
package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

const (
	ugcPostsURL = "https://api.linkedin.com/v2/ugcPosts"
	userInfoURL = "https://api.linkedin.com/v2/userinfo"
)

type Client struct {
	oauth     *oauth2.Config
	tokenPath string
	logger    *log.Logger
	http      *http.Client

	token  *oauth2.Token
	userID string
}

func NewClient(clientID, clientSecret, redirectURL, tokenPath string, logger *log.Logger) *Client {
	if tokenPath == "" {
		tokenPath = "data/linkedin_token.json"
	}
	c := &Client{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email", "w_member_social"},
			Endpoint:     linkedin.Endpoint,
		},
		tokenPath: tokenPath,
		logger:    logger,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
	c.loadToken()
	return c
}

func (c *Client) IsConfigured() bool {
	return c.oauth.ClientID != "" && c.oauth.ClientSecret != ""
}

func (c *Client) IsAuthenticated() bool {
	return c.token != nil && c.token.Valid()
}

// AuthURL returns the authorization URL the recruiter opens in a browser.
func (c *Client) AuthURL() (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("linkedin client credentials missing")
	}
	return c.oauth.AuthCodeURL("smart-hire", oauth2.AccessTypeOffline), nil
}

// Exchange trades the OAuth callback code for a member token and persists it.
func (c *Client) Exchange(ctx context.Context, code string) error {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("linkedin token exchange: %w", err)
	}
	c.token = token
	c.userID = ""
	return c.saveToken()
}

// Publish posts the content as a public member share.
func (c *Client) Publish(ctx context.Context, content string) error {
	if !c.IsAuthenticated() {
		return fmt.Errorf("linkedin: not authenticated")
	}
	userID, err := c.resolveUserID(ctx)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{
		"author":         "urn:li:person:" + userID,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]interface{}{
			"com.linkedin.ugc.ShareContent": map[string]interface{}{
				"shareCommentary":    map[string]string{"text": content},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal share: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ugcPostsURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("linkedin publish: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("linkedin publish: status %d: %s", resp.StatusCode, string(respBody))
	}
	c.logger.Printf("[LINKEDIN] post published (%d chars)", len(content))
	return nil
}

// resolveUserID fetches the member URN id from the OpenID userinfo endpoint,
// caching it for the lifetime of the token.
func (c *Client) resolveUserID(ctx context.Context) (string, error) {
	if c.userID != "" {
		return c.userID, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("linkedin userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("linkedin userinfo: status %d: %s", resp.StatusCode, string(respBody))
	}

	var info struct {
		Sub string `json:"sub"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Sub == "" {
		return "", fmt.Errorf("linkedin userinfo: empty subject")
	}
	c.userID = info.Sub
	return c.userID, nil
}

func (c *Client) loadToken() {
	data, err := os.ReadFile(c.tokenPath)
	if err != nil {
		return
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		c.logger.Printf("[LINKEDIN] ignoring corrupt token file %s: %v", c.tokenPath, err)
		return
	}
	c.token = &token
}

func (c *Client) saveToken() error {
	if err := os.MkdirAll(filepath.Dir(c.tokenPath), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(c.token)
	if err != nil {
		return err
	}
	return os.WriteFile(c.tokenPath, data, 0o600)
}
