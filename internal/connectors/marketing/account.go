package marketing

import (
	"context"
	"fmt"
)

// Profile is the account root document.
type Profile struct {
	AccountID        string `json:"account_id"`
	AccountName      string `json:"account_name"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	Username         string `json:"username,omitempty"`
	Role             string `json:"role,omitempty"`
	TotalSubscribers int    `json:"total_subscribers,omitempty"`
}

// AuthorizedApp is an application granted access to the account.
type AuthorizedApp struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Users       []string `json:"users,omitempty"`
}

// AuthorizedAppToken is returned when an app is linked.
type AuthorizedAppToken struct {
	AccessToken string `json:"access_token"`
	ViewerToken string `json:"viewer_token"`
}

type authorizedAppsResponse struct {
	Apps       []AuthorizedApp `json:"apps"`
	TotalItems int             `json:"total_items"`
}

// Ping reports whether the API answers the root document with the current
// credential. Any failure yields false.
func (c *Client) Ping(ctx context.Context) bool {
	return c.get(ctx, "", nil, nil) == nil
}

// GetProfile returns the account root document.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.get(ctx, "", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAuthorizedApps lists applications authorised on the account.
func (c *Client) GetAuthorizedApps(ctx context.Context) ([]AuthorizedApp, error) {
	var resp authorizedAppsResponse
	if err := c.get(ctx, "authorized-apps", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Apps, nil
}

// GetAuthorizedApp returns one authorised application.
func (c *Client) GetAuthorizedApp(ctx context.Context, id int) (*AuthorizedApp, error) {
	var app AuthorizedApp
	if err := c.get(ctx, fmt.Sprintf("authorized-apps/%d", id), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// LinkAuthorizedApp grants an application access and returns its tokens.
func (c *Client) LinkAuthorizedApp(ctx context.Context, clientID, clientSecret string) (*AuthorizedAppToken, error) {
	body := map[string]string{"client_id": clientID, "client_secret": clientSecret}
	var token AuthorizedAppToken
	if err := c.post(ctx, "authorized-apps", body, &token); err != nil {
		return nil, err
	}
	return &token, nil
}
