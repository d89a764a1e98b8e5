package domain

import "strings"

// DefaultRegion is the data-center shard used when a key carries no region suffix.
const DefaultRegion = "us2"

// Credential is the API key and the region shard it belongs to.
// Keys are issued as "key-region"; the region selects the API host.
type Credential struct {
	Key    string
	Region string
}

// NewCredential parses a token into a credential on the default region.
func NewCredential(token string) Credential {
	c := Credential{Region: DefaultRegion}
	c.Set(token)
	return c
}

// Set parses token and updates the credential in place.
// An empty token leaves the credential unchanged. The key is always the
// first "-" segment; the region is only replaced when the token has exactly
// two segments, otherwise the previously configured region is kept.
func (c *Credential) Set(token string) {
	if token == "" {
		return
	}
	parts := strings.Split(token, "-")
	if len(parts) == 2 && parts[1] != "" {
		c.Region = parts[1]
	}
	c.Key = parts[0]
}

// IsZero reports whether no key has been configured.
func (c Credential) IsZero() bool {
	return c.Key == ""
}

// Token reassembles the "key-region" form.
func (c Credential) Token() string {
	if c.Region == "" {
		return c.Key
	}
	return c.Key + "-" + c.Region
}

// Masked returns the token with all but the last four key characters hidden.
func (c Credential) Masked() string {
	if len(c.Key) <= 4 {
		return strings.Repeat("*", len(c.Key)) + "-" + c.Region
	}
	return strings.Repeat("*", len(c.Key)-4) + c.Key[len(c.Key)-4:] + "-" + c.Region
}
