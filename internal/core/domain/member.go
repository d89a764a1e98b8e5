package domain

import (
	"crypto/md5" //nolint:gosec // remote API keys members by md5
	"encoding/hex"
	"strings"
)

// Member subscription statuses.
const (
	MemberSubscribed   = "subscribed"
	MemberPending      = "pending"
	MemberUnsubscribed = "unsubscribed"
	MemberCleaned      = "cleaned"
)

// ListMember is a subscriber of a marketing list.
type ListMember struct {
	EmailAddress string          `json:"email_address" validate:"required,email"`
	EmailType    string          `json:"email_type,omitempty"`
	Status       string          `json:"status" validate:"required,oneof=subscribed pending unsubscribed cleaned"`
	StatusIfNew  string          `json:"status_if_new,omitempty"`
	MergeFields  map[string]any  `json:"merge_fields,omitempty"`
	Interests    map[string]bool `json:"interests,omitempty"`
}

// EntityID returns the member hash, the identifier used in remote paths.
func (m *ListMember) EntityID() string { return MemberHash(m.EmailAddress) }

// Resource returns ResourceMembers.
func (m *ListMember) Resource() ResourceType { return ResourceMembers }

// MemberHash returns the lowercase hex md5 of the lowercased email address.
func MemberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(email))) //nolint:gosec // remote identifier
	return hex.EncodeToString(sum[:])
}

// MemberStatus maps a tri-state subscription flag to a remote status.
// A nil flag means the address bounced and is reported as cleaned.
func MemberStatus(subscribed *bool) string {
	switch {
	case subscribed == nil:
		return MemberCleaned
	case *subscribed:
		return MemberSubscribed
	default:
		return MemberUnsubscribed
	}
}

// MemberStatusIfNew returns the status applied when an upsert creates the member.
func MemberStatusIfNew(subscribed *bool) string {
	if subscribed != nil && *subscribed {
		return MemberSubscribed
	}
	return MemberPending
}

// NewListMember builds an upsert payload for email from a tri-state
// subscription flag. Empty merge fields and interests are omitted on the wire.
func NewListMember(email string, subscribed *bool, mergeFields map[string]any, interests map[string]bool) *ListMember {
	return &ListMember{
		EmailAddress: email,
		Status:       MemberStatus(subscribed),
		StatusIfNew:  MemberStatusIfNew(subscribed),
		MergeFields:  mergeFields,
		Interests:    interests,
	}
}
