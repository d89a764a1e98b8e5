package marketing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

// List is a marketing audience.
type List struct {
	ID                  string            `json:"id,omitempty"`
	Name                string            `json:"name"`
	PermissionReminder  string            `json:"permission_reminder,omitempty"`
	EmailTypeOption     bool              `json:"email_type_option"`
	Contact             *Contact          `json:"contact,omitempty"`
	CampaignDefaults    *CampaignDefaults `json:"campaign_defaults,omitempty"`
	NotifyOnSubscribe   string            `json:"notify_on_subscribe,omitempty"`
	NotifyOnUnsubscribe string            `json:"notify_on_unsubscribe,omitempty"`
}

// Contact is the postal contact printed in list footers.
type Contact struct {
	Company  string `json:"company"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Phone    string `json:"phone,omitempty"`
}

// CampaignDefaults are the sender defaults of a list.
type CampaignDefaults struct {
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	Subject   string `json:"subject"`
	Language  string `json:"language"`
}

// ListsResponse is one page of lists.
type ListsResponse struct {
	Lists      []List `json:"lists"`
	TotalItems int    `json:"total_items"`
}

// MembersResponse is one page of list members.
type MembersResponse struct {
	ListID     string              `json:"list_id"`
	Members    []domain.ListMember `json:"members"`
	TotalItems int                 `json:"total_items"`
}

// MergeField is a custom field attached to list members.
type MergeField struct {
	MergeID  int    `json:"merge_id"`
	Tag      string `json:"tag"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// MergeFieldsResponse is the merge field collection of a list.
type MergeFieldsResponse struct {
	ListID      string       `json:"list_id"`
	MergeFields []MergeField `json:"merge_fields"`
	TotalItems  int          `json:"total_items"`
}

// InterestCategory groups interests of a list.
type InterestCategory struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// InterestCategoriesResponse is the interest category collection of a list.
type InterestCategoriesResponse struct {
	ListID     string             `json:"list_id"`
	Categories []InterestCategory `json:"categories"`
	TotalItems int                `json:"total_items"`
}

// Interest is one option of an interest category.
type Interest struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

// InterestsResponse is the option collection of an interest category.
type InterestsResponse struct {
	Interests  []Interest `json:"interests"`
	TotalItems int        `json:"total_items"`
}

func memberPath(listID, email string) string {
	return "lists/" + listID + "/members/" + domain.MemberHash(email)
}

// Member returns one member of a list by email.
func (c *Client) Member(ctx context.Context, listID, email string) (*domain.ListMember, error) {
	var m domain.ListMember
	if err := c.get(ctx, memberPath(listID, email), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Members returns the first page of a list's members.
func (c *Client) Members(ctx context.Context, listID string) (*MembersResponse, error) {
	var resp MembersResponse
	if err := c.get(ctx, "lists/"+listID+"/members", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Subscribe adds a new member. Members not opted in are created pending.
func (c *Client) Subscribe(ctx context.Context, listID, email string, subscribed bool, mergeFields map[string]any, interests map[string]bool) (*domain.ListMember, error) {
	status := domain.MemberPending
	if subscribed {
		status = domain.MemberSubscribed
	}
	member := &domain.ListMember{
		EmailAddress: email,
		EmailType:    "html",
		Status:       status,
		MergeFields:  mergeFields,
		Interests:    interests,
	}
	var out domain.ListMember
	if err := c.post(ctx, "lists/"+listID+"/members", member, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes an existing member's status. A nil flag marks the member cleaned.
func (c *Client) Update(ctx context.Context, listID, email string, subscribed *bool, mergeFields map[string]any, interests map[string]bool) (*domain.ListMember, error) {
	member := &domain.ListMember{
		EmailAddress: email,
		Status:       domain.MemberStatus(subscribed),
		MergeFields:  mergeFields,
		Interests:    interests,
	}
	var out domain.ListMember
	if err := c.patch(ctx, memberPath(listID, email), member, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrCreate upserts member by its hash. member itself is not modified.
func (c *Client) UpdateOrCreate(ctx context.Context, listID string, in *domain.ListMember) (*domain.ListMember, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: nil member", domain.ErrInvalidInput)
	}
	member := *in
	if member.StatusIfNew == "" {
		member.StatusIfNew = domain.MemberPending
		if member.Status == domain.MemberSubscribed {
			member.StatusIfNew = domain.MemberSubscribed
		}
	}
	if err := c.validate(domain.ResourceMembers, member.EntityID(), &member); err != nil {
		return nil, err
	}
	var out domain.ListMember
	if err := c.put(ctx, memberPath(listID, member.EmailAddress), &member, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateList creates a new list.
func (c *Client) CreateList(ctx context.Context, list *List) (*List, error) {
	var out List
	if err := c.post(ctx, "lists", list, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLists returns up to count lists. A non-positive count means 50.
func (c *Client) GetLists(ctx context.Context, count int) (*ListsResponse, error) {
	if count <= 0 {
		count = 50
	}
	var resp ListsResponse
	if err := c.get(ctx, "lists", url.Values{"count": {strconv.Itoa(count)}}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListNames returns list names keyed by list ID.
func (c *Client) ListNames(ctx context.Context) (map[string]string, error) {
	resp, err := c.GetLists(ctx, 0)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(resp.Lists))
	for _, l := range resp.Lists {
		names[l.ID] = l.Name
	}
	return names, nil
}

// HasList reports whether a list exists. Any failure yields false.
func (c *Client) HasList(ctx context.Context, id string) bool {
	list, err := c.GetList(ctx, id)
	return err == nil && list != nil && list.ID != ""
}

// GetList returns one list.
func (c *Client) GetList(ctx context.Context, id string) (*List, error) {
	if id == "" {
		return nil, errEmptyID
	}
	var l List
	if err := c.get(ctx, "lists/"+id, nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteList removes a list.
func (c *Client) DeleteList(ctx context.Context, id string) error {
	if id == "" {
		return errEmptyID
	}
	return c.Request(ctx, http.MethodDelete, "lists/"+id, nil, nil, nil)
}

// MergeFields returns up to count merge fields of a list.
func (c *Client) MergeFields(ctx context.Context, listID string, count int) (*MergeFieldsResponse, error) {
	if count <= 0 {
		count = DefaultCount
	}
	var resp MergeFieldsResponse
	q := url.Values{"count": {strconv.Itoa(count)}}
	if err := c.get(ctx, "lists/"+listID+"/merge-fields", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListsWithMergeFields returns the merge fields of every list keyed by list ID.
func (c *Client) ListsWithMergeFields(ctx context.Context) (map[string]*MergeFieldsResponse, error) {
	names, err := c.ListNames(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*MergeFieldsResponse, len(names))
	for id := range names {
		fields, err := c.MergeFields(ctx, id, 50)
		if err != nil {
			return nil, err
		}
		out[id] = fields
	}
	return out, nil
}

// InterestGroups returns the interest categories of a list.
// An empty list ID yields an empty result without a request.
func (c *Client) InterestGroups(ctx context.Context, listID string) (*InterestCategoriesResponse, error) {
	if listID == "" {
		return &InterestCategoriesResponse{}, nil
	}
	var resp InterestCategoriesResponse
	if err := c.get(ctx, "lists/"+listID+"/interest-categories", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InterestGroupOptions returns the interests of one category.
// Empty identifiers yield an empty result without a request.
func (c *Client) InterestGroupOptions(ctx context.Context, listID, groupID string) (*InterestsResponse, error) {
	if listID == "" || groupID == "" {
		return &InterestsResponse{}, nil
	}
	var resp InterestsResponse
	path := "lists/" + listID + "/interest-categories/" + groupID + "/interests"
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
