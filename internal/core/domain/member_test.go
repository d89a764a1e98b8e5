package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberHash(t *testing.T) {
	// md5("test@example.com")
	const want = "55502f40dc8b7c769880b10874abc9d0"

	assert.Equal(t, want, MemberHash("test@example.com"))
	assert.Equal(t, want, MemberHash("Test@Example.COM"))
	assert.Equal(t, want, (&ListMember{EmailAddress: "TEST@example.com"}).EntityID())
}

func TestMemberStatus(t *testing.T) {
	yes, no := true, false

	assert.Equal(t, MemberCleaned, MemberStatus(nil))
	assert.Equal(t, MemberSubscribed, MemberStatus(&yes))
	assert.Equal(t, MemberUnsubscribed, MemberStatus(&no))

	assert.Equal(t, MemberSubscribed, MemberStatusIfNew(&yes))
	assert.Equal(t, MemberPending, MemberStatusIfNew(&no))
	assert.Equal(t, MemberPending, MemberStatusIfNew(nil))
}

func TestNewListMember(t *testing.T) {
	yes := true
	m := NewListMember("a@example.com", &yes, nil, map[string]bool{})

	assert.Equal(t, MemberSubscribed, m.Status)
	assert.Equal(t, MemberSubscribed, m.StatusIfNew)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "merge_fields")
	assert.NotContains(t, string(data), "interests")
}
