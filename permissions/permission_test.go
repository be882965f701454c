package permissions_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rento/permissions"
	"rento/shared/constant"
)

func TestGet_EmbeddedTable(t *testing.T) {
	table := permissions.Get()
	require.NotNil(t, table)

	assert.True(t, table.Lookup(http.MethodPost, "/v1/auth/login").Public)
	assert.True(t, table.Lookup(http.MethodGet, "/v1/items/{id}").Public)
	assert.False(t, table.Lookup(http.MethodPatch, "/v1/items/{id}").Public)

	for _, pattern := range []string{"/v1/users", "/v1/users/"} {
		listUsers := table.Lookup(http.MethodGet, pattern)
		assert.True(t, listUsers.Allows(constant.RoleAdmin), pattern)
		assert.False(t, listUsers.Allows(constant.RoleUser), pattern)
	}

	assert.True(t, table.Lookup(http.MethodGet, "/v1/items").Public)
	assert.True(t, table.Lookup(http.MethodGet, "/v1/items/").Public)
}

func TestLookup_IgnoresTrailingSlash(t *testing.T) {
	table, err := permissions.Parse([]byte(`{"endpoints":[
		{"path":"/v1/users/","method":"GET","roles":["admin"]},
		{"path":"/v1/items","method":"GET","public":true}
	]}`))
	require.NoError(t, err)

	assert.Equal(t, []string{constant.RoleAdmin}, table.Lookup(http.MethodGet, "/v1/users").Roles)
	assert.Equal(t, []string{constant.RoleAdmin}, table.Lookup(http.MethodGet, "/v1/users/").Roles)
	assert.True(t, table.Lookup(http.MethodGet, "/v1/items/").Public)
	assert.False(t, table.Lookup(http.MethodGet, "/").Public)

	_, err = permissions.Parse([]byte(`{"endpoints":[
		{"path":"/v1/items/","method":"GET","public":true},
		{"path":"/v1/items","method":"GET"}
	]}`))
	assert.ErrorContains(t, err, "duplicate permission rule GET /v1/items")
}

func TestRule_AllowsWithoutRoles(t *testing.T) {
	assert.True(t, permissions.Rule{}.Allows(constant.RoleUser))
	assert.True(t, permissions.Rule{}.Allows(""))
}

func TestParse(t *testing.T) {
	_, err := permissions.Parse([]byte(`{"endpoints":[
		{"path":"/v1/items/","method":"GET","public":true},
		{"path":"/v1/items/","method":"GET"}
	]}`))
	assert.ErrorContains(t, err, "duplicate permission rule GET /v1/items")

	_, err = permissions.Parse([]byte(`{"endpoints":`))
	assert.Error(t, err)

	table, err := permissions.Parse([]byte(`{"disable_roles":true,"endpoints":[]}`))
	require.NoError(t, err)
	assert.True(t, table.DisableRoles)
	assert.Equal(t, permissions.Rule{}, table.Lookup(http.MethodGet, "/v1/unknown"))
}
