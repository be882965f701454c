// Package permissions holds the route access table: which endpoints are public and which roles
// may call the rest.
package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var tableData []byte

// Rule is keyed by the chi route pattern, not the request path.
type Rule struct {
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Roles  []string `json:"roles"`
	Public bool     `json:"public"`
}

// Allows reports whether role may call the endpoint. A rule without roles admits any signed-in user.
func (r Rule) Allows(role string) bool {
	return len(r.Roles) == 0 || slices.Contains(r.Roles, role)
}

type Table struct {
	Rules []Rule `json:"endpoints"`
	// DisableRoles turns off role checks, authentication still applies.
	DisableRoles bool `json:"disable_roles"`

	index map[string]Rule
}

// key ignores a trailing slash, chi resolves "/v1/users" and "/v1/users/" to distinct patterns.
func key(method, path string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return method + " " + path
}

// Lookup returns the rule for a route, or the zero Rule when the route is not listed. A trailing
// slash on path is not significant.
func (t *Table) Lookup(method, path string) Rule {
	return t.index[key(method, path)]
}

// Parse decodes a table and rejects duplicate routes.
func Parse(data []byte) (*Table, error) {
	var table Table

	if err := json.Unmarshal(data, &table); err != nil {
		return nil, errors.Wrap(err, "decode permissions")
	}

	table.index = make(map[string]Rule, len(table.Rules))

	for _, rule := range table.Rules {
		k := key(rule.Method, rule.Path)
		if _, ok := table.index[k]; ok {
			return nil, errors.Errorf("duplicate permission rule %s", k)
		}

		table.index[k] = rule
	}

	return &table, nil
}

// Get loads the embedded table. A broken table yields nil, which the middleware treats as deny all.
func Get() *Table {
	table, err := Parse(tableData)
	if err != nil {
		log.Err(err).Msg("Failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(table.Rules)).Msg("Successfully loaded embedded permissions")

	return table
}
