// Package permission decides whether a role may perform an action on a
// collection. The capability table is fixed at construction time.
package permission

import (
	"net/http"
	"slices"
	"strings"

	"go-collection-api/internal/model"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Table maps a role name to the actions it may perform.
type Table map[string][]Action

// DefaultTable is the built-in role ladder.
func DefaultTable() Table {
	return Table{
		model.RoleUser:   {ActionRead},
		model.RoleWriter: {ActionRead, ActionCreate},
		model.RoleEditor: {ActionRead, ActionCreate, ActionUpdate},
		model.RoleAdmin:  {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
	}
}

type Engine struct {
	grants map[string]map[Action]struct{}
}

// NewEngine copies table so later mutation of the argument has no effect.
func NewEngine(table Table) *Engine {
	grants := make(map[string]map[Action]struct{}, len(table))
	for role, actions := range table {
		set := make(map[Action]struct{}, len(actions))
		for _, action := range actions {
			set[action] = struct{}{}
		}
		grants[normalizeRole(role)] = set
	}

	return &Engine{grants: grants}
}

// Authorize reports whether role may perform action. The collection is
// accepted for call-site symmetry; every collection shares one table.
func (e *Engine) Authorize(role string, action Action, collection string) bool {
	_ = collection

	set, ok := e.grants[normalizeRole(role)]
	if !ok {
		return false
	}

	_, allowed := set[action]
	return allowed
}

func (e *Engine) HasRole(role string) bool {
	_, ok := e.grants[normalizeRole(role)]
	return ok
}

// Capabilities returns the sorted action names granted to role.
func (e *Engine) Capabilities(role string) []string {
	set := e.grants[normalizeRole(role)]
	out := make([]string, 0, len(set))
	for action := range set {
		out = append(out, string(action))
	}
	slices.Sort(out)

	return out
}

// ActionForMethod maps an HTTP method onto the capability it needs.
func ActionForMethod(method string) (Action, bool) {
	switch method {
	case http.MethodPost:
		return ActionCreate, true
	case http.MethodGet, http.MethodHead:
		return ActionRead, true
	case http.MethodPut, http.MethodPatch:
		return ActionUpdate, true
	case http.MethodDelete:
		return ActionDelete, true
	default:
		return "", false
	}
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
