package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appctx "stationdesk/internal/core/context"
)

// Access levels a route can demand.
type Access int

const (
	AccessRead Access = iota
	AccessCreate
	AccessWrite
)

// Policy maps a resource and access level to the roles allowed to use it.
// Clerks read and create daily entries; managers do everything except owners;
// owners do everything.
type Policy struct {
	// ClerkCreates lists resources clerks may read and create.
	ClerkCreates map[string]bool
	// ClerkReads lists extra resources clerks may read.
	ClerkReads map[string]bool
	// OwnerOnly lists resources restricted to owners.
	OwnerOnly map[string]bool
}

// DefaultPolicy is the station role policy.
func DefaultPolicy() Policy {
	return Policy{
		ClerkCreates: map[string]bool{
			"daily_sales": true,
			"daily_fuel":  true,
			"safedrops":   true,
			"atm_records": true,
		},
		ClerkReads: map[string]bool{
			"trends": true,
		},
		OwnerOnly: map[string]bool{
			"owners": true,
		},
	}
}

// Roles returns the roles allowed to access resource at the given level.
func (p Policy) Roles(resource string, access Access) []string {
	if p.OwnerOnly[resource] {
		return []string{appctx.RoleOwner}
	}
	clerk := p.ClerkCreates[resource]
	if access == AccessRead {
		clerk = clerk || p.ClerkReads[resource]
	}
	if clerk && access != AccessWrite {
		return []string{appctx.RoleClerk, appctx.RoleManager, appctx.RoleOwner}
	}
	return []string{appctx.RoleManager, appctx.RoleOwner}
}

// Require returns RequireRole for resource at the given level.
func (p Policy) Require(resource string, access Access) gin.HandlerFunc {
	return RequireRole(p.Roles(resource, access)...)
}

// AccessFor classifies an HTTP method.
func AccessFor(method string) Access {
	switch method {
	case http.MethodGet, http.MethodHead:
		return AccessRead
	case http.MethodPost:
		return AccessCreate
	default:
		return AccessWrite
	}
}
