// Package policy decides whether an authenticated caller may perform an
// operation. Rules are small functions over the caller identity and the
// route parameters; Evaluate runs them in order and stops at the first
// denial.
package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/flatfinder/internal/common"
)

// Identity is the verified caller attached to a request.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == common.RoleAdmin
}

// Decision is the outcome of a rule. Reason is nil when Allowed is set and
// wraps common.ErrorUnauthorized, common.ErrorForbidden or
// common.ErrorNotFound otherwise.
type Decision struct {
	Allowed bool
	Reason  error
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason error) Decision {
	return Decision{Reason: reason}
}

// Request is what a rule sees: the caller, if any, and the named route
// parameters.
type Request struct {
	Identity *Identity
	Params   map[string]string
}

type Rule func(ctx context.Context, req Request) Decision

// FlatOwnerLookup resolves the owner of a flat. It returns
// common.ErrorNotFound for unknown flats.
type FlatOwnerLookup interface {
	FlatOwner(ctx context.Context, flatID string) (string, error)
}

// Evaluate applies rules in order. An empty rule set allows.
func Evaluate(ctx context.Context, req Request, rules ...Rule) Decision {
	for _, r := range rules {
		if d := r(ctx, req); !d.Allowed {
			return d
		}
	}
	return Allow()
}

// Authenticated requires a caller identity.
func Authenticated() Rule {
	return func(_ context.Context, req Request) Decision {
		if req.Identity == nil || req.Identity.UserID == "" {
			return Deny(common.ErrorUnauthorized)
		}
		return Allow()
	}
}

func AdminOnly() Rule {
	return func(_ context.Context, req Request) Decision {
		if req.Identity == nil {
			return Deny(common.ErrorUnauthorized)
		}
		if !req.Identity.IsAdmin() {
			return Deny(common.NewError(common.ErrorForbidden, "admin access required"))
		}
		return Allow()
	}
}

// AdminOrSelf allows admins and the user whose id is in param.
func AdminOrSelf(param string) Rule {
	return func(_ context.Context, req Request) Decision {
		if req.Identity == nil {
			return Deny(common.ErrorUnauthorized)
		}
		if !CanManageUser(req.Identity, req.Params[param]) {
			return Deny(common.NewError(common.ErrorForbidden, "not allowed to access this user"))
		}
		return Allow()
	}
}

// FlatOwnerOnly allows only the owner of the flat named by param. Unknown
// flats are reported as not found.
func FlatOwnerOnly(lookup FlatOwnerLookup, param string) Rule {
	return flatRule(lookup, param, false)
}

// AdminOrFlatOwner is FlatOwnerOnly that also lets admins through.
func AdminOrFlatOwner(lookup FlatOwnerLookup, param string) Rule {
	return flatRule(lookup, param, true)
}

func flatRule(lookup FlatOwnerLookup, param string, admins bool) Rule {
	return func(ctx context.Context, req Request) Decision {
		if req.Identity == nil {
			return Deny(common.ErrorUnauthorized)
		}
		owner, err := lookup.FlatOwner(ctx, req.Params[param])
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return Deny(common.NewError(common.ErrorNotFound, "flat not found"))
			}
			return Deny(fmt.Errorf("%w: %v", common.ErrorInternal, err))
		}
		if owner == req.Identity.UserID || (admins && req.Identity.IsAdmin()) {
			return Allow()
		}
		return Deny(common.NewError(common.ErrorForbidden, "only the flat owner may do this"))
	}
}

// MessageSenderOnly allows only the user whose id is in param, so a caller
// can only read their own messages.
func MessageSenderOnly(param string) Rule {
	return func(_ context.Context, req Request) Decision {
		if req.Identity == nil {
			return Deny(common.ErrorUnauthorized)
		}
		if req.Params[param] != req.Identity.UserID {
			return Deny(common.NewError(common.ErrorForbidden, "not allowed to read these messages"))
		}
		return Allow()
	}
}

// ConversationParty allows the flat owner, the sender named by
// senderParam and admins.
func ConversationParty(lookup FlatOwnerLookup, flatParam, senderParam string) Rule {
	return func(ctx context.Context, req Request) Decision {
		if req.Identity == nil {
			return Deny(common.ErrorUnauthorized)
		}
		if req.Identity.IsAdmin() || req.Params[senderParam] == req.Identity.UserID {
			return Allow()
		}
		return flatRule(lookup, flatParam, false)(ctx, req)
	}
}

// CanModifyFlat reports whether id may update or delete a flat owned by
// ownerID.
func CanModifyFlat(id *Identity, ownerID string) bool {
	return id != nil && (id.IsAdmin() || id.UserID == ownerID)
}

// CanManageUser reports whether id may read, update or delete userID.
func CanManageUser(id *Identity, userID string) bool {
	return id != nil && (id.IsAdmin() || (userID != "" && id.UserID == userID))
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by WithIdentity, or nil.
func IdentityFrom(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
