package auth

import "strings"

// PathPermission maps a request path pattern to the roles allowed through it.
// A pattern ending in '*' matches any path with the literal prefix before the
// star; all other patterns match exactly. The shipped table always includes a
// trailing slash before the star, so "/admin/*" does not capture "/admins/x".
type PathPermission struct {
	Path            string
	Access          []string
	RequireVerified bool
	// RequireApproved gates organization callers on approval status. Set on
	// rules where organization access is the operative grant; shared-access
	// rules (communities, chats) stay open to pending organizations.
	RequireApproved bool
	Description     string
}

// DefaultPermissions returns the platform's static permission table.
func DefaultPermissions() []PathPermission {
	return []PathPermission{
		{Path: "/auth/login", Access: []string{AccessPublic}, Description: "User login"},
		{Path: "/auth/register", Access: []string{AccessPublic}, Description: "User registration"},
		{Path: "/auth/refresh", Access: []string{AccessPublic}, Description: "Token refresh"},
		{Path: "/admin/*", Access: []string{UserTypeAdmin}, RequireVerified: true, Description: "Admin panel access"},
		{Path: "/players", Access: []string{UserTypeAdmin, UserTypePlayer}, RequireVerified: true, Description: "Player list access"},
		{Path: "/players/me", Access: []string{UserTypePlayer}, RequireVerified: true, Description: "Player profile access"},
		{Path: "/players/*", Access: []string{UserTypeAdmin, UserTypePlayer}, RequireVerified: true, Description: "Player management"},
		{Path: "/organizations/*", Access: []string{UserTypeAdmin, UserTypeOrganization}, RequireVerified: true, RequireApproved: true, Description: "Organization management"},
		{Path: "/tournaments/*", Access: []string{UserTypeAdmin, UserTypePlayer, UserTypeOrganization}, RequireVerified: true, Description: "Tournament access"},
		{Path: "/chats/*", Access: []string{UserTypeAdmin, UserTypePlayer, UserTypeOrganization}, RequireVerified: true, Description: "Chat system"},
		{Path: "/communities/*", Access: []string{UserTypeAdmin, UserTypePlayer, UserTypeOrganization}, Description: "Community features"},
		{Path: "/uploads/*", Access: []string{UserTypeAdmin, UserTypePlayer, UserTypeOrganization}, RequireVerified: true, Description: "File uploads"},
	}
}

// PermissionResolver matches request paths against an immutable rule table.
// The table is built once at startup and is safe for unsynchronized
// concurrent reads.
type PermissionResolver struct {
	rules []PathPermission
}

// NewPermissionResolver copies the rule list so later mutation of the input
// slice cannot affect resolution.
func NewPermissionResolver(rules []PathPermission) *PermissionResolver {
	copied := make([]PathPermission, len(rules))
	copy(copied, rules)
	return &PermissionResolver{rules: copied}
}

// Resolve returns the best-matching rule for path, longest pattern string
// winning among all matches. No match means the path is implicitly forbidden.
func (r *PermissionResolver) Resolve(path string) (PathPermission, bool) {
	var best PathPermission
	found := false
	for _, rule := range r.rules {
		if !pathMatches(path, rule.Path) {
			continue
		}
		if !found || len(rule.Path) > len(best.Path) {
			best = rule
			found = true
		}
	}
	return best, found
}

// IsPublic reports whether the resolved rule for path carries the public
// sentinel. Unmatched paths are not public.
func (r *PermissionResolver) IsPublic(path string) bool {
	rule, ok := r.Resolve(path)
	return ok && ruleAllows(rule, AccessPublic)
}

// Authorize enforces the resolved rule against the caller's claims. A nil
// claims value represents an anonymous request and passes only public rules.
func (r *PermissionResolver) Authorize(path string, claims *Claims) error {
	rule, ok := r.Resolve(path)
	if !ok {
		return ErrForbidden
	}
	if ruleAllows(rule, AccessPublic) {
		return nil
	}
	if claims == nil {
		return ErrUnauthorized
	}
	if !ruleAllows(rule, claims.UserType) {
		return ErrForbidden
	}
	if rule.RequireVerified && !claims.Verified {
		return ErrForbidden
	}
	// Organizations authenticate while pending but cannot act on
	// organization-gated resources until approved.
	if rule.RequireApproved && claims.UserType == UserTypeOrganization && claims.ApprovalStatus != ApprovalApproved {
		return ErrForbidden
	}
	return nil
}

func ruleAllows(rule PathPermission, role string) bool {
	for _, a := range rule.Access {
		if a == role {
			return true
		}
	}
	return false
}

func pathMatches(requestPath, pattern string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(requestPath, pattern[:len(pattern)-1])
	}
	return requestPath == pattern
}
