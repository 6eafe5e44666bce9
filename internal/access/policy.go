package access

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"paygate-console/internal/model"
	"paygate-console/internal/rbac"
)

type State int

const (
	Public State = iota
	AuthOnly
	PortalProtected
)

func (s State) String() string {
	switch s {
	case Public:
		return "public"
	case AuthOnly:
		return "auth-only"
	default:
		return "portal-protected"
	}
}

const (
	LoginPath          = "/login"
	UnauthorizedPath   = "/unauthorized"
	ChangePasswordPath = "/change-password"
)

// Portal is a UI surface reserved for one user type.
type Portal struct {
	Prefix      string
	UserType    string
	LandingPage string
}

type Policy struct {
	publicPaths    []string
	publicPrefixes []string
	authOnlyPaths  []string
	portals        []Portal
	routes         map[string]rbac.Requirement
	routeKeys      []string
	table          *rbac.Table
}

// Config describes the static access rules loaded at process start.
type Config struct {
	PublicPaths    []string
	PublicPrefixes []string
	AuthOnlyPaths  []string
	Portals        []Portal
	Routes         map[string]rbac.Requirement
}

func DefaultConfig() Config {
	return Config{
		PublicPaths:    []string{LoginPath, UnauthorizedPath, "/health", "/favicon.ico", "/robots.txt"},
		PublicPrefixes: []string{"/assets/", "/static/", "/_next/"},
		AuthOnlyPaths:  []string{ChangePasswordPath, "/logout", "/profile"},
		Portals: []Portal{
			{Prefix: "/admin", UserType: model.UserTypeAdmin, LandingPage: "/admin/dashboard"},
			{Prefix: "/merchant", UserType: model.UserTypeMerchant, LandingPage: "/merchant/dashboard"},
		},
		Routes: map[string]rbac.Requirement{
			"/admin/dashboard":        rbac.Any(rbac.PermissionDashboardRead),
			"/admin/merchants":        rbac.Any(rbac.PermissionMerchantsRead),
			"/admin/merchants/new":    rbac.Any(rbac.PermissionMerchantsWrite),
			"/admin/transactions":     rbac.Any(rbac.PermissionTransactionsRead),
			"/admin/disbursements":    rbac.Any(rbac.PermissionDisbursementsRead),
			"/admin/payment-gateways": rbac.Any(rbac.PermissionGatewaysRead),
			"/admin/roles":            rbac.Any(rbac.PermissionRolesRead),
			"/admin/logs":             rbac.Any(rbac.PermissionLogsRead),
			"/admin/users":            rbac.Any(rbac.PermissionUsersRead),
			"/admin/reports":          rbac.Any(rbac.PermissionTransactionsExport, rbac.PermissionDisbursementsExport),
			"/merchant/dashboard":     rbac.Any(rbac.PermissionDashboardRead),
			"/merchant/transactions":  rbac.Any(rbac.PermissionTransactionsRead),
			"/merchant/disbursements": rbac.Any(rbac.PermissionDisbursementsRead),
			"/merchant/developers":    rbac.All(rbac.PermissionMerchantsRead, rbac.PermissionMerchantsWrite),
		},
	}
}

func NewPolicy(cfg Config, table *rbac.Table) *Policy {
	p := &Policy{
		publicPaths:    cleanAll(cfg.PublicPaths),
		publicPrefixes: cfg.PublicPrefixes,
		authOnlyPaths:  cleanAll(cfg.AuthOnlyPaths),
		portals:        cfg.Portals,
		routes:         make(map[string]rbac.Requirement, len(cfg.Routes)),
		table:          table,
	}

	for path, req := range cfg.Routes {
		key := cleanPath(path)
		p.routes[key] = req
		p.routeKeys = append(p.routeKeys, key)
	}

	// Longest first so prefix fallback picks the most specific route.
	sort.Slice(p.routeKeys, func(i, j int) bool {
		if len(p.routeKeys[i]) != len(p.routeKeys[j]) {
			return len(p.routeKeys[i]) > len(p.routeKeys[j])
		}
		return p.routeKeys[i] < p.routeKeys[j]
	})

	return p
}

func (p *Policy) Classify(path string) State {
	path = cleanPath(path)

	for _, pub := range p.publicPaths {
		if path == pub {
			return Public
		}
	}
	for _, prefix := range p.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return Public
		}
	}
	for _, auth := range p.authOnlyPaths {
		if path == auth {
			return AuthOnly
		}
	}

	return PortalProtected
}

// PortalFor returns the portal whose prefix owns path.
func (p *Policy) PortalFor(path string) (Portal, bool) {
	path = cleanPath(path)
	for _, portal := range p.portals {
		if path == portal.Prefix || strings.HasPrefix(path, portal.Prefix+"/") {
			return portal, true
		}
	}
	return Portal{}, false
}

// LandingPage is the default page for a user type, or "" when the type owns
// no portal.
func (p *Policy) LandingPage(userType string) string {
	for _, portal := range p.portals {
		if portal.UserType == userType {
			return portal.LandingPage
		}
	}
	return ""
}

// Requirement finds the permission check for path after stripping dynamic
// segments, falling back to the longest configured prefix.
func (p *Policy) Requirement(path string) (rbac.Requirement, bool) {
	normalized := NormalizePath(path)

	if req, ok := p.routes[normalized]; ok {
		return req, true
	}

	for _, key := range p.routeKeys {
		if strings.HasPrefix(normalized, key+"/") {
			return p.routes[key], true
		}
	}

	return rbac.Requirement{}, false
}

type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

type Decision struct {
	Outcome  Outcome
	Location string
	State    State
	Reason   string
}

func allow(state State) Decision {
	return Decision{Outcome: Allow, State: state}
}

func redirect(state State, location string, reason string) Decision {
	return Decision{Outcome: Redirect, State: state, Location: location, Reason: reason}
}

// Decide applies the access rules to a request for path. A nil session means
// the cookie was absent or failed to decode.
func (p *Policy) Decide(path string, s *model.Session) Decision {
	path = cleanPath(path)
	state := p.Classify(path)

	switch state {
	case Public:
		if s != nil && path == LoginPath {
			return redirect(state, p.homeFor(s), "already authenticated")
		}
		return allow(state)

	case AuthOnly:
		if s == nil {
			return redirect(state, loginRedirect(path), "no session")
		}
		return allow(state)
	}

	if s == nil {
		return redirect(state, loginRedirect(path), "no session")
	}

	if path == "/" {
		return redirect(state, p.homeFor(s), "root")
	}

	userType := s.EffectiveUserType()
	home := p.LandingPage(userType)
	if home == "" {
		return redirect(state, UnauthorizedPath, "unknown user type")
	}

	if s.RequirePasswordChange {
		return redirect(state, ChangePasswordPath, "password change required")
	}

	portal, ok := p.PortalFor(path)
	if !ok {
		return redirect(state, home, "no portal")
	}

	if portal.UserType != userType {
		return redirect(state, home, "wrong portal")
	}

	if path == portal.Prefix {
		return redirect(state, portal.LandingPage, "portal root")
	}

	if req, ok := p.Requirement(path); ok && !p.table.Check(s.Roles, req) {
		return redirect(state, UnauthorizedPath, "missing permission")
	}

	return allow(state)
}

func (p *Policy) homeFor(s *model.Session) string {
	if home := p.LandingPage(s.EffectiveUserType()); home != "" {
		return home
	}
	return UnauthorizedPath
}

func loginRedirect(from string) string {
	if from == "" || from == "/" || from == LoginPath {
		return LoginPath
	}
	return LoginPath + "?from=" + url.QueryEscape(from)
}

var (
	uuidSegment    = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	numericSegment = regexp.MustCompile(`^[0-9]+$`)
	tokenSegment   = regexp.MustCompile(`^[A-Za-z0-9_-]{16,}$`)
)

// NormalizePath removes trailing dynamic segments (UUIDs, numeric ids and
// long mixed alphanumeric tokens) so /admin/merchants/<uid> maps to
// /admin/merchants.
func NormalizePath(path string) string {
	path = cleanPath(path)
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")

	end := len(segments)
	for end > 1 && isDynamicSegment(segments[end-1]) {
		end--
	}

	return "/" + strings.Join(segments[:end], "/")
}

func isDynamicSegment(seg string) bool {
	if seg == "" {
		return false
	}
	if uuidSegment.MatchString(seg) || numericSegment.MatchString(seg) {
		return true
	}
	if !tokenSegment.MatchString(seg) {
		return false
	}
	return strings.ContainsAny(seg, "0123456789") && strings.IndexFunc(seg, isLetter) >= 0
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func cleanPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

func cleanAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, cleanPath(p))
	}
	return out
}
