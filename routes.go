package guardweb

// Access declares who may enter a route.
type Access uint8

const (
	// AccessNone marks a public route; the guard always proceeds.
	AccessNone Access = iota
	// AccessAuth marks a route reachable only with an authenticated session.
	AccessAuth
	// AccessGuest marks a route reachable only without one (login, password
	// recovery).
	AccessGuest
)

// Route is a static route descriptor. The table is defined once at startup
// and immutable for the process lifetime.
type Route struct {
	Path      string
	Name      string
	Component string
	Access    Access
	// RedirectTo aliases this path to another route's path; the table
	// resolves it before the guard ever sees the route.
	RedirectTo string
}

// RouteTable holds the dashboard's route descriptors plus the two routes the
// guard redirects to.
type RouteTable struct {
	routes    []Route
	byPath    map[string]Route
	loginName string
	homeName  string
}

// NewRouteTable builds a table from routes. loginName and homeName select
// the redirect targets for rejected navigations; both must exist in routes.
func NewRouteTable(routes []Route, loginName, homeName string) (*RouteTable, error) {
	t := &RouteTable{
		routes:    make([]Route, len(routes)),
		byPath:    make(map[string]Route, len(routes)),
		loginName: loginName,
		homeName:  homeName,
	}
	copy(t.routes, routes)
	for _, r := range t.routes {
		t.byPath[r.Path] = r
	}
	if _, err := t.ByName(loginName); err != nil {
		return nil, err
	}
	if _, err := t.ByName(homeName); err != nil {
		return nil, err
	}
	return t, nil
}

// Routes returns a copy of the table's descriptors.
func (t *RouteTable) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Resolve looks up a path, following at most one redirect alias.
func (t *RouteTable) Resolve(path string) (Route, error) {
	r, ok := t.byPath[path]
	if !ok {
		return Route{}, ErrRouteNotFound
	}
	if r.RedirectTo != "" {
		target, ok := t.byPath[r.RedirectTo]
		if !ok {
			return Route{}, ErrRouteNotFound
		}
		return target, nil
	}
	return r, nil
}

// ByName looks up a route by its declared name.
func (t *RouteTable) ByName(name string) (Route, error) {
	for _, r := range t.routes {
		if r.Name == name {
			return r, nil
		}
	}
	return Route{}, ErrRouteNotFound
}

// Login returns the route unauthenticated sessions are redirected to.
func (t *RouteTable) Login() Route {
	r, _ := t.ByName(t.loginName)
	return r
}

// Home returns the route authenticated sessions are redirected to when they
// hit a guest-only route.
func (t *RouteTable) Home() Route {
	r, _ := t.ByName(t.homeName)
	return r
}

// DefaultRouteTable mirrors the dashboard's route declarations: password
// recovery and login are guest-only, every operational view requires an
// authenticated session, and the bare root aliases the dashboard.
func DefaultRouteTable() *RouteTable {
	t, err := NewRouteTable([]Route{
		{Path: "/login", Name: "Login", Component: "Login", Access: AccessGuest},
		{Path: "/forgot-password", Name: "ForgotPassword", Component: "ForgotPassword", Access: AccessGuest},
		{Path: "/reset-password", Name: "ResetPassword", Component: "ResetPassword", Access: AccessGuest},
		{Path: "/change-password", Name: "ChangePassword", Component: "ChangePassword", Access: AccessAuth},
		{Path: "/account-details", Name: "AccountDetails", Component: "AccountDetails", Access: AccessAuth},
		{Path: "/dashboard", Name: "Dashboard", Component: "Dashboard/Dashboard", Access: AccessAuth},
		{Path: "/analysis", Name: "Analysis", Component: "Analysis/Analysis", Access: AccessAuth},
		{Path: "/blacklist", Name: "Blacklist", Component: "Blacklist/Blacklist", Access: AccessAuth},
		{Path: "/links", Name: "Links", Component: "Links/Links", Access: AccessAuth},
		{Path: "/sdn-topology", Name: "SDNTopology", Component: "SDN/SDNTopology", Access: AccessAuth},
		{Path: "/sdn-chat", Name: "SDNChat", Component: "SDNChat/SDNChat", Access: AccessAuth},
		{Path: "/", Name: "Root", RedirectTo: "/dashboard"},
	}, "Login", "Dashboard")
	if err != nil {
		// The static table above always contains both redirect targets.
		panic(err)
	}
	return t
}
