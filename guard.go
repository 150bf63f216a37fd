package guardweb

// AuthState is the read surface the guard needs from the session. *Session
// satisfies it; tests substitute fixed states.
type AuthState interface {
	IsAuthenticated() bool
}

// GuardAction is the outcome of a guard decision.
type GuardAction uint8

const (
	// ActionProceed lets the navigation through unchanged.
	ActionProceed GuardAction = iota
	// ActionRedirectLogin sends the navigation to the login route.
	ActionRedirectLogin
	// ActionRedirectHome sends the navigation to the home route.
	ActionRedirectHome
)

// Decision is a guard verdict: the action taken and the route to render.
// Target equals the requested route for ActionProceed and the redirect
// route otherwise.
type Decision struct {
	Action GuardAction
	Target Route
}

// Guard enforces route access before every navigation. It is stateless
// between decisions: each verdict reads only the target route's access
// requirement and the session's authentication flag, synchronously, and
// resolves to exactly one of the three actions.
type Guard struct {
	table   *RouteTable
	state   AuthState
	metrics *Metrics
}

// NewGuard creates a guard over table reading authentication from state.
func NewGuard(table *RouteTable, state AuthState) *Guard {
	return &Guard{table: table, state: state}
}

// WithMetrics attaches a counter set to the guard and returns it.
func (g *Guard) WithMetrics(m *Metrics) *Guard {
	g.metrics = m
	return g
}

// Decide evaluates the transition rule in order: an auth-only route without
// a session redirects to login; a guest-only route with one redirects home;
// anything else proceeds.
func (g *Guard) Decide(target Route) Decision {
	authenticated := g.state.IsAuthenticated()

	switch {
	case target.Access == AccessAuth && !authenticated:
		g.metricInc(MetricGuardRedirectLogin)
		return Decision{Action: ActionRedirectLogin, Target: g.table.Login()}
	case target.Access == AccessGuest && authenticated:
		g.metricInc(MetricGuardRedirectHome)
		return Decision{Action: ActionRedirectHome, Target: g.table.Home()}
	default:
		g.metricInc(MetricGuardAllow)
		return Decision{Action: ActionProceed, Target: target}
	}
}

// DecidePath resolves path through the table (following redirect aliases)
// and decides on the result.
func (g *Guard) DecidePath(path string) (Decision, error) {
	route, err := g.table.Resolve(path)
	if err != nil {
		return Decision{}, err
	}
	return g.Decide(route), nil
}

func (g *Guard) metricInc(id MetricID) {
	if g.metrics != nil {
		g.metrics.Inc(id)
	}
}
