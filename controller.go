package guardweb

import (
	"context"
	"sync"

	internalevent "github.com/GFG374/sdn-traffic-guard-web/internal/event"
)

// Controller is the top-level navigation state: the current route, guarded
// transitions, and the subscription that moves the application to the login
// route when the session is torn down. It exists so the session store never
// navigates on its own: invalidation is an event, and this is its consumer.
type Controller struct {
	guard *Guard
	table *RouteTable

	mu      sync.Mutex
	current Route
}

// NewController creates a controller positioned on the table's home route
// (the guard decides where the first navigation actually lands).
func NewController(guard *Guard, table *RouteTable) *Controller {
	return &Controller{
		guard:   guard,
		table:   table,
		current: table.Home(),
	}
}

// Current returns the route the application is on.
func (c *Controller) Current() Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Navigate resolves path and applies the guard's verdict, returning the
// route actually landed on.
func (c *Controller) Navigate(path string) (Decision, error) {
	decision, err := c.guard.DecidePath(path)
	if err != nil {
		return Decision{}, err
	}
	c.mu.Lock()
	c.current = decision.Target
	c.mu.Unlock()
	return decision, nil
}

// HandleEvent reacts to a single session event: logout and invalidation land
// on the login route. Other events leave navigation alone.
func (c *Controller) HandleEvent(ev Event) {
	switch ev.Type {
	case internalevent.TypeLogout, internalevent.TypeSessionInvalidated:
		c.mu.Lock()
		c.current = c.table.Login()
		c.mu.Unlock()
	}
}

// Run drains events until the channel closes or ctx is done. Wire it to a
// [ChannelSink] registered on the session's builder.
func (c *Controller) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.HandleEvent(ev)
		case <-ctx.Done():
			return
		}
	}
}
