package views

import "strings"

type Route string

const (
	RouteRoot     Route = "/"
	RouteRegister Route = "/register"
	RouteLogin    Route = "/login"
	RouteProfile  Route = "/profile"
	RouteChat     Route = "/chat"
)

var routes = map[Route]struct {
	needsUser bool
	header    bool
}{
	RouteRegister: {needsUser: false, header: false},
	RouteLogin:    {needsUser: false, header: false},
	RouteProfile:  {needsUser: true, header: true},
	RouteChat:     {needsUser: true, header: true},
}

// Router maps paths to screens and remembers the current one.
type Router struct {
	current Route
}

func NewRouter() *Router {
	return &Router{}
}

func (r *Router) Current() Route {
	return r.current
}

// Resolve returns the route a path lands on. The root path always redirects
// to the login screen, and so do screens that need a signed-in user when
// nobody is signed in.
func Resolve(path string, authenticated bool) (Route, error) {
	p := Route(strings.TrimRight(strings.TrimSpace(path), "/"))
	if p == "" {
		p = RouteRoot
	}
	if p == RouteRoot {
		return RouteLogin, nil
	}
	def, ok := routes[p]
	if !ok {
		return "", ErrUnknownRoute
	}
	if def.needsUser && !authenticated {
		return RouteLogin, nil
	}
	return p, nil
}

// Navigate resolves path and makes the result current. It returns the route
// that was left so the caller can unmount it.
func (r *Router) Navigate(path string, authenticated bool) (from, to Route, err error) {
	to, err = Resolve(path, authenticated)
	if err != nil {
		return r.current, r.current, err
	}
	from = r.current
	r.current = to
	return from, to, nil
}

// ShowHeader reports whether the header bar is drawn on route. It is hidden
// only on the login and registration screens.
func ShowHeader(route Route) bool {
	def, ok := routes[route]
	if !ok {
		return true
	}
	return def.header
}
