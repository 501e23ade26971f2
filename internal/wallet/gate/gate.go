// Package gate decides whether the unlock prompt must be shown for a route.
package gate

import (
	"strings"

	"github.com/selendra/did-wallet/internal/config"
)

const (
	RouteCreateWallet = "/createWallet"
	RouteProfile      = "/profile"
)

// Input is everything the gate looks at.
type Input struct {
	CheckingAuth bool
	VaultExists  bool
	Unlocked     bool
	// HasAddresses is true when an EVM or native address is remembered even though the vault is gone.
	HasAddresses bool
	Route        string
}

type Decision struct {
	Prompt bool `json:"prompt"`
	// Redirect is set when the route cannot be served without a wallet.
	Redirect string `json:"redirect,omitempty"`
	// Wait means the persisted state has not been read yet.
	Wait bool `json:"wait"`
}

// Gate holds the routing policy. Public routes stay usable without unlocking:
// wallet creation and viewing someone else's profile.
type Gate struct {
	createWalletRoute string
	publicRoutes      map[string]struct{}
}

var defaultGate = New(config.Session{})

// New builds a gate from the session config, falling back to
// RouteCreateWallet and RouteProfile for unset values.
func New(cfg config.Session) *Gate {
	g := &Gate{
		createWalletRoute: NormalizeRoute(cfg.CreateWalletRoute),
		publicRoutes:      make(map[string]struct{}),
	}

	if cfg.CreateWalletRoute == "" {
		g.createWalletRoute = RouteCreateWallet
	}

	routes := cfg.PublicRoutes
	if len(routes) == 0 {
		routes = []string{RouteCreateWallet, RouteProfile}
	}
	for _, route := range routes {
		g.publicRoutes[NormalizeRoute(route)] = struct{}{}
	}
	g.publicRoutes[g.createWalletRoute] = struct{}{}

	return g
}

// ShouldPrompt is true iff a vault exists, the session is locked and route is not public.
func (g *Gate) ShouldPrompt(vaultExists bool, unlocked bool, route string) bool {
	return vaultExists && !unlocked && !g.IsPublicRoute(route)
}

func (g *Gate) Decide(in Input) Decision {
	if in.CheckingAuth {
		return Decision{Wait: true}
	}

	if !in.VaultExists && !in.HasAddresses && !g.IsPublicRoute(in.Route) {
		return Decision{Redirect: g.createWalletRoute}
	}

	return Decision{Prompt: g.ShouldPrompt(in.VaultExists, in.Unlocked, in.Route)}
}

func (g *Gate) IsPublicRoute(route string) bool {
	_, ok := g.publicRoutes[NormalizeRoute(route)]
	return ok
}

// ShouldPrompt applies the default routing policy.
func ShouldPrompt(vaultExists bool, unlocked bool, route string) bool {
	return defaultGate.ShouldPrompt(vaultExists, unlocked, route)
}

// Decide applies the default routing policy.
func Decide(in Input) Decision {
	return defaultGate.Decide(in)
}

// NormalizeRoute drops query, fragment and trailing slashes. "" becomes "/".
func NormalizeRoute(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}

	route = strings.TrimSpace(route)
	route = strings.TrimRight(route, "/")
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}

	return route
}
