package gate_test

import (
	"fmt"
	"testing"

	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/wallet/gate"
	"github.com/stretchr/testify/assert"
)

func TestShouldPromptExhaustive(t *testing.T) {
	routes := []string{"/", "/createWallet", "/profile", "/organizations", "/credentials/did:sel:1"}

	for _, vaultExists := range []bool{false, true} {
		for _, unlocked := range []bool{false, true} {
			for _, route := range routes {
				public := route == "/createWallet" || route == "/profile"
				want := vaultExists && !unlocked && !public

				t.Run(fmt.Sprintf("vault=%v/unlocked=%v%s", vaultExists, unlocked, route), func(t *testing.T) {
					assert.Equal(t, want, gate.ShouldPrompt(vaultExists, unlocked, route))
				})
			}
		}
	}
}

func TestNormalizeRoute(t *testing.T) {
	tests := map[string]string{
		"":                        "/",
		"/":                       "/",
		"/profile/":               "/profile",
		"/profile?address=0xabc":  "/profile",
		"profile":                 "/profile",
		"/createWallet#step-2":    "/createWallet",
		"/organizations/did:sel:": "/organizations/did:sel:",
	}

	for in, want := range tests {
		assert.Equal(t, want, gate.NormalizeRoute(in), in)
	}

	assert.True(t, gate.ShouldPrompt(true, false, "/createWallet/x"))
	assert.False(t, gate.ShouldPrompt(true, false, "/profile/?address=0x1"))
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		in   gate.Input
		want gate.Decision
	}{
		{
			name: "checking auth waits",
			in:   gate.Input{CheckingAuth: true, VaultExists: true, Route: "/"},
			want: gate.Decision{Wait: true},
		},
		{
			name: "no wallet redirects",
			in:   gate.Input{Route: "/organizations"},
			want: gate.Decision{Redirect: gate.RouteCreateWallet},
		},
		{
			name: "no wallet on create page",
			in:   gate.Input{Route: "/createWallet"},
			want: gate.Decision{},
		},
		{
			name: "no wallet on profile",
			in:   gate.Input{Route: "/profile"},
			want: gate.Decision{},
		},
		{
			name: "remembered address without vault",
			in:   gate.Input{HasAddresses: true, Route: "/"},
			want: gate.Decision{},
		},
		{
			name: "locked vault prompts",
			in:   gate.Input{VaultExists: true, Route: "/organizations"},
			want: gate.Decision{Prompt: true},
		},
		{
			name: "locked vault on profile",
			in:   gate.Input{VaultExists: true, Route: "/profile"},
			want: gate.Decision{},
		},
		{
			name: "unlocked",
			in:   gate.Input{VaultExists: true, Unlocked: true, Route: "/"},
			want: gate.Decision{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.Decide(tt.in))
		})
	}
}

func TestCustomRoutes(t *testing.T) {
	g := gate.New(config.Session{
		CreateWalletRoute: "/onboarding/",
		PublicRoutes:      []string{"/about"},
	})

	assert.False(t, g.ShouldPrompt(true, false, "/about"))
	assert.False(t, g.ShouldPrompt(true, false, "/onboarding"))
	assert.True(t, g.ShouldPrompt(true, false, "/profile"))

	assert.Equal(t, gate.Decision{Redirect: "/onboarding"}, g.Decide(gate.Input{Route: "/profile"}))
	assert.Equal(t, gate.Decision{}, g.Decide(gate.Input{Route: "/about"}))
}
