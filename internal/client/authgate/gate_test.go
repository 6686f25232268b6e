package authgate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/biblio/internal/client/session"
	"github.com/dmitrijs2005/biblio/internal/common"
)

func TestProject(t *testing.T) {
	tests := []struct {
		loading, authenticated bool
		want                   State
	}{
		{true, false, StateLoading},
		{true, true, StateLoading},
		{false, true, StateAuthenticated},
		{false, false, StateAnonymous},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Project(tt.loading, tt.authenticated))
	}

	assert.Equal(t, StateAuthenticated, ProjectSession(session.Session{Credential: "t", IsAuthenticated: true}))
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		state  State
		want   Decision
	}{
		{"protected loading", Protected, StateLoading, Decision{Action: Placeholder}},
		{"protected authenticated", Protected, StateAuthenticated, Decision{Action: Render}},
		{"protected anonymous", Protected, StateAnonymous, Decision{Action: Redirect, Target: common.AnonymousEntryRoute}},
		{"public loading", Public, StateLoading, Decision{Action: Placeholder}},
		{"public authenticated", Public, StateAuthenticated, Decision{Action: Redirect, Target: common.AuthenticatedHomeRoute}},
		{"public anonymous", Public, StateAnonymous, Decision{Action: Render}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.policy, tt.state)
			assert.Equal(t, tt.want, got)
			// same inputs, same output
			assert.Equal(t, got, Decide(tt.policy, tt.state))
		})
	}
}

func TestDecide_NeverRendersWrongAudience(t *testing.T) {
	for _, st := range []State{StateLoading, StateAuthenticated, StateAnonymous} {
		if Decide(Protected, st).Action == Render {
			assert.Equal(t, StateAuthenticated, st)
		}
		if Decide(Public, st).Action == Render {
			assert.Equal(t, StateAnonymous, st)
		}
	}
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "public", Public.String())
	assert.Equal(t, "protected", Protected.String())
	assert.Equal(t, "placeholder", Placeholder.String())
	assert.Equal(t, "unknown", Action(42).String())
}
