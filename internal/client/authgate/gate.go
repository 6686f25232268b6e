package authgate

import (
	"github.com/dmitrijs2005/biblio/internal/client/session"
	"github.com/dmitrijs2005/biblio/internal/common"
)

// State is the gate's view of the session.
type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Project derives the gate state. Loading wins over everything else.
func Project(loading, authenticated bool) State {
	switch {
	case loading:
		return StateLoading
	case authenticated:
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

// ProjectSession is Project applied to a session snapshot.
func ProjectSession(s session.Session) State {
	return Project(s.Loading, s.IsAuthenticated)
}

// Policy is attached to each route.
type Policy int

const (
	// Protected routes render only for authenticated users.
	Protected Policy = iota
	// Public routes render only for anonymous users.
	Public
)

func (p Policy) String() string {
	if p == Public {
		return "public"
	}
	return "protected"
}

type Action int

const (
	Render Action = iota
	Redirect
	Placeholder
)

func (a Action) String() string {
	switch a {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case Placeholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Decide. Target is set only for Redirect.
type Decision struct {
	Action Action
	Target string
}

// Decide is the gate's transition table.
func Decide(p Policy, s State) Decision {
	if s == StateLoading {
		return Decision{Action: Placeholder}
	}
	switch p {
	case Public:
		if s == StateAuthenticated {
			return Decision{Action: Redirect, Target: common.AuthenticatedHomeRoute}
		}
	default:
		if s == StateAnonymous {
			return Decision{Action: Redirect, Target: common.AnonymousEntryRoute}
		}
	}
	return Decision{Action: Render}
}
