// internal/identity/identity.go
//
// Current-user lookup the persistence coordinator queries at the start of
// each save/load. Absence of a user is never an error: it just means cloud
// sync is disabled for this session.

package identity

// User is the minimal identity the core needs.
type User struct {
	UID string
}

// Provider answers "who is playing right now". Implementations: a static
// value (tests, wiring), or a request-scoped lookup derived from auth
// middleware in the HTTP layer.
type Provider interface {
	// CurrentUser returns the signed-in user, or nil when anonymous.
	CurrentUser() *User
}

// Static is a fixed-identity Provider. A nil user means anonymous.
type Static struct {
	User *User
}

func (s Static) CurrentUser() *User { return s.User }

// Anonymous is a Provider that never has a user.
var Anonymous Provider = Static{}

// Func adapts a closure into a Provider.
type Func func() *User

func (f Func) CurrentUser() *User { return f() }
