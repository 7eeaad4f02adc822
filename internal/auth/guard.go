// Package auth gates admin operations behind a session flag set by a
// successful check of the shared admin password.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"log"

	"github.com/psds-microservice/helpdesk/internal/errs"
)

const adminKey = "is_admin"

// Session is the per-request session state. sessions.Session from
// gin-contrib/sessions satisfies it.
type Session interface {
	Get(key interface{}) interface{}
	Set(key interface{}, val interface{})
	Delete(key interface{})
	Save() error
}

type Guard struct {
	secret [sha256.Size]byte
}

func NewGuard(adminPassword string) *Guard {
	return &Guard{secret: sha256.Sum256([]byte(adminPassword))}
}

func (g *Guard) IsAuthenticated(sess Session) bool {
	v, _ := sess.Get(adminKey).(bool)
	return v
}

// Authenticate compares supplied with the admin password in constant time.
// On success the session is marked as admin; on failure it is left as is.
func (g *Guard) Authenticate(sess Session, supplied string) bool {
	// Хешируем обе стороны, чтобы время сравнения не зависело от длины.
	got := sha256.Sum256([]byte(supplied))
	if subtle.ConstantTimeCompare(got[:], g.secret[:]) != 1 {
		return false
	}
	sess.Set(adminKey, true)
	if err := sess.Save(); err != nil {
		sess.Delete(adminKey)
		log.Printf("auth: save session: %v", err)
		return false
	}
	return true
}

func (g *Guard) RequireAuthenticated(sess Session) error {
	if !g.IsAuthenticated(sess) {
		return errs.ErrUnauthorized
	}
	return nil
}

func (g *Guard) Logout(sess Session) error {
	sess.Delete(adminKey)
	return sess.Save()
}
