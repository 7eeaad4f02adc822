package auth

import (
	"errors"
	"testing"

	"github.com/psds-microservice/helpdesk/internal/errs"
	"github.com/stretchr/testify/assert"
)

type memSession struct {
	values  map[interface{}]interface{}
	saves   int
	saveErr error
}

func newMemSession() *memSession {
	return &memSession{values: map[interface{}]interface{}{}}
}

func (s *memSession) Get(key interface{}) interface{}      { return s.values[key] }
func (s *memSession) Set(key interface{}, val interface{}) { s.values[key] = val }
func (s *memSession) Delete(key interface{})               { delete(s.values, key) }
func (s *memSession) Save() error {
	s.saves++
	return s.saveErr
}

func TestGuard_AuthenticateAndLogout(t *testing.T) {
	g := NewGuard("s3cret")
	sess := newMemSession()

	assert.False(t, g.IsAuthenticated(sess))
	assert.ErrorIs(t, g.RequireAuthenticated(sess), errs.ErrUnauthorized)

	assert.True(t, g.Authenticate(sess, "s3cret"))
	assert.True(t, g.IsAuthenticated(sess))
	assert.NoError(t, g.RequireAuthenticated(sess))

	assert.NoError(t, g.Logout(sess))
	assert.False(t, g.IsAuthenticated(sess))
	assert.ErrorIs(t, g.RequireAuthenticated(sess), errs.ErrUnauthorized)
}

func TestGuard_WrongPasswordLeavesSessionUntouched(t *testing.T) {
	g := NewGuard("s3cret")
	for _, wrong := range []string{"", "s3cre", "s3cret ", "S3CRET", "s3cretX"} {
		sess := newMemSession()
		assert.False(t, g.Authenticate(sess, wrong), "password %q", wrong)
		assert.Empty(t, sess.values)
		assert.Zero(t, sess.saves)
	}
}

func TestGuard_SaveFailure(t *testing.T) {
	g := NewGuard("s3cret")
	sess := newMemSession()
	sess.saveErr = errors.New("cookie too large")
	assert.False(t, g.Authenticate(sess, "s3cret"))
	assert.False(t, g.IsAuthenticated(sess))
}

func TestGuard_IgnoresNonBoolFlag(t *testing.T) {
	g := NewGuard("s3cret")
	sess := newMemSession()
	sess.Set(adminKey, "true")
	assert.False(t, g.IsAuthenticated(sess))
}
