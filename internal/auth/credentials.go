package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrNoPassword is returned when neither a hash nor a plaintext password is
// configured.
var ErrNoPassword = errors.New("no admin password configured")

// Credentials holds the single admin credential set. The plaintext password
// is hashed once at construction and never retained.
type Credentials struct {
	username     string
	passwordHash []byte
}

// NewCredentials builds the admin credential set. A pre-computed bcrypt
// hash takes precedence; otherwise the plaintext password is hashed at
// startup.
func NewCredentials(username, passwordHash, password string) (*Credentials, error) {
	if passwordHash != "" {
		return &Credentials{username: username, passwordHash: []byte(passwordHash)}, nil
	}
	if password == "" {
		return nil, ErrNoPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Credentials{username: username, passwordHash: hash}, nil
}

// Username returns the admin username.
func (c *Credentials) Username() string {
	return c.username
}

// Verify reports whether the given username and password match the admin
// credential set. The username comparison is constant-time; bcrypt handles
// the password.
func (c *Credentials) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)) == nil
	return userOK && passOK
}
