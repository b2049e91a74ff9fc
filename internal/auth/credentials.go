package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Credentials is the single admin login shared by the chat console and the
// Resource API. Only a bcrypt hash of the password is kept in memory.
type Credentials struct {
	login string
	hash  []byte
}

func NewCredentials(login, password string) (*Credentials, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &Credentials{login: login, hash: hash}, nil
}

func (c *Credentials) Verify(login, password string) bool {
	loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(c.login)) == 1
	passwordOK := bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
	return loginOK && passwordOK
}
