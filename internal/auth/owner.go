package auth

import (
	"crypto/subtle"
	"errors"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Owner is the one account allowed to edit the site.
type Owner struct {
	ID           string
	Username     string
	PasswordHash string
}

// Authenticator logs the owner in and checks their session tokens.
type Authenticator struct {
	owner     Owner
	passwords *Passwords
	tokens    *Tokens
}

func NewAuthenticator(owner Owner, passwords *Passwords, tokens *Tokens) *Authenticator {
	return &Authenticator{owner: owner, passwords: passwords, tokens: tokens}
}

// Login verifies the credentials and returns a session token with its expiry.
func (a *Authenticator) Login(username, password string) (string, time.Time, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.owner.Username)) == 1
	// Always pay for the hash comparison so a wrong username is not faster.
	passOK := a.passwords.Verify(password, a.owner.PasswordHash)
	if !userOK || !passOK {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return a.tokens.Issue(a.owner.ID)
}

// Authenticate returns the owner id for a valid session token.
func (a *Authenticator) Authenticate(token string) (string, error) {
	sub, err := a.tokens.Validate(token)
	if err != nil {
		return "", err
	}
	if sub != a.owner.ID {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// OwnerID is the id all content is stored under.
func (a *Authenticator) OwnerID() string {
	return a.owner.ID
}

// TTL is the session lifetime, used for the cookie max age.
func (a *Authenticator) TTL() time.Duration {
	return a.tokens.TTL()
}
