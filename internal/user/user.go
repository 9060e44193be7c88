// Package user holds the identity a post is submitted as.
package user

import (
	"strings"

	"github.com/salmonumbrella/formkit/internal/validation"
)

// User is an email holder. The zero value has no email.
type User struct {
	email string
}

// New returns a User for email, or a *validation.ValidationError when the
// address is malformed.
func New(email string) (*User, error) {
	u := &User{}
	if err := u.UpdateEmail(email); err != nil {
		return nil, err
	}
	return u, nil
}

// Email returns the current address, or "" after ClearEmail.
func (u *User) Email() string {
	return u.email
}

// HasEmail reports whether an address is set.
func (u *User) HasEmail() bool {
	return u.email != ""
}

// UpdateEmail replaces the address. An invalid address leaves the current
// one unchanged.
func (u *User) UpdateEmail(email string) error {
	email = strings.TrimSpace(email)
	if err := validation.Email(email); err != nil {
		return err
	}
	u.email = email
	return nil
}

// ClearEmail removes the address.
func (u *User) ClearEmail() {
	u.email = ""
}
