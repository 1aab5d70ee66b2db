package core

import (
	"time"

	"github.com/google/uuid"
)

// User is a stored user record.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserInput is a candidate record as submitted by a client. Fields are
// pointers so that an absent field can be told apart from an empty one.
type UserInput struct {
	Name  *string `json:"name" validate:"required,min=3"`
	Email *string `json:"email" validate:"required,email"`
}

// NewUserInput builds a UserInput with both fields present.
func NewUserInput(name, email string) UserInput {
	return UserInput{Name: &name, Email: &email}
}

// NewUser is a validated record ready to be written to the store.
type NewUser struct {
	Name  string
	Email string
}

// toNewUser converts an input that has already passed ValidateUser.
func (in UserInput) toNewUser() NewUser {
	var u NewUser
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	return u
}

// UserPage is one page of the user listing.
type UserPage struct {
	Users       []User `json:"users"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	TotalUsers  int64  `json:"totalUsers"`
}

// BulkResult reports the outcome of a bulk create.
// Count is the number of rows actually written.
type BulkResult struct {
	Count int
	Users []User
}

// SeedResult reports the outcome of a seed run.
type SeedResult struct {
	Count  int
	Sample []User
}

// IndexedError is a validation failure for one record of a batch.
type IndexedError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}
