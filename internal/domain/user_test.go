package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	validEmail := "test@example.com"
	validName := "Test User"
	validPassword := "password123"

	user, err := NewUser(validEmail, validName, validPassword)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if user.Email != validEmail {
		t.Errorf("Expected email %s, got %s", validEmail, user.Email)
	}

	if user.Name != validName {
		t.Errorf("Expected name %s, got %s", validName, user.Name)
	}

	if user.Password != validPassword {
		t.Errorf("Expected password to be retained until hashing, got %s", user.Password)
	}

	if user.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if user.UpdatedAt.IsZero() {
		t.Error("Expected non-zero UpdatedAt time")
	}

	// Test invalid email
	_, err = NewUser("", validName, validPassword)
	if !errors.Is(err, ErrEmptyEmail) {
		t.Errorf("Expected error %v, got %v", ErrEmptyEmail, err)
	}

	_, err = NewUser("invalidemail", validName, validPassword)
	if !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("Expected error %v, got %v", ErrInvalidEmail, err)
	}

	// Test invalid name
	_, err = NewUser(validEmail, "", validPassword)
	if !errors.Is(err, ErrEmptyName) {
		t.Errorf("Expected error %v, got %v", ErrEmptyName, err)
	}

	// Test invalid passwords
	_, err = NewUser(validEmail, validName, "")
	if !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}

	_, err = NewUser(validEmail, validName, "short")
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("Expected error %v, got %v", ErrPasswordTooShort, err)
	}

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err = NewUser(validEmail, validName, string(long))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("Expected error %v, got %v", ErrPasswordTooLong, err)
	}
}

func TestUserValidate(t *testing.T) {
	validUser := User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		Name:           "Test User",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}

	if err := validUser.Validate(); err != nil {
		t.Errorf("Expected valid user to pass validation, got %v", err)
	}

	// A user with neither plaintext nor hash is invalid
	noPassword := validUser
	noPassword.HashedPassword = ""
	if err := noPassword.Validate(); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}

	noID := validUser
	noID.ID = uuid.Nil
	if err := noID.Validate(); !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("Expected error %v, got %v", ErrEmptyUserID, err)
	}
}

func TestValidEmailFormat(t *testing.T) {
	cases := []struct {
		email string
		valid bool
	}{
		{"user@example.com", true},
		{"first.last@sub.example.org", true},
		{"user@example", false},
		{"@example.com", false},
		{"user@", false},
		{"userexample.com", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := validEmailFormat(tc.email); got != tc.valid {
			t.Errorf("validEmailFormat(%q) = %v, want %v", tc.email, got, tc.valid)
		}
	}
}
