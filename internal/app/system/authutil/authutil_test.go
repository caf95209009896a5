package authutil

import "testing"

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "correct horse battery", nil},
		{"minimum length", "sixchr", nil},
		{"too short", "12345", ErrPasswordTooShort},
		{"empty", "", ErrPasswordTooShort},
		{"too long", string(make([]byte, 129)), ErrPasswordTooLong},
		{"common", "password", ErrPasswordCommon},
		{"common uppercase", "PASSWORD", ErrPasswordCommon},
		{"common numeric", "123456", ErrPasswordCommon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePassword(tt.password); err != tt.wantErr {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr error
	}{
		{"valid", "ada@example.com", nil},
		{"subdomain", "ada@mail.example.co.uk", nil},
		{"empty", "", ErrEmailRequired},
		{"no at", "ada.example.com", ErrInvalidEmail},
		{"two ats", "ada@@example.com", ErrInvalidEmail},
		{"empty local", "@example.com", ErrInvalidEmail},
		{"no dot in domain", "ada@example", ErrInvalidEmail},
		{"trailing dot", "ada@example.", ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateEmail(tt.email); err != tt.wantErr {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword("hunter22", hash) {
		t.Error("CheckPassword rejected correct password")
	}
	if CheckPassword("hunter23", hash) {
		t.Error("CheckPassword accepted wrong password")
	}
	if CheckPassword("hunter22", "not-a-hash") {
		t.Error("CheckPassword accepted malformed hash")
	}
}
