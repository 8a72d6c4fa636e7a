package mocks

import "github.com/phrazzld/storefront-api/internal/service/auth"

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements the PasswordVerifier interface. The default accepts a
// password equal to the stored "hash", which keeps handler tests free of
// real bcrypt work.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword != password {
		return auth.ErrInvalidCredentials
	}
	return nil
}
