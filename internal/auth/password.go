package auth

import "golang.org/x/crypto/bcrypt"

// DefaultCost puts a single comparison in the few-hundred-millisecond range.
const DefaultCost = 12

func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(b), err
}

// ComparePassword runs bcrypt's full comparison regardless of where the
// mismatch is.
func ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
