package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost keeps hashing in the tens-of-milliseconds range on
// current hardware. Tests pass bcrypt.MinCost instead.
const DefaultBcryptCost = 12

// dummyHash is compared against when login hits an unknown email, so that
// path costs the same as a real mismatch. Hash of an unguessable throwaway.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

func HashPassword(p string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(p), cost)
	return string(b), err
}

func VerifyPassword(plain, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// BurnVerification performs a throwaway comparison. Called on the
// unknown-email login path so it is indistinguishable from a wrong password.
func BurnVerification(plain string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plain))
}
