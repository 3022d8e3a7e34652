package modn

import (
	"errors"
	"fmt"
)

// ErrInvalidModulus is matched (via errors.Is) by every modulus rejection.
var ErrInvalidModulus = errors.New("invalid modulus")

var (
	// ErrZeroModulus is returned (or panicked with) when the modulus is 0.
	ErrZeroModulus = fmt.Errorf("%w: modulus must be non-zero", ErrInvalidModulus)

	// ErrEvenModulus is returned by the Montgomery constructors when the
	// modulus is even, since no inverse of n modulo R = 2^w exists then.
	ErrEvenModulus = fmt.Errorf("%w: Montgomery modulus must be odd", ErrInvalidModulus)
)

// checkMontgomeryModulus validates a modulus for a Montgomery engine
func checkMontgomeryModulus(n uint64) error {
	if n == 0 {
		return ErrZeroModulus
	}
	if n&1 == 0 {
		return fmt.Errorf("%w (got %d)", ErrEvenModulus, n)
	}
	return nil
}
