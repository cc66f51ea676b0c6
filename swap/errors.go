package swap

import (
	"fmt"

	"github.com/unite-defi/fusion-go/chains"
)

// HashAlgorithmMismatchError is raised pre-flight when a swap pair must
// share one hashlock end-to-end (legacy resolvers) but the two chains
// verify preimages with different hash primitives. Discovering this
// on-chain would strand locked funds, so it is never allowed past quoting.
type HashAlgorithmMismatchError struct {
	From *chains.Descriptor
	To   *chains.Descriptor
}

func (e *HashAlgorithmMismatchError) Error() string {
	return fmt.Sprintf("%s (%s) and %s (%s) cannot share a hashlock",
		e.From.Key, e.From.HashAlgorithm, e.To.Key, e.To.HashAlgorithm)
}

// MissingCredentialError is a fail-fast validation error: the source chain
// family needs signing material the caller did not supply.
type MissingCredentialError struct {
	Family chains.Family
	Need   string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s source chain requires %s", e.Family, e.Need)
}
