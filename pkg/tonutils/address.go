// pkg/tonutils/address.go
package tonutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xssnick/tonutils-go/address"
)

var (
	ErrEmptyAddress   = errors.New("address is empty")
	ErrTestnetAddress = errors.New("testnet addresses cannot receive rewards")
)

// ValidateAddress checks that raw is a mainnet TON address in user friendly
// (EQ.../UQ...) or raw (0:hex) form and returns it in user friendly form.
func ValidateAddress(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}

	var (
		addr *address.Address
		err  error
	)
	if strings.Contains(raw, ":") {
		addr, err = address.ParseRawAddr(raw)
	} else {
		addr, err = address.ParseAddr(raw)
	}
	if err != nil {
		return "", fmt.Errorf("not a TON address: %w", err)
	}
	if addr.IsTestnetOnly() {
		return "", ErrTestnetAddress
	}
	return addr.String(), nil
}
