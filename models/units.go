package models

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const etherDecimals = 18

// FormatEther renders a wei amount in ether without trailing zeros.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -etherDecimals).String()
}

// ParseEther converts a decimal ether string to wei. Fractions below one wei are rejected.
func ParseEther(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid ether amount %q", amount)
	}
	if d.IsNegative() {
		return nil, errors.Errorf("negative ether amount %q", amount)
	}
	wei := d.Shift(etherDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, errors.Errorf("ether amount %q has more than %d decimals", amount, etherDecimals)
	}
	return wei.BigInt(), nil
}
