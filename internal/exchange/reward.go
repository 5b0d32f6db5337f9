package exchange

import (
	"strings"

	"github.com/shopspring/decimal"
)

// inputLegFactor discounts the input leg for the swap fee when it is the smaller side.
var inputLegFactor = decimal.RequireFromString("0.97")

// ComputeReward returns the referral commission for one exchange. The commission is taken
// on the output leg when the input is worth more, otherwise on the input leg minus the fee.
// Missing or unparsable USD values count as zero.
func ComputeReward(inputUSD, outputUSD string, rate decimal.Decimal) decimal.Decimal {
	in := parseUSD(inputUSD)
	out := parseUSD(outputUSD)

	if in.GreaterThan(out) {
		return out.Mul(rate)
	}
	return in.Mul(inputLegFactor).Mul(rate)
}

func parseUSD(v string) decimal.Decimal {
	v = strings.TrimSpace(v)
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}
