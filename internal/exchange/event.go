package exchange

import "github.com/shopspring/decimal"

// Event is one exchange report from the mini app. Only ExchangeID is required.
type Event struct {
	ExchangeID string
	UserID     *int64
	UserName   string

	AmountFrom   string
	AmountTo     string
	CurrencyFrom string
	CurrencyTo   string
	AddressFrom  string
	AddressTo    string

	InputUSD  string
	OutputUSD string

	BTCUSDRate decimal.Decimal
	Finished   bool

	HashFrom string
	HashTo   string
	Status   string

	Meta RequestMeta
}

// RequestMeta is captured from the HTTP request on every write.
type RequestMeta struct {
	IPAddress             string
	UserAgent             string
	SiteLanguage          string
	AcceptLanguage        string
	DeviceTimezone        string
	DeviceOperatingSystem string
}
