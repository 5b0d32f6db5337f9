package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rovshanmuradov/teleswap-backend/internal/exchange"
	"github.com/shopspring/decimal"
)

// looseString accepts a JSON string, number or null.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(strings.TrimSpace(v))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*s = looseString(n.String())
	return nil
}

// looseBool accepts true/false, 0/1 and their string forms.
type looseBool bool

func (v *looseBool) UnmarshalJSON(b []byte) error {
	var s looseString
	if err := s.UnmarshalJSON(b); err != nil {
		var x bool
		if err := json.Unmarshal(b, &x); err != nil {
			return fmt.Errorf("expected boolean, got %s", b)
		}
		*v = looseBool(x)
		return nil
	}
	switch strings.ToLower(string(s)) {
	case "", "0", "false":
		*v = false
	case "1", "true":
		*v = true
	default:
		return fmt.Errorf("expected boolean, got %s", b)
	}
	return nil
}

// exchangePayload is the body of POST /log-exchange as the mini app sends it.
type exchangePayload struct {
	ExchangeID            looseString `json:"ExchangeID"`
	UserID                looseString `json:"UserID"`
	UserName              looseString `json:"UserName"`
	AmountSent            looseString `json:"AmountSent"`
	AmountReceived        looseString `json:"AmountReceived"`
	TokenSent             looseString `json:"TokenSent"`
	TokenReceived         looseString `json:"TokenReceived"`
	AddressSent           looseString `json:"AddressSent"`
	AddressReceived       looseString `json:"AddressReceived"`
	InputTokenUSDTValue   looseString `json:"InputTokenUSDTValue"`
	OutputTokenUSDTValue  looseString `json:"OutputTokenUSDTValue"`
	ExchangeFinished      looseBool   `json:"ExchangeFinished"`
	BTCUSDRate            looseString `json:"BTC_USDRate"`
	UserAgent             looseString `json:"UserAgent"`
	SiteLanguage          looseString `json:"SiteLanguage"`
	AcceptLanguage        looseString `json:"AcceptLanguage"`
	DeviceTimezone        looseString `json:"DeviceTimezone"`
	DeviceOperatingSystem looseString `json:"DeviceOperatingSystem"`
	HashSent              looseString `json:"HashSent"`
	HashReceived          looseString `json:"HashReceived"`
	Status                looseString `json:"Status"`
}

func (p *exchangePayload) toEvent(clientIP string) (exchange.Event, error) {
	ev := exchange.Event{
		ExchangeID:   string(p.ExchangeID),
		UserName:     string(p.UserName),
		AmountFrom:   string(p.AmountSent),
		AmountTo:     string(p.AmountReceived),
		CurrencyFrom: string(p.TokenSent),
		CurrencyTo:   string(p.TokenReceived),
		AddressFrom:  string(p.AddressSent),
		AddressTo:    string(p.AddressReceived),
		InputUSD:     string(p.InputTokenUSDTValue),
		OutputUSD:    string(p.OutputTokenUSDTValue),
		Finished:     bool(p.ExchangeFinished),
		BTCUSDRate:   decimal.Zero,
		HashFrom:     string(p.HashSent),
		HashTo:       string(p.HashReceived),
		Status:       string(p.Status),
		Meta: exchange.RequestMeta{
			IPAddress:             clientIP,
			UserAgent:             string(p.UserAgent),
			SiteLanguage:          string(p.SiteLanguage),
			AcceptLanguage:        string(p.AcceptLanguage),
			DeviceTimezone:        string(p.DeviceTimezone),
			DeviceOperatingSystem: string(p.DeviceOperatingSystem),
		},
	}

	if p.UserID != "" {
		id, err := strconv.ParseInt(string(p.UserID), 10, 64)
		if err != nil {
			return ev, &exchange.ValidationError{Field: "UserID", Reason: "must be an integer"}
		}
		if id > 0 {
			ev.UserID = &id
		}
	}
	if p.BTCUSDRate != "" {
		if rate, err := decimal.NewFromString(string(p.BTCUSDRate)); err == nil {
			ev.BTCUSDRate = rate
		}
	}
	return ev, nil
}
