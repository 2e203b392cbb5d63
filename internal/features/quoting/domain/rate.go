package domain

import "github.com/shopspring/decimal"

// ServiceRate is one carrier service quoted for one box.
type ServiceRate struct {
	ServiceCode string          `json:"service_code"`
	ServiceName string          `json:"service_name"`
	Cost        decimal.Decimal `json:"cost"`
	Currency    string          `json:"currency"`
}

// ServiceTotal is the summed cost of one service over boxes or addresses.
type ServiceTotal struct {
	ServiceCode string          `json:"service_code"`
	ServiceName string          `json:"service_name"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
}

// BoxQuote holds the rates of one packed box, or the reason there are none.
type BoxQuote struct {
	Box       Box                    `json:"box"`
	Oversized bool                   `json:"oversized,omitempty"`
	Rates     map[string]ServiceRate `json:"rates,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Failed reports whether the box was excluded from aggregation.
func (q BoxQuote) Failed() bool {
	return q.Error != ""
}

// AddressQuote is the quote of every box bound for one address.
type AddressQuote struct {
	Address        Address                 `json:"address"`
	Boxes          []BoxQuote              `json:"boxes"`
	RatesByService map[string]ServiceTotal `json:"rates_by_service"`
}

// QuoteSummary is the result of quoting a whole request.
type QuoteSummary struct {
	Addresses  []AddressQuote          `json:"addresses"`
	GrandTotal map[string]ServiceTotal `json:"grand_total"`
}

// Accumulate adds cost to the named service total.
// The first rate seen for a service fixes its code and currency.
func Accumulate(totals map[string]ServiceTotal, name, code, currency string, cost decimal.Decimal) {
	t, ok := totals[name]
	if !ok {
		t = ServiceTotal{ServiceCode: code, ServiceName: name, Total: decimal.Zero, Currency: currency}
	}
	t.Total = t.Total.Add(cost)
	totals[name] = t
}

// RoundTotals rounds every total to 2 decimal places in place.
func RoundTotals(totals map[string]ServiceTotal) {
	for name, t := range totals {
		t.Total = t.Total.Round(2)
		totals[name] = t
	}
}
