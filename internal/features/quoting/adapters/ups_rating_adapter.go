package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"shipdesk/internal/features/quoting/domain"
	"shipdesk/internal/features/quoting/ports"

	"github.com/shopspring/decimal"
)

const shopPath = "/api/rating/v2403/Shop"

// ErrRatingFailed is returned when the carrier rejects a rate request.
var ErrRatingFailed = errors.New("carrier rating failed")

// TokenSource hands out carrier bearer tokens.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// serviceNames maps UPS service codes to display names.
var serviceNames = map[string]string{
	"01": "UPS Next Day Air",
	"02": "UPS 2nd Day Air",
	"03": "UPS Ground",
	"12": "UPS 3 Day Select",
	"13": "UPS Next Day Air Saver",
	"14": "UPS Next Day Air Early",
	"59": "UPS 2nd Day Air A.M.",
}

// ServiceName returns the display name of a UPS service code.
func ServiceName(code string) string {
	if name, ok := serviceNames[code]; ok {
		return name
	}
	return "UPS Service " + code
}

// UPSRatingAdapter implements ports.RateProvider against the UPS Rating "Shop" API.
type UPSRatingAdapter struct {
	client        *http.Client
	baseURL       string
	accountNumber string
	tokens        TokenSource
}

// NewUPSRatingAdapter creates a new instance of UPSRatingAdapter.
func NewUPSRatingAdapter(client *http.Client, baseURL, accountNumber string, tokens TokenSource) *UPSRatingAdapter {
	return &UPSRatingAdapter{
		client:        client,
		baseURL:       strings.TrimRight(baseURL, "/"),
		accountNumber: accountNumber,
		tokens:        tokens,
	}
}

// GetRates shops every service for one box. A 401 drops the cached token and retries once.
func (a *UPSRatingAdapter) GetRates(ctx context.Context, req ports.RateRequest) (map[string]domain.ServiceRate, error) {
	body, err := json.Marshal(a.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to encode rate request: %w", err)
	}

	resp, err := a.post(ctx, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		a.tokens.Invalidate()
		if resp, err = a.post(ctx, body); err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: status %d: %s", ErrRatingFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var parsed shopResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode rate response: %w", err)
	}

	rates, err := parsed.toDomain()
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, ports.ErrNoRates
	}
	return rates, nil
}

func (a *UPSRatingAdapter) post(ctx context.Context, body []byte) (*http.Response, error) {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get carrier token: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+shopPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("transactionSrc", "shipdesk")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}

func (a *UPSRatingAdapter) buildRequest(req ports.RateRequest) shopRequest {
	from := toUPSAddress(req.Origin)
	box := req.Box

	return shopRequest{RateRequest: rateRequest{
		Request: requestOption{RequestOption: "Shop"},
		Shipment: shipment{
			Shipper:  party{ShipperNumber: a.accountNumber, Address: from},
			ShipFrom: party{Address: from},
			ShipTo:   party{Address: toUPSAddress(req.Destination)},
			Package: pkg{
				PackagingType: code{Code: "02"},
				Dimensions: dimensions{
					UnitOfMeasurement: code{Code: "IN"},
					Length:            formatNumber(box.Length),
					Width:             formatNumber(box.Width),
					Height:            formatNumber(box.CurrentDepth),
				},
				PackageWeight: weight{
					UnitOfMeasurement: code{Code: "LBS"},
					Weight:            formatWeight(box.Weight),
				},
			},
		},
	}}
}

func toUPSAddress(r domain.Region) upsAddress {
	country := r.Country
	if country == "" {
		country = "US"
	}
	return upsAddress{StateProvinceCode: r.State, PostalCode: r.PostalCode, CountryCode: country}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatWeight renders a box weight to the hundredth of a pound.
func formatWeight(v float64) string {
	return formatNumber(domain.Round2(v))
}

// UPS rating request structures

type shopRequest struct {
	RateRequest rateRequest `json:"RateRequest"`
}

type rateRequest struct {
	Request  requestOption `json:"Request"`
	Shipment shipment      `json:"Shipment"`
}

type requestOption struct {
	RequestOption string `json:"RequestOption"`
}

type shipment struct {
	Shipper  party `json:"Shipper"`
	ShipTo   party `json:"ShipTo"`
	ShipFrom party `json:"ShipFrom"`
	Package  pkg   `json:"Package"`
}

type party struct {
	ShipperNumber string     `json:"ShipperNumber,omitempty"`
	Address       upsAddress `json:"Address"`
}

type upsAddress struct {
	StateProvinceCode string `json:"StateProvinceCode"`
	PostalCode        string `json:"PostalCode"`
	CountryCode       string `json:"CountryCode"`
}

type pkg struct {
	PackagingType code       `json:"PackagingType"`
	Dimensions    dimensions `json:"Dimensions"`
	PackageWeight weight     `json:"PackageWeight"`
}

type code struct {
	Code string `json:"Code"`
}

type dimensions struct {
	UnitOfMeasurement code   `json:"UnitOfMeasurement"`
	Length            string `json:"Length"`
	Width             string `json:"Width"`
	Height            string `json:"Height"`
}

type weight struct {
	UnitOfMeasurement code   `json:"UnitOfMeasurement"`
	Weight            string `json:"Weight"`
}

// UPS rating response structures

type shopResponse struct {
	RateResponse struct {
		RatedShipment ratedShipments `json:"RatedShipment"`
	} `json:"RateResponse"`
}

type charge struct {
	CurrencyCode  string `json:"CurrencyCode"`
	MonetaryValue string `json:"MonetaryValue"`
}

type ratedShipment struct {
	Service               code   `json:"Service"`
	TotalCharges          charge `json:"TotalCharges"`
	NegotiatedRateCharges *struct {
		TotalCharge charge `json:"TotalCharge"`
	} `json:"NegotiatedRateCharges,omitempty"`
}

// ratedShipments accepts either a single object or an array.
type ratedShipments []ratedShipment

func (r *ratedShipments) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = nil
		return nil
	}
	if trimmed[0] == '[' {
		var list []ratedShipment
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*r = list
		return nil
	}
	var single ratedShipment
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return err
	}
	*r = ratedShipments{single}
	return nil
}

func (s shopResponse) toDomain() (map[string]domain.ServiceRate, error) {
	rates := make(map[string]domain.ServiceRate, len(s.RateResponse.RatedShipment))
	for _, rs := range s.RateResponse.RatedShipment {
		c := rs.TotalCharges
		if rs.NegotiatedRateCharges != nil && rs.NegotiatedRateCharges.TotalCharge.MonetaryValue != "" {
			c = rs.NegotiatedRateCharges.TotalCharge
		}

		cost, err := decimal.NewFromString(c.MonetaryValue)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid charge %q for service %s", ErrRatingFailed, c.MonetaryValue, rs.Service.Code)
		}

		name := ServiceName(rs.Service.Code)
		rates[name] = domain.ServiceRate{
			ServiceCode: rs.Service.Code,
			ServiceName: name,
			Cost:        cost,
			Currency:    c.CurrencyCode,
		}
	}
	return rates, nil
}
