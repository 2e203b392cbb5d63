package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"shipdesk/internal/features/tracking/domain"

	"github.com/google/uuid"
)

const trackPath = "/api/track/v1/details/"

// ErrTrackingFailed is returned when the carrier rejects a tracking request.
var ErrTrackingFailed = errors.New("carrier tracking failed")

// TokenSource hands out carrier bearer tokens.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// UPSTrackingAdapter implements ports.TrackingProvider against the UPS Track API.
type UPSTrackingAdapter struct {
	client  *http.Client
	baseURL string
	tokens  TokenSource
}

// NewUPSTrackingAdapter creates a new instance of UPSTrackingAdapter.
func NewUPSTrackingAdapter(client *http.Client, baseURL string, tokens TokenSource) *UPSTrackingAdapter {
	return &UPSTrackingAdapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
	}
}

// GetActivity returns the package activities, most recent first, as the carrier orders them.
func (a *UPSTrackingAdapter) GetActivity(ctx context.Context, trackingNumber string) ([]domain.Activity, error) {
	resp, err := a.get(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		a.tokens.Invalidate()
		if resp, err = a.get(ctx, trackingNumber); err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: status %d: %s", ErrTrackingFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var parsed trackResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode tracking response: %w", err)
	}

	return parsed.activities(), nil
}

func (a *UPSTrackingAdapter) get(ctx context.Context, trackingNumber string) (*http.Response, error) {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get carrier token: %w", err)
	}

	endpoint := a.baseURL + trackPath + url.PathEscape(trackingNumber) + "?locale=en_US&returnSignature=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("transId", uuid.NewString())
	req.Header.Set("transactionSrc", "shipdesk")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}

// UPS tracking response structures

type trackResponse struct {
	TrackResponse struct {
		Shipment []struct {
			Package []struct {
				Activity []trackActivity `json:"activity"`
			} `json:"package"`
		} `json:"shipment"`
	} `json:"trackResponse"`
}

type trackActivity struct {
	Location struct {
		Address struct {
			City          string `json:"city"`
			StateProvince string `json:"stateProvince"`
			CountryCode   string `json:"countryCode"`
		} `json:"address"`
	} `json:"location"`
	Status struct {
		Type        string `json:"type"`
		Code        string `json:"code"`
		StatusCode  string `json:"statusCode"`
		Description string `json:"description"`
	} `json:"status"`
	Date string `json:"date"`
	Time string `json:"time"`
}

func (r trackResponse) activities() []domain.Activity {
	var out []domain.Activity
	for _, s := range r.TrackResponse.Shipment {
		for _, p := range s.Package {
			for _, a := range p.Activity {
				code := a.Status.StatusCode
				if code == "" {
					code = a.Status.Code
				}
				out = append(out, domain.Activity{
					StatusType:        strings.TrimSpace(a.Status.Type),
					StatusCode:        code,
					StatusDescription: strings.TrimSpace(a.Status.Description),
					Location: domain.Location{
						City:    a.Location.Address.City,
						State:   a.Location.Address.StateProvince,
						Country: a.Location.Address.CountryCode,
					},
					Date: a.Date,
					Time: a.Time,
				})
			}
		}
	}
	return out
}
