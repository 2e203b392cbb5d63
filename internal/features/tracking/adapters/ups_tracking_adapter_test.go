package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shipdesk/internal/features/tracking/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token       string
	invalidated int
}

func (s *staticTokens) Token(ctx context.Context) (string, error) { return s.token, nil }
func (s *staticTokens) Invalidate()                               { s.invalidated++ }

const trackJSON = `{
	"trackResponse": {
		"shipment": [{
			"package": [{
				"trackingNumber": "1Z999AA10123456784",
				"activity": [
					{
						"location": {"address": {"city": "AUSTIN", "stateProvince": "TX", "countryCode": "US"}},
						"status": {"type": "D", "description": "DELIVERED ", "code": "FS", "statusCode": "011"},
						"date": "20240315",
						"time": "142530"
					},
					{
						"location": {"address": {"city": "DALLAS", "stateProvince": "TX", "countryCode": "US"}},
						"status": {"type": "I", "description": "Departure Scan", "code": "DP"},
						"date": "20240314",
						"time": "220000"
					},
					{
						"status": {"type": "M", "description": "Shipper created a label", "code": "MP"},
						"date": "20240313"
					}
				]
			}]
		}]
	}
}`

func TestUPSTrackingAdapter_GetActivity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/track/v1/details/1Z999AA10123456784", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("transId"))

		w.Write([]byte(trackJSON))
	}))
	defer server.Close()

	adapter := NewUPSTrackingAdapter(server.Client(), server.URL, &staticTokens{token: "tok"})
	activities, err := adapter.GetActivity(context.Background(), "1Z999AA10123456784")

	require.NoError(t, err)
	require.Len(t, activities, 3)

	assert.Equal(t, domain.Activity{
		StatusType:        "D",
		StatusCode:        "011",
		StatusDescription: "DELIVERED",
		Location:          domain.Location{City: "AUSTIN", State: "TX", Country: "US"},
		Date:              "20240315",
		Time:              "142530",
	}, activities[0])
	assert.Equal(t, "DP", activities[1].StatusCode, "falls back to code without statusCode")
	assert.Equal(t, "", activities[2].Time)
}

func TestUPSTrackingAdapter_GetActivity_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"response":{"errors":[{"code":"TW0001","message":"Tracking Information Not Found"}]}}`))
	}))
	defer server.Close()

	adapter := NewUPSTrackingAdapter(server.Client(), server.URL, &staticTokens{token: "tok"})
	_, err := adapter.GetActivity(context.Background(), "1ZUNKNOWN")

	assert.ErrorIs(t, err, ErrTrackingFailed)
	assert.Contains(t, err.Error(), "Tracking Information Not Found")
}

func TestUPSTrackingAdapter_GetActivity_RetriesAfterUnauthorized(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(trackJSON))
	}))
	defer server.Close()

	tokens := &staticTokens{token: "tok"}
	adapter := NewUPSTrackingAdapter(server.Client(), server.URL, tokens)
	activities, err := adapter.GetActivity(context.Background(), "1Z999AA10123456784")

	require.NoError(t, err)
	assert.Len(t, activities, 3)
	assert.Equal(t, 1, tokens.invalidated)
}

func TestUPSTrackingAdapter_GetActivity_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"trackResponse":{"shipment":[{"package":[{"activity":[]}]}]}}`))
	}))
	defer server.Close()

	adapter := NewUPSTrackingAdapter(server.Client(), server.URL, &staticTokens{token: "tok"})
	activities, err := adapter.GetActivity(context.Background(), "1Z1")

	require.NoError(t, err)
	assert.Empty(t, activities)
}
