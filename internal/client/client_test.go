package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/evcraddock/price-estimator/internal/options"
	"github.com/evcraddock/price-estimator/internal/predict"
)

func testRequest() predict.Request {
	bedrooms, size := 3.0, 2000.0
	return predict.Request{PropertyType: "Condo", Township: "Kamayut", Bedrooms: &bedrooms, PropertySize: &size}
}

func TestPredictSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != PredictPath {
			t.Errorf("path = %q, want %s", r.URL.Path, PredictPath)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		want := map[string]interface{}{
			"property_type": "Condo",
			"township":      "Kamayut",
			"bedrooms":      3.0,
			"property_size": 2000.0,
		}
		if diff := cmp.Diff(want, body); diff != "" {
			t.Errorf("body mismatch (-want +got):\n%s", diff)
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"success":true,"prediction":250000,"currency":"USD","input_details":{"property_type":"Condo","township":"Kamayut","bedrooms":3,"property_size":"2,000.0 sqft"}}`)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Predict(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	want := &predict.Response{
		Success:    true,
		Prediction: 250000,
		Currency:   "USD",
		InputDetails: &predict.Echo{
			PropertyType: "Condo",
			Township:     "Kamayut",
			Bedrooms:     predict.NumberMeasure(3),
			PropertySize: predict.TextMeasure("2,000.0 sqft"),
		},
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestPredictLogicalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"success":false,"error":"insufficient data"}`)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Predict(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	if resp.Error != "insufficient data" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestPredictTransportErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantSubstr string
	}{
		{"server error with message", http.StatusInternalServerError, `{"error":"Model not loaded"}`, 500, "Model not loaded"},
		{"server error plain", http.StatusBadGateway, `oops`, 502, "Bad Gateway"},
		{"not json", http.StatusOK, `<html>proxy</html>`, 0, "malformed response"},
		{"missing success", http.StatusOK, `{"error":"x"}`, 0, "unexpected response shape"},
		{"success without prediction", http.StatusOK, `{"success":true,"currency":"USD","input_details":{"property_type":"Condo","township":"Bahan","bedrooms":1,"property_size":1}}`, 0, "unexpected response shape"},
		{"prediction wrong type", http.StatusOK, `{"success":true,"prediction":"lots","currency":"USD","input_details":{"property_type":"Condo","township":"Bahan","bedrooms":1,"property_size":1}}`, 0, "unexpected response shape"},
		{"error wrong type", http.StatusOK, `{"success":false,"error":42}`, 0, "unexpected response shape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if _, err := w.Write([]byte(tt.body)); err != nil {
					t.Fatalf("write: %v", err)
				}
			}))
			defer srv.Close()

			_, err := New(srv.URL).Predict(context.Background(), testRequest())
			var te *TransportError
			if !errors.As(err, &te) {
				t.Fatalf("err = %v, want *TransportError", err)
			}
			if te.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", te.StatusCode, tt.wantStatus)
			}
			if !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("err = %q, want substring %q", err.Error(), tt.wantSubstr)
			}
		})
	}
}

func TestPredictConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Predict(context.Background(), testRequest())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if te.StatusCode != 0 {
		t.Errorf("status = %d, want 0", te.StatusCode)
	}
}

func TestPredictCancelled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL).Predict(ctx, testRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestPredictSendsNullForMissingNumbers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if v, ok := body["bedrooms"]; !ok || v != nil {
			t.Errorf("bedrooms = %v (present %v), want null", v, ok)
		}
		if _, err := w.Write([]byte(`{"success":false,"error":"bad bedrooms"}`)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer srv.Close()

	req := testRequest()
	req.Bedrooms = nil
	resp, err := New(srv.URL).Predict(context.Background(), req)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if resp.Error != "bad bedrooms" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:5000/")
	if c.BaseURL() != "http://localhost:5000" {
		t.Errorf("base url = %q", c.BaseURL())
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantHealthy bool
	}{
		{"healthy", `{"status":"healthy","model_loaded":true,"service":"Myanmar Real Estate Price Predictor"}`, true},
		{"unhealthy", `{"status":"unhealthy","model_loaded":false,"service":"Myanmar Real Estate Price Predictor"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != HealthPath {
					t.Errorf("path = %q, want %s", r.URL.Path, HealthPath)
				}
				w.Header().Set("Content-Type", "application/json")
				if _, err := w.Write([]byte(tt.body)); err != nil {
					t.Fatalf("write: %v", err)
				}
			}))
			defer srv.Close()

			status, err := New(srv.URL).Health(context.Background())
			if err != nil {
				t.Fatalf("health: %v", err)
			}
			if status.Healthy() != tt.wantHealthy {
				t.Errorf("healthy = %v, want %v", status.Healthy(), tt.wantHealthy)
			}
			if status.Service == "" {
				t.Error("expected service name")
			}
		})
	}
}

// The client satisfies the controller's Predictor and drives it end to end.
func TestClientDrivesController(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var p predict.Predictor = New(srv.URL)
	c := predict.NewController(p, options.Default())

	state, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(predict.Failed{Message: predict.ConnectivityMessage}, state); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}
