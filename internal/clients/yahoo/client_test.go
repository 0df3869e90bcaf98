package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/models"
)

func chartBody(price float64, timestamps []int64, closes []string) string {
	ts := ""
	for i, t := range timestamps {
		if i > 0 {
			ts += ","
		}
		ts += fmt.Sprintf("%d", t)
	}
	cl := ""
	for i, c := range closes {
		if i > 0 {
			cl += ","
		}
		cl += c
	}
	return fmt.Sprintf(`{"chart":{"result":[{
		"meta":{"symbol":"VTI","regularMarketPrice":%g,"regularMarketTime":1767348000},
		"timestamp":[%s],
		"indicators":{"quote":[{"open":[],"high":[],"low":[],"close":[%s],"volume":[]}]}
	}],"error":null}}`, price, ts, cl)
}

func TestGetQuote_ParsesResponse(t *testing.T) {
	var capturedPath, capturedQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartBody(251.37, nil, nil))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	quote, err := client.GetQuote(context.Background(), "vti")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}

	if capturedPath != "/v8/finance/chart/VTI" {
		t.Errorf("expected path /v8/finance/chart/VTI, got %s", capturedPath)
	}
	if capturedQuery != "interval=1d&range=1d" {
		t.Errorf("unexpected query %s", capturedQuery)
	}
	if quote.Ticker != "VTI" {
		t.Errorf("expected ticker VTI, got %s", quote.Ticker)
	}
	if quote.Price != 251.37 {
		t.Errorf("expected price 251.37, got %.2f", quote.Price)
	}
	want := time.Unix(1767348000, 0).UTC()
	if !quote.AsOf.Equal(want) {
		t.Errorf("expected as_of %v, got %v", want, quote.AsOf)
	}
}

func TestGetQuote_NoPriceIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(0, nil, nil))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetQuote(context.Background(), "VTI")
	if !errors.Is(err, models.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestGetQuote_ChartErrorIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetQuote(context.Background(), "NOPE")
	if !errors.Is(err, models.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestGetQuote_NotFoundIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetQuote(context.Background(), "NOPE")
	if !errors.Is(err, models.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestGetQuote_ServerErrorIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, "slow down")
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetQuote(context.Background(), "VTI")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", apiErr.StatusCode)
	}
}

func TestGetHistory_ParsesBarsAndSkipsNulls(t *testing.T) {
	var capturedQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = r.URL.RawQuery
		fmt.Fprint(w, chartBody(100,
			[]int64{1767348000, 1767434400, 1767520800},
			[]string{"100.5", "null", "102.25"},
		))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	history, err := client.GetHistory(context.Background(), "VTI",
		interfaces.WithRange("7d"),
		interfaces.WithInterval("1h"),
	)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}

	if capturedQuery != "interval=1h&range=7d" {
		t.Errorf("unexpected query %s", capturedQuery)
	}
	if len(history.Bars) != 2 {
		t.Fatalf("expected 2 bars (null skipped), got %d", len(history.Bars))
	}
	if history.Bars[0].Close != 100.5 {
		t.Errorf("expected first close 100.5, got %g", history.Bars[0].Close)
	}
	if history.Bars[1].Close != 102.25 {
		t.Errorf("expected second close 102.25, got %g", history.Bars[1].Close)
	}
	if !history.Bars[0].Time.Equal(time.Unix(1767348000, 0).UTC()) {
		t.Errorf("unexpected bar time %v", history.Bars[0].Time)
	}
}

func TestGetHistory_DateRangeOverridesNamedRange(t *testing.T) {
	var capturedQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = r.URL.RawQuery
		fmt.Fprint(w, chartBody(100, []int64{1767348000}, []string{"100"}))
	}))
	defer srv.Close()

	from := time.Unix(1700000000, 0)
	to := time.Unix(1767348000, 0)

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetHistory(context.Background(), "VTI", interfaces.WithDateRange(from, to))
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	want := fmt.Sprintf("interval=1d&period1=%d&period2=%d", from.Unix(), to.Unix())
	if capturedQuery != want {
		t.Errorf("expected query %s, got %s", want, capturedQuery)
	}
}

func TestGetHistory_AllNullsIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(100, []int64{1767348000, 1767434400}, []string{"null", "null"}))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetHistory(context.Background(), "VTI")
	if !errors.Is(err, models.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestGetHistory_EmptyTimestampsIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(100, nil, nil))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetHistory(context.Background(), "VTI")
	if !errors.Is(err, models.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestClientRespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, chartBody(100, nil, nil))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := NewClient(WithBaseURL(srv.URL))
	if _, err := client.GetQuote(ctx, "VTI"); err == nil {
		t.Error("expected error from cancelled context")
	}
}
