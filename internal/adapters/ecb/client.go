package ecb

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ecbrates/internal/domain"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
)

const (
	DefaultDailyURL = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"
	dateLayout      = "2006-01-02"
)

// Client fetches the ECB euro foreign exchange reference rates.
type Client struct {
	http       *http.Client
	dailyURL   string
	newBackOff func() backoff.BackOff
}

// envelope mirrors the gesmes document published by the ECB:
// Envelope/Cube/Cube[@time]/Cube[@currency,@rate].
type envelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Cube    struct {
		Days []struct {
			Time  string `xml:"time,attr"`
			Rates []struct {
				Currency string `xml:"currency,attr"`
				Rate     string `xml:"rate,attr"`
			} `xml:"Cube"`
		} `xml:"Cube"`
	} `xml:"Cube"`
}

// FetchDaily downloads the latest daily reference rates. Transport errors and
// 5xx responses are retried with exponential backoff; other failures are not.
func (c *Client) FetchDaily(ctx context.Context) (domain.Snapshot, error) {
	var snapshot domain.Snapshot
	op := func() error {
		s, err := c.fetchOnce(ctx)
		if err != nil {
			return err
		}
		snapshot = s
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(c.newBackOff(), ctx)); err != nil {
		return domain.Snapshot{}, err
	}
	return snapshot, nil
}

func (c *Client) fetchOnce(ctx context.Context) (domain.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.dailyURL, nil)
	if err != nil {
		return domain.Snapshot{}, backoff.Permanent(fmt.Errorf("failed to create request for %q: %w", c.dailyURL, err))
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to execute request for reference rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return domain.Snapshot{}, fmt.Errorf("unexpected status code %d for reference rates", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Snapshot{}, backoff.Permanent(fmt.Errorf("unexpected status code %d for reference rates", resp.StatusCode))
	}

	var body envelope
	if err = xml.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Snapshot{}, backoff.Permanent(fmt.Errorf("failed to decode reference rates: %w", err))
	}

	snapshot, err := toSnapshot(body)
	if err != nil {
		return domain.Snapshot{}, backoff.Permanent(err)
	}
	return snapshot, nil
}

// toSnapshot keeps the most recent day present in the document.
func toSnapshot(body envelope) (domain.Snapshot, error) {
	if len(body.Cube.Days) == 0 {
		return domain.Snapshot{}, fmt.Errorf("no reference rates in response")
	}

	var latest domain.Snapshot
	for _, day := range body.Cube.Days {
		date, err := time.Parse(dateLayout, day.Time)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("invalid reference date %q: %w", day.Time, err)
		}
		if !latest.Date.IsZero() && !date.After(latest.Date) {
			continue
		}

		rates := make(map[domain.Currency]decimal.Decimal, len(day.Rates))
		for _, r := range day.Rates {
			value, err := decimal.NewFromString(strings.TrimSpace(r.Rate))
			if err != nil {
				return domain.Snapshot{}, fmt.Errorf("invalid rate %q for currency %q: %w", r.Rate, r.Currency, err)
			}
			if !value.IsPositive() {
				return domain.Snapshot{}, fmt.Errorf("non-positive rate %q for currency %q", r.Rate, r.Currency)
			}
			rates[domain.Currency(strings.ToUpper(strings.TrimSpace(r.Currency)))] = value
		}
		latest = domain.Snapshot{Date: date, Rates: rates}
	}
	return latest, nil
}

func defaultBackOff() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxInterval = time.Second
	exp.MaxElapsedTime = 3 * time.Second
	return exp
}

func NewClient(httpClient *http.Client, dailyURL string) *Client {
	if dailyURL == "" {
		dailyURL = DefaultDailyURL
	}
	return &Client{http: httpClient, dailyURL: dailyURL, newBackOff: defaultBackOff}
}
