// Package timesource supplies timestamps for attendance events, either
// from a remote time authority or from the local clock.
package timesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultBaseURL  = "https://timeapi.io"
	DefaultTimeZone = "Europe/Berlin"

	isoLayout = "2006-01-02T15:04:05.9999999"
)

// HTTPClock fetches the current time for a zone from a timeapi.io
// compatible service. A failed fetch is reported to the caller; this
// package performs no retries.
type HTTPClock struct {
	BaseURL  string
	TimeZone string
	Client   *http.Client
}

func NewHTTPClock(baseURL, timeZone string) *HTTPClock {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeZone == "" {
		timeZone = DefaultTimeZone
	}
	return &HTTPClock{
		BaseURL:  baseURL,
		TimeZone: timeZone,
		Client:   &http.Client{Timeout: 5 * time.Second},
	}
}

type timeAPIResponse struct {
	DateTime string `json:"dateTime"`
}

func (c *HTTPClock) Now(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("%s/api/Time/current/zone?timeZone=%s",
		c.BaseURL, url.QueryEscape(c.TimeZone))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch time: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("time API returned status %d", resp.StatusCode)
	}

	var body timeAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode time response: %w", err)
	}
	if body.DateTime == "" {
		return "", fmt.Errorf("time API returned empty dateTime")
	}
	return body.DateTime, nil
}

// LocalClock formats the local wall time in a fixed zone, matching the
// layout the remote API reports. It never fails.
type LocalClock struct {
	loc *time.Location
}

func NewLocalClock(timeZone string) *LocalClock {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		loc = time.UTC
	}
	return &LocalClock{loc: loc}
}

func (c *LocalClock) Now(ctx context.Context) (string, error) {
	return time.Now().In(c.loc).Format(isoLayout), nil
}
