package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Transport handles low-level HTTP and authentication.
type Transport struct {
	BaseURL    string
	AuthToken  string
	HTTPClient *http.Client
}

func NewTransport(baseURL, token string) *Transport {
	return &Transport{
		BaseURL:    baseURL,
		AuthToken:  token,
		HTTPClient: &http.Client{},
	}
}

// helper: build full URL with query params
func (t *Transport) buildURL(path string, query map[string]string) string {
	u, _ := url.Parse(t.BaseURL + path)
	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (t *Transport) do(req *http.Request) ([]byte, error) {
	if t.AuthToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", t.AuthToken))
	}

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s failed with status code %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, string(body))
	}
	return body, nil
}

// Post sends a POST request with an optional JSON body and decodes the
// JSON response into out when out is non-nil.
func (t *Transport) Post(path string, data, out any, query map[string]string) error {
	return t.send(http.MethodPost, path, data, out, query)
}

func (t *Transport) Put(path string, data, out any, query map[string]string) error {
	return t.send(http.MethodPut, path, data, out, query)
}

func (t *Transport) Delete(path string, out any, query map[string]string) error {
	return t.send(http.MethodDelete, path, nil, out, query)
}

func (t *Transport) Get(path string, out any, query map[string]string) error {
	return t.send(http.MethodGet, path, nil, out, query)
}

func (t *Transport) send(method, path string, data, out any, query map[string]string) error {
	var reqBody io.Reader
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequest(method, t.buildURL(path, query), reqBody)
	if err != nil {
		return err
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	body, err := t.do(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}
