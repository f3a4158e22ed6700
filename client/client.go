// Package client is a thin Go SDK for the timeclock HTTP API.
package client

type TimeclockClient struct {
	Transport  *Transport
	Attendance *AttendanceEndpoint
}

// NewTimeclockClient initializes the API client. The token can be
// empty when only Login will be called; SetToken installs the
// credential afterwards.
func NewTimeclockClient(baseURL string, token string) *TimeclockClient {
	t := NewTransport(baseURL, token)
	return &TimeclockClient{
		Transport:  t,
		Attendance: &AttendanceEndpoint{transport: t},
	}
}

func (c *TimeclockClient) SetToken(token string) {
	c.Transport.AuthToken = token
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Login exchanges credentials for an access token and installs it on
// the transport.
func (c *TimeclockClient) Login(username, password string) (string, error) {
	payload := map[string]string{"username": username, "password": password}

	var resp loginResponse
	if err := c.Transport.Post("/auth/login", payload, &resp, nil); err != nil {
		return "", err
	}
	c.SetToken(resp.Token)
	return resp.Role, nil
}
