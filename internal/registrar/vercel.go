// Package registrar wraps the Vercel project-domains API. It is a thin
// adapter: retries and interpretation of failures live in the lifecycle
// service, not here.
package registrar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"guestwall/internal/dnstypes"
)

const (
	vercelAPIBase  = "https://api.vercel.com"
	requestTimeout = 10 * time.Second
)

var (
	// ErrHostConflict is returned when the hostname is already attached to
	// another Vercel project.
	ErrHostConflict = errors.New("hostname already in use on the hosting platform")

	// ErrHostNotFound is returned by RemoveHost when the hostname is not
	// attached to the project. Callers treat it as success.
	ErrHostNotFound = errors.New("hostname not attached to the project")
)

// Client talks to the Vercel API for one project.
type Client struct {
	token     string
	projectID string
	teamID    string
	baseURL   string
	client    *http.Client
	logger    *logrus.Entry
}

// NewClient creates a Vercel registrar client.
func NewClient(token, projectID, teamID string, logger *logrus.Entry) *Client {
	return &Client{
		token:     token,
		projectID: projectID,
		teamID:    teamID,
		baseURL:   vercelAPIBase,
		client:    &http.Client{Timeout: requestTimeout},
		logger:    logger.WithField("component", "vercel-registrar"),
	}
}

// vercelError is the error object embedded in failed API responses.
type vercelError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// addDomainResponse is the relevant subset of the project-domain response.
type addDomainResponse struct {
	Name         string `json:"name"`
	ApexName     string `json:"apexName"`
	Verified     bool   `json:"verified"`
	Verification []struct {
		Type   string `json:"type"`
		Domain string `json:"domain"`
		Value  string `json:"value"`
		Reason string `json:"reason"`
	} `json:"verification"`
	Error *vercelError `json:"error"`
}

// AddHost registers a hostname with the project and returns the frozen
// verification snapshot. isApex comes from our own classification; the
// snapshot carries it so DNS instructions can be rebuilt later without
// another API call.
func (c *Client) AddHost(ctx context.Context, hostname string, isApex bool) (*dnstypes.VerificationData, error) {
	endpoint := fmt.Sprintf("%s/v10/projects/%s/domains", c.baseURL, url.PathEscape(c.projectID))

	body, err := json.Marshal(map[string]string{"name": hostname})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read vercel response: %w", err)
	}

	var parsed addDomainResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("unexpected vercel response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode == http.StatusConflict || (parsed.Error != nil && parsed.Error.Code == "domain_already_in_use") {
		return nil, ErrHostConflict
	}
	if resp.StatusCode >= 400 {
		if parsed.Error != nil {
			return nil, fmt.Errorf("vercel add domain failed: %s (%s)", parsed.Error.Message, parsed.Error.Code)
		}
		return nil, fmt.Errorf("vercel add domain failed with status %d", resp.StatusCode)
	}

	data := &dnstypes.VerificationData{IsApex: isApex}
	for _, v := range parsed.Verification {
		data.Verification = append(data.Verification, dnstypes.VerificationToken{
			Type:   v.Type,
			Domain: v.Domain,
			Value:  v.Value,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"hostname": hostname,
		"tokens":   len(data.Verification),
	}).Info("hostname registered with vercel")

	return data, nil
}

// RemoveHost detaches a hostname from the project.
func (c *Client) RemoveHost(ctx context.Context, hostname string) error {
	endpoint := fmt.Sprintf("%s/v9/projects/%s/domains/%s",
		c.baseURL, url.PathEscape(c.projectID), url.PathEscape(hostname))

	resp, err := c.do(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrHostNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("vercel remove domain failed with status %d", resp.StatusCode)
	}

	c.logger.WithField("hostname", hostname).Info("hostname removed from vercel")
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, error) {
	if c.teamID != "" {
		sep := "?"
		if u, err := url.Parse(endpoint); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		endpoint += sep + "teamId=" + url.QueryEscape(c.teamID)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vercel request failed: %w", err)
	}
	return resp, nil
}
