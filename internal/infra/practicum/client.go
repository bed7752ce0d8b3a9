// internal/infra/practicum/client.go
package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

// DefaultEndpoint is the homework status API of Yandex Practicum.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Client performs one GET against the homework status endpoint per Fetch call.
// It never retries.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     logrus.FieldLogger
}

func NewClient(endpoint, token string, timeout time.Duration, logger logrus.FieldLogger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.WithField("component", "practicum"),
	}
}

// Fetch requests homeworks modified at or after fromDate (unix seconds).
// Every failure is a *homework.TransportError.
func (c *Client) Fetch(ctx context.Context, fromDate int64) (json.RawMessage, error) {
	reqURL, err := c.requestURL(fromDate)
	if err != nil {
		return nil, &homework.TransportError{Reason: homework.ReasonNetwork, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &homework.TransportError{Reason: homework.ReasonNetwork, Err: err}
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	c.logger.WithField("from_date", fromDate).Info("Requesting homework statuses")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("Status API did not respond")
		return nil, &homework.TransportError{Reason: homework.ReasonNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		c.logger.WithField("status_code", resp.StatusCode).Error("Status API returned unexpected status")
		return nil, &homework.TransportError{Reason: homework.ReasonStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.logger.WithError(err).Error("Failed to read status API response")
		return nil, &homework.TransportError{Reason: homework.ReasonNetwork, StatusCode: resp.StatusCode, Err: err}
	}
	if !json.Valid(body) {
		c.logger.WithField("body_bytes", len(body)).Error("Status API response is not valid JSON")
		return nil, &homework.TransportError{
			Reason:     homework.ReasonBody,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("response body is not valid JSON"),
		}
	}

	c.logger.Debug("Homework statuses received")
	return json.RawMessage(body), nil
}

func (c *Client) requestURL(fromDate int64) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", c.endpoint, err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
