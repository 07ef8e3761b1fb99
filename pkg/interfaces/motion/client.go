package motion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ClientOption allows for customization of the client
type ClientOption func(*MotionClient)

// MotionClient is the JSON-over-HTTP client for the robot's motion gateway.
type MotionClient struct {
	config  *MotionConfig
	auth    *Authenticator
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewMotionClient creates a new motion gateway client
func NewMotionClient(config *MotionConfig, opts ...ClientOption) (*MotionClient, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	auth, err := NewAuthenticator(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	window := time.Duration(config.RateWindow) * time.Second
	limit := rate.Every(window / time.Duration(config.RateLimit))

	client := &MotionClient{
		config:  config,
		auth:    auth,
		limiter: rate.NewLimiter(limit, 1),
		logger:  config.Logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// SendMove submits a motion command to the gateway.
func (c *MotionClient) SendMove(ctx context.Context, req MoveRequest) error {
	resp, err := c.makeRequest(ctx, http.MethodPost, c.config.MoveEndpoint, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.handleResponse(resp); err != nil {
		return err
	}

	var body commandResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode move response: %w", err)
	}
	if !body.Accepted {
		return fmt.Errorf("gateway rejected move command %s", body.CommandID)
	}

	c.logger.WithFields(logrus.Fields{
		"command_id": body.CommandID,
		"dx":         req.DX,
		"yaw":        req.Yaw,
		"speed":      req.Speed,
	}).Debug("Move command accepted")

	return nil
}

// SendSpeech submits an utterance to the gateway's speaker.
func (c *MotionClient) SendSpeech(ctx context.Context, req SpeechRequest) error {
	if req.Text == "" {
		return fmt.Errorf("speech text is required")
	}

	resp, err := c.makeRequest(ctx, http.MethodPost, c.config.SpeechEndpoint, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

// Halt stops the drive base immediately. Halt bypasses the rate limiter.
func (c *MotionClient) Halt(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, c.config.HaltEndpoint, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

// GetStatus fetches the robot's current pose, state, and battery level.
func (c *MotionClient) GetStatus(ctx context.Context) (*RobotStatus, error) {
	resp, err := c.makeRequest(ctx, http.MethodGet, c.config.StatusEndpoint, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.handleResponse(resp); err != nil {
		return nil, err
	}

	var status RobotStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}

	return &status, nil
}

// handleResponse checks for API errors in the response
func (c *MotionClient) handleResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	var errResp struct {
		Errors []struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		} `json:"errors"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil {
		return fmt.Errorf("gateway error: status=%d body=%s", resp.StatusCode, string(body))
	}

	if len(errResp.Errors) > 0 {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"error_code":  errResp.Errors[0].Code,
			"message":     errResp.Errors[0].Message,
		}).Error("Motion gateway error")
		return fmt.Errorf("gateway error: code=%d message=%s",
			errResp.Errors[0].Code, errResp.Errors[0].Message)
	}

	return fmt.Errorf("gateway error: status=%d", resp.StatusCode)
}

// makeRequest waits for the rate limiter and issues one request.
func (c *MotionClient) makeRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}
	return c.doRequest(ctx, method, endpoint, body)
}

func (c *MotionClient) doRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		c.logger.WithField("request_body", string(jsonBody)).Debug("Request payload")
	}

	fullURL := c.config.BaseURL + endpoint

	var resp *http.Response
	var err error
	for attempt := 0; attempt < c.config.RetryAttempts; attempt++ {
		var bodyReader io.Reader
		if jsonBody != nil {
			bodyReader = bytes.NewReader(jsonBody)
		}

		var req *http.Request
		req, err = http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		c.auth.SetAuthHeader(req)

		resp, err = c.auth.GetClient().Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if err == nil {
			resp.Body.Close()
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt+1 == c.config.RetryAttempts {
			break
		}

		c.logger.WithFields(logrus.Fields{
			"attempt":  attempt + 1,
			"endpoint": endpoint,
		}).Warn("Gateway request failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 500 * time.Millisecond):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	return nil, fmt.Errorf("gateway unavailable after %d attempts", c.config.RetryAttempts)
}
