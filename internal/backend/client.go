package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ErrReplyUnavailable wraps every failure to obtain a reply: transport errors,
// non-2xx statuses and bodies that do not carry response.text.
var ErrReplyUnavailable = errors.New("reply unavailable")

// Client talks to the chat-response service
type Client struct {
	baseURL    string
	userID     int
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer

	duration metric.Float64Histogram
	replies  metric.Int64Counter
}

// NewClient creates a client for the service rooted at baseURL.
// A zero timeout leaves the request bounded only by the transport.
func NewClient(baseURL string, userID int, timeout time.Duration, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", baseURL, err)
	}

	duration, err := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	replies, err := meter.Int64Counter(
		"chat.replies",
		metric.WithDescription("Assistant replies by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create replies counter: %w", err)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     userID,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		tracer:     tracer,
		duration:   duration,
		replies:    replies,
	}, nil
}

// SendMessage posts the user's text and returns the service's reply.
func (c *Client) SendMessage(ctx context.Context, text string) (*MessageResponse, error) {
	ctx, span := c.tracer.Start(ctx, "chat_message_call")
	defer span.End()

	var resp MessageResponse
	err := c.do(ctx, http.MethodPost, "/message", MessageRequest{Text: text, UserID: c.userID}, &resp)
	if err == nil && (resp.Response == nil || resp.Response.Text == nil) {
		err = errors.New("response has no reply text")
	}

	outcome := "success"
	if err != nil {
		outcome = "failure"
		err = fmt.Errorf("%w: %w", ErrReplyUnavailable, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "reply unavailable")
		c.logger.Error("failed to get reply", "error", err, "user_id", c.userID)
	}
	c.replies.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))

	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("chat.conversation_id", resp.ConversationID))
	c.logger.Info("reply received", "conversation_id", resp.ConversationID, "length", len(*resp.Response.Text))
	return &resp, nil
}

// Conversation fetches the stored history of a server-side conversation.
func (c *Client) Conversation(ctx context.Context, id int) (*ConversationResponse, error) {
	ctx, span := c.tracer.Start(ctx, "chat_conversation_call")
	defer span.End()

	var resp ConversationResponse
	if err := c.do(ctx, http.MethodGet, "/conversation/"+strconv.Itoa(id), nil, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "conversation unavailable")
		return nil, fmt.Errorf("failed to fetch conversation %d: %w", id, err)
	}
	return &resp, nil
}

// SubmitFeedback rates a stored message from 1 to 5.
func (c *Client) SubmitFeedback(ctx context.Context, messageID, rating int, comment string) (*FeedbackResponse, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}

	ctx, span := c.tracer.Start(ctx, "chat_feedback_call")
	defer span.End()

	query := url.Values{}
	query.Set("rating", strconv.Itoa(rating))
	if comment != "" {
		query.Set("comment", comment)
	}

	var resp FeedbackResponse
	path := "/feedback/" + strconv.Itoa(messageID) + "?" + query.Encode()
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "feedback rejected")
		return nil, fmt.Errorf("failed to submit feedback for message %d: %w", messageID, err)
	}
	return &resp, nil
}

// do sends one JSON request and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	start := time.Now()
	defer func() {
		c.duration.Record(ctx, float64(time.Since(start).Milliseconds()),
			metric.WithAttributes(attribute.String("http.request.method", method)))
	}()

	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("content-type", "application/json")
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("API error: %s - %s", resp.Status, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	c.logger.Debug("request completed", "method", method, "path", path, "status", resp.StatusCode)
	return nil
}
