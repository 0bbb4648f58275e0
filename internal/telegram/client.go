package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pinecone-be/internal/logger"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.telegram.org"

// Client is a minimal Bot API client; the service only ever sends messages.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(token string) *Client {
	if token == "" {
		logger.L().Warn("telegram bot token is empty")
	}

	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// WithBaseURL points the client at a different API host. Used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// SendMessage posts an HTML-formatted message to the chat, optionally with
// an inline keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) error {
	log := logger.FromCtx(ctx).With(
		zap.Int64("chat_id", chatID),
	)

	body := sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   "HTML",
		ReplyMarkup: markup,
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Error("failed creating telegram request", zap.Error(err))
		return err
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("telegram request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read telegram response: %w", err)
	}

	var res apiResponse
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		log.Error("failed decoding telegram response", zap.Error(err))
		return err
	}

	if !res.OK {
		log.Error("telegram returned error",
			zap.Int("http_status", resp.StatusCode),
			zap.Int("error_code", res.ErrorCode),
			zap.String("description", res.Description),
		)
		return fmt.Errorf("telegram error %d: %s", res.ErrorCode, res.Description)
	}

	return nil
}
