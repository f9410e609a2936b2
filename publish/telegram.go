package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/vetalione/content-pipeline/types"
)

// TelegramPublisher posts through the Telegram Bot API. It is the one
// platform with a real (non-browser) integration.
type TelegramPublisher struct {
	botToken   string
	chatID     string
	endpoint   string
	httpClient *http.Client
}

// NewTelegramPublisher wires the bot credentials; both must be non-empty for
// publishes to succeed.
func NewTelegramPublisher(botToken, chatID string, httpClient *http.Client) *TelegramPublisher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TelegramPublisher{botToken: botToken, chatID: chatID, httpClient: httpClient}
}

func (t *TelegramPublisher) Platform() types.Platform { return types.PlatformTelegram }

func (t *TelegramPublisher) Publish(ctx context.Context, article *types.Article, custom *types.PlatformCustomization) (*Result, error) {
	if t.botToken == "" || t.chatID == "" {
		return nil, errors.New("telegram bot token or chat id not configured")
	}

	endpoint := t.endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	}

	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", formatTelegramPost(article, custom))
	form.Set("parse_mode", "HTML")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	var parsed struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
		Result      struct {
			MessageID int64 `json:"message_id"`
			Chat      struct {
				Username string `json:"username"`
			} `json:"chat"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode telegram response: %w", err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("telegram API error: %s", parsed.Description)
	}

	channel := parsed.Result.Chat.Username
	if channel == "" {
		channel = strings.TrimPrefix(t.chatID, "@")
	}
	return &Result{URL: fmt.Sprintf("https://t.me/%s/%d", channel, parsed.Result.MessageID)}, nil
}

func formatTelegramPost(article *types.Article, custom *types.PlatformCustomization) string {
	title := article.CelebrityName
	body := ""
	if article.Content != nil {
		title = article.Content.Title
		body = article.Content.Intro
	}
	if custom != nil {
		if custom.Title != "" {
			title = custom.Title
		}
		if custom.Description != "" {
			body = custom.Description
		}
	}

	var sb strings.Builder
	sb.WriteString("<b>" + title + "</b>\n\n")
	if body != "" {
		sb.WriteString(body + "\n")
	}
	if custom != nil && len(custom.Hashtags) > 0 {
		sb.WriteString("\n")
		for i, tag := range custom.Hashtags {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString("#" + strings.TrimPrefix(tag, "#"))
		}
	}
	return sb.String()
}
