// internal/notify/wecom.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/javajoker/toynews-backend/internal/config"
)

// WeComNotifier pushes alerts to a WeCom (企业微信) group robot webhook.
// Text messages carry the body inline; when an image is available a "news"
// card is sent instead so the alert shows the product picture.
type WeComNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewWeComNotifier(cfg config.NotifyConfig) *WeComNotifier {
	return &WeComNotifier{
		webhookURL: cfg.WeComWebhook,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

type wecomTextPayload struct {
	MsgType string `json:"msgtype"`
	Text    struct {
		Content             string   `json:"content"`
		MentionedMobileList []string `json:"mentioned_mobile_list,omitempty"`
	} `json:"text"`
}

type wecomNewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	PicURL      string `json:"picurl,omitempty"`
}

type wecomNewsPayload struct {
	MsgType string `json:"msgtype"`
	News    struct {
		Articles []wecomNewsArticle `json:"articles"`
	} `json:"news"`
}

func (n *WeComNotifier) Send(ctx context.Context, msg Message) error {
	var payload interface{}
	if msg.ImageURL != "" {
		news := wecomNewsPayload{MsgType: "news"}
		news.News.Articles = []wecomNewsArticle{{
			Title:       msg.Title,
			Description: msg.Body,
			URL:         msg.LinkURL,
			PicURL:      msg.ImageURL,
		}}
		payload = news
	} else {
		text := wecomTextPayload{MsgType: "text"}
		text.Text.Content = fmt.Sprintf("【%s】\n%s", msg.Title, msg.Body)
		payload = text
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("wecom: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("wecom: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("wecom: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("wecom: webhook returned %d: %s", resp.StatusCode, string(raw))
	}

	var result struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && result.ErrCode != 0 {
		return fmt.Errorf("wecom: webhook error %d: %s", result.ErrCode, result.ErrMsg)
	}
	return nil
}
