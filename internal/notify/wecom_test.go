// internal/notify/wecom_test.go
package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/toynews-backend/internal/config"
)

func TestWeComSendText(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{"errcode": 0, "errmsg": "ok"})
	}))
	defer server.Close()

	notifier := NewWeComNotifier(config.NotifyConfig{WeComWebhook: server.URL, Timeout: 5})
	err := notifier.Send(context.Background(), Message{Title: "新增数据", Body: "商品名称: ルフィ"})
	require.NoError(t, err)

	assert.Equal(t, "text", captured["msgtype"])
	text := captured["text"].(map[string]interface{})
	assert.Contains(t, text["content"], "新增数据")
	assert.Contains(t, text["content"], "商品名称: ルフィ")
}

func TestWeComSendNewsCard(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{"errcode": 0, "errmsg": "ok"})
	}))
	defer server.Close()

	notifier := NewWeComNotifier(config.NotifyConfig{WeComWebhook: server.URL, Timeout: 5})
	err := notifier.Send(context.Background(), Message{
		Title:    "新增数据",
		Body:     "商品名称: ルフィ",
		ImageURL: "https://img/1.jpg",
		LinkURL:  "https://example.com/prize/1",
	})
	require.NoError(t, err)

	assert.Equal(t, "news", captured["msgtype"])
	articles := captured["news"].(map[string]interface{})["articles"].([]interface{})
	require.Len(t, articles, 1)
	article := articles[0].(map[string]interface{})
	assert.Equal(t, "https://img/1.jpg", article["picurl"])
	assert.Equal(t, "https://example.com/prize/1", article["url"])
}

func TestWeComWebhookError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"errcode": 93000, "errmsg": "invalid webhook url"})
	}))
	defer server.Close()

	notifier := NewWeComNotifier(config.NotifyConfig{WeComWebhook: server.URL, Timeout: 5})
	err := notifier.Send(context.Background(), Message{Title: "新增数据", Body: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "93000")
}

func TestWeComHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewWeComNotifier(config.NotifyConfig{WeComWebhook: server.URL, Timeout: 5})
	err := notifier.Send(context.Background(), Message{Title: "新增数据", Body: "x"})
	assert.Error(t, err)
}
