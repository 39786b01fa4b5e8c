package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramChannel_Send(t *testing.T) {
	var got map[string]any
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	ch := NewTelegramChannel(TelegramConfig{BotToken: "TOKEN", APIBase: srv.URL}, time.Second)
	require.NoError(t, ch.Send(context.Background(), "-100", "hello"))
	assert.Equal(t, "/botTOKEN/sendMessage", path)
	assert.Equal(t, "-100", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
}

func TestTelegramChannel_SendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	ch := NewTelegramChannel(TelegramConfig{BotToken: "TOKEN", APIBase: srv.URL}, time.Second)
	err := ch.Send(context.Background(), "1", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestTelegramChannel_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Gateway"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	ch := NewTelegramChannel(TelegramConfig{BotToken: "TOKEN", APIBase: srv.URL}, time.Second)
	require.NoError(t, ch.Send(context.Background(), "1", "hello"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestTelegramChannel_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Forbidden: bot was kicked"}`))
	}))
	defer srv.Close()

	ch := NewTelegramChannel(TelegramConfig{BotToken: "TOKEN", APIBase: srv.URL}, time.Second)
	require.Error(t, ch.Send(context.Background(), "1", "hello"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestTelegramChannel_NotConfigured(t *testing.T) {
	ch := NewTelegramChannel(TelegramConfig{}, time.Second)
	assert.ErrorIs(t, ch.Send(context.Background(), "1", "x"), ErrNotConfigured)
}

func TestWhatsAppChannel_Send(t *testing.T) {
	var got map[string]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"idMessage":"BAE5"}`))
	}))
	defer srv.Close()

	ch := NewWhatsAppChannel(WhatsAppConfig{BaseURL: srv.URL + "/", InstanceId: "1101", Token: "tkn"}, time.Second)
	require.NoError(t, ch.Send(context.Background(), "wa:12036302", "hi"))
	assert.Equal(t, "/waInstance1101/sendMessage/tkn", path)
	assert.Equal(t, "12036302@g.us", got["chatId"])
	assert.Equal(t, "hi", got["message"])
}

func TestWhatsAppChannel_SendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"instance not authorized"}`))
	}))
	defer srv.Close()

	ch := NewWhatsAppChannel(WhatsAppConfig{BaseURL: srv.URL, InstanceId: "1", Token: "t"}, time.Second)
	err := ch.Send(context.Background(), "x@g.us", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instance not authorized")
}

func TestNormalizeWhatsAppChatId(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"120363", "120363@g.us"},
		{"120363@g.us", "120363@g.us"},
		{"7999@c.us", "7999@c.us"},
		{"wa:120363", "120363@g.us"},
		{"wa:7999@c.us", "7999@c.us"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeWhatsAppChatId(tt.in), tt.in)
	}
}
