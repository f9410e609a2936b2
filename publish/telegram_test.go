package publish

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vetalione/content-pipeline/types"
)

func TestTelegramPublish(t *testing.T) {
	var gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm error: %v", err)
		}
		gotText = r.FormValue("text")
		if r.FormValue("chat_id") != "@mychannel" {
			t.Fatalf("chat_id = %q; want @mychannel", r.FormValue("chat_id"))
		}
		w.Write([]byte(`{"ok": true, "result": {"message_id": 42, "chat": {"username": "mychannel"}}}`))
	}))
	defer srv.Close()

	pub := NewTelegramPublisher("token", "@mychannel", srv.Client())
	pub.endpoint = srv.URL

	article := &types.Article{
		ID:            "a-1",
		CelebrityName: "Test Person",
		Content:       &types.ArticleContent{Title: "10 failures", Intro: "They lost it all."},
	}
	custom := &types.PlatformCustomization{Hashtags: []string{"drama", "#comeback"}}

	result, err := pub.Publish(context.Background(), article, custom)
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if result.URL != "https://t.me/mychannel/42" {
		t.Fatalf("URL = %q; want https://t.me/mychannel/42", result.URL)
	}
	if !strings.Contains(gotText, "<b>10 failures</b>") {
		t.Fatalf("post text missing title: %q", gotText)
	}
	if !strings.Contains(gotText, "#drama #comeback") {
		t.Fatalf("hashtags not normalized: %q", gotText)
	}
}

func TestTelegramPublishAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "description": "chat not found"}`))
	}))
	defer srv.Close()

	pub := NewTelegramPublisher("token", "@mychannel", srv.Client())
	pub.endpoint = srv.URL

	_, err := pub.Publish(context.Background(), &types.Article{CelebrityName: "X"}, nil)
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("Publish = %v; want telegram API error", err)
	}
}

func TestTelegramUnconfigured(t *testing.T) {
	pub := NewTelegramPublisher("", "", nil)
	if _, err := pub.Publish(context.Background(), &types.Article{}, nil); err == nil {
		t.Fatalf("unconfigured publisher must error")
	}
}

func TestSessionStoreRoundTrip(t *testing.T) {
	sessions, err := NewSessionStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStore error: %v", err)
	}

	blob, err := sessions.Load(types.PlatformVK)
	if err != nil || blob != nil {
		t.Fatalf("Load before save = %v, %v; want nil, nil", blob, err)
	}

	if err := sessions.Save(types.PlatformVK, []byte(`{"cookies":[]}`)); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	blob, err = sessions.Load(types.PlatformVK)
	if err != nil || string(blob) != `{"cookies":[]}` {
		t.Fatalf("Load after save = %q, %v", blob, err)
	}

	if !strings.HasSuffix(sessions.Path(types.PlatformVK), "vk-state.json") {
		t.Fatalf("Path = %q; want per-platform state file", sessions.Path(types.PlatformVK))
	}
}

func TestBrowserPublisherReturnsDeterministicURL(t *testing.T) {
	sessions, err := NewSessionStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStore error: %v", err)
	}
	pub := NewBrowserPublisher(types.PlatformVK, sessions)

	result, err := pub.Publish(context.Background(), &types.Article{ID: "a-1"}, nil)
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if !strings.HasPrefix(result.URL, "https://vk.com/wall-123456_") {
		t.Fatalf("URL = %q; want vk wall post shape", result.URL)
	}
}
