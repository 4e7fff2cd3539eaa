package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_DownloadBytes(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		if r.URL.Path != "/cover.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	client := NewClient()

	data, err := client.DownloadBytes(context.Background(), srv.URL+"/cover.jpg")
	if err != nil {
		t.Fatalf("DownloadBytes() error: %v", err)
	}
	if !bytes.Equal(data, []byte("image-bytes")) {
		t.Errorf("DownloadBytes() = %q", data)
	}
	if gotAgent != "splitaudio" {
		t.Errorf("User-Agent = %q", gotAgent)
	}

	if _, err := client.DownloadBytes(context.Background(), srv.URL+"/missing.jpg"); err == nil {
		t.Error("DownloadBytes() expected error for 404")
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"https://example.com/a.jpg", true},
		{"HTTP://example.com/a.jpg", true},
		{"/music/cover.jpg", false},
		{"cover.jpg", false},
		{"ftp://example.com/a.jpg", false},
	}

	for _, tt := range tests {
		if got := IsURL(tt.ref); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}
