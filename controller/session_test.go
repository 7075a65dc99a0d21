// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

var testKey = APIKey{ConsumerKey: "ck", TokenKey: "tk", TokenSecret: "ts"}

func newTestSession(t *testing.T, handler http.HandlerFunc) *Session {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session, err := NewSession(SessionConfig{
		BaseURL:     server.URL,
		Key:         testKey,
		Description: []byte(testDescription),
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return session
}

func TestNewSession(t *testing.T) {
	t.Run("from saved values", func(t *testing.T) {
		session, err := NewSession(SessionConfig{
			BaseURL:     "http://controller.example.com",
			Key:         testKey,
			Description: []byte(testDescription),
		})
		if err != nil {
			t.Fatalf("NewSession failed: %v", err)
		}
		if session.BaseURL() != "http://controller.example.com/" {
			t.Errorf("base URL: got %q", session.BaseURL())
		}
		if session.Description().Resource("machines") == nil {
			t.Error("expected machines resource in parsed description")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := NewSession(SessionConfig{
			BaseURL:     "http://x/",
			Description: []byte(testDescription),
		})
		if err == nil {
			t.Fatal("expected error for missing key")
		}
	})

	t.Run("bad description", func(t *testing.T) {
		_, err := NewSession(SessionConfig{
			BaseURL:     "http://x/",
			Key:         testKey,
			Description: []byte("not json"),
		})
		if !errors.Is(err, ErrIncompatibleAPI) {
			t.Fatalf("expected ErrIncompatibleAPI, got %v", err)
		}
	})
}

func TestSessionCall(t *testing.T) {
	t.Run("GET sends params in query", func(t *testing.T) {
		session := newTestSession(t, func(writer http.ResponseWriter, request *http.Request) {
			if request.Method != http.MethodGet {
				t.Errorf("method: got %s", request.Method)
			}
			if request.URL.Path != "/api/2.0/machines/" {
				t.Errorf("path: got %s", request.URL.Path)
			}
			if got := request.URL.Query().Get("hostname"); got != "web01" {
				t.Errorf("hostname query param: got %q", got)
			}
			if !strings.HasPrefix(request.Header.Get("Authorization"), "OAuth ") {
				t.Errorf("missing OAuth authorization header: %q", request.Header.Get("Authorization"))
			}
			writer.Write([]byte(`[{"hostname":"web01"}]`))
		})

		body, err := session.Call(context.Background(), "machines.list", url.Values{"hostname": {"web01"}})
		if err != nil {
			t.Fatalf("Call failed: %v", err)
		}
		if !strings.Contains(string(body), "web01") {
			t.Errorf("unexpected body: %s", body)
		}
	})

	t.Run("POST sends op in query and params in body", func(t *testing.T) {
		session := newTestSession(t, func(writer http.ResponseWriter, request *http.Request) {
			if request.Method != http.MethodPost {
				t.Errorf("method: got %s", request.Method)
			}
			if got := request.URL.Query().Get("op"); got != "allocate" {
				t.Errorf("op query param: got %q", got)
			}
			if got := request.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
				t.Errorf("content type: got %q", got)
			}
			if err := request.ParseForm(); err != nil {
				t.Fatalf("parsing form: %v", err)
			}
			if got := request.PostForm.Get("hostname"); got != "web01" {
				t.Errorf("hostname form param: got %q", got)
			}
			writer.Write([]byte(`{"system_id":"abc123"}`))
		})

		_, err := session.Call(context.Background(), "machines.allocate", url.Values{"hostname": {"web01"}})
		if err != nil {
			t.Fatalf("Call failed: %v", err)
		}
	})

	t.Run("child resource path", func(t *testing.T) {
		session := newTestSession(t, func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/api/2.0/machines/interfaces/" {
				t.Errorf("path: got %s", request.URL.Path)
			}
			writer.Write([]byte(`[]`))
		})

		if _, err := session.Call(context.Background(), "machines.interfaces.list", nil); err != nil {
			t.Fatalf("Call failed: %v", err)
		}
	})

	t.Run("unknown method", func(t *testing.T) {
		session := newTestSession(t, func(writer http.ResponseWriter, request *http.Request) {
			t.Error("no request should be made for an unknown method")
		})

		_, err := session.Call(context.Background(), "machines.destroy", nil)
		if !errors.Is(err, ErrUnknownMethod) {
			t.Fatalf("expected ErrUnknownMethod, got %v", err)
		}
	})

	t.Run("server error carries code and status", func(t *testing.T) {
		session := newTestSession(t, func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusConflict)
			json.NewEncoder(writer).Encode(map[string]string{
				"code": "conflict", "message": "machine already allocated",
			})
		})

		_, err := session.Call(context.Background(), "machines.allocate", nil)
		var serverErr *ServerError
		if !errors.As(err, &serverErr) {
			t.Fatalf("expected *ServerError, got %v", err)
		}
		if serverErr.StatusCode != http.StatusConflict || serverErr.Code != "conflict" {
			t.Errorf("unexpected server error: %+v", serverErr)
		}
		if !IsServerError(err, "conflict") {
			t.Error("IsServerError should match the code")
		}
	})

	t.Run("non-JSON error body surfaces raw", func(t *testing.T) {
		session := newTestSession(t, func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadGateway)
			writer.Write([]byte("upstream exploded"))
		})

		_, err := session.Call(context.Background(), "machines.list", nil)
		var serverErr *ServerError
		if !errors.As(err, &serverErr) {
			t.Fatalf("expected *ServerError, got %v", err)
		}
		if serverErr.Message != "upstream exploded" {
			t.Errorf("message: got %q", serverErr.Message)
		}
	})

	t.Run("call failure does not invalidate the session", func(t *testing.T) {
		failNext := true
		session := newTestSession(t, func(writer http.ResponseWriter, request *http.Request) {
			if failNext {
				failNext = false
				writer.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(writer).Encode(map[string]string{"code": "internal", "message": "boom"})
				return
			}
			writer.Write([]byte(`[]`))
		})

		if _, err := session.Call(context.Background(), "machines.list", nil); err == nil {
			t.Fatal("expected first call to fail")
		}
		if _, err := session.Call(context.Background(), "machines.list", nil); err != nil {
			t.Fatalf("second call should succeed, got %v", err)
		}
	})

	t.Run("DELETE merges params into query", func(t *testing.T) {
		session := newTestSession(t, func(writer http.ResponseWriter, request *http.Request) {
			if request.Method != http.MethodDelete {
				t.Errorf("method: got %s", request.Method)
			}
			if got := request.URL.Query().Get("name"); got != "staging" {
				t.Errorf("name query param: got %q", got)
			}
			writer.WriteHeader(http.StatusNoContent)
		})

		if _, err := session.Call(context.Background(), "tags.delete", url.Values{"name": {"staging"}}); err != nil {
			t.Fatalf("Call failed: %v", err)
		}
	})
}
