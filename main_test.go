package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/suzukikyou/obfuscator/internal/obfuscate"
	"github.com/suzukikyou/obfuscator/internal/records"
)

func newTestApp(repo records.Repository) *App {
	codec := obfuscate.New()
	return &App{
		Codec:          codec,
		Records:        records.NewService(repo, codec),
		BaseURL:        "http://localhost:8080",
		DefaultVariant: obfuscate.Variant36,
	}
}

func TestEncodeHandler(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		expectedStatus int
		wantVariant    string
		wantBody       string
	}{
		{
			name:           "default variant",
			requestBody:    `{"text":"hello"}`,
			expectedStatus: http.StatusOK,
			wantVariant:    "base36",
		},
		{
			name:           "base100 variant",
			requestBody:    `{"text":"hello","variant":"100"}`,
			expectedStatus: http.StatusOK,
			wantVariant:    "base100",
		},
		{
			name:           "empty text",
			requestBody:    `{"text":""}`,
			expectedStatus: http.StatusOK,
			wantVariant:    "base36",
		},
		{
			name:           "invalid JSON",
			requestBody:    `{invalid json}`,
			expectedStatus: http.StatusBadRequest,
			wantBody:       "Invalid request body",
		},
		{
			name:           "unknown variant",
			requestBody:    `{"text":"hello","variant":"62"}`,
			expectedStatus: http.StatusBadRequest,
			wantBody:       "Invalid variant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&records.MockRepository{})

			req := httptest.NewRequest("POST", "/api/encode", bytes.NewBufferString(tt.requestBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			app.EncodeHandler(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.wantBody != "" {
				if body := strings.TrimSpace(w.Body.String()); !strings.Contains(body, tt.wantBody) {
					t.Errorf("Expected %q error, got: %s", tt.wantBody, body)
				}
				return
			}

			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
			}
			var resp EncodeResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Token == "" {
				t.Error("token is empty")
			}
			if resp.Variant != tt.wantVariant {
				t.Errorf("Expected variant %q, got %q", tt.wantVariant, resp.Variant)
			}
		})
	}
}

func TestDecodeHandler(t *testing.T) {
	codec := obfuscate.New()
	token36, err := codec.Encode("round trip", obfuscate.Variant36)
	if err != nil {
		t.Fatal(err)
	}
	token100, err := codec.Encode("çok gizli", obfuscate.Variant100)
	if err != nil {
		t.Fatal(err)
	}

	body := func(token, variant string) string {
		b, _ := json.Marshal(DecodeRequest{Token: token, Variant: variant})
		return string(b)
	}

	tests := []struct {
		name           string
		requestBody    string
		expectedStatus int
		wantText       string
		wantBody       string
	}{
		{
			name:           "base36 token with default variant",
			requestBody:    body(token36, ""),
			expectedStatus: http.StatusOK,
			wantText:       "round trip",
		},
		{
			name:           "base100 token",
			requestBody:    body(token100, "base100"),
			expectedStatus: http.StatusOK,
			wantText:       "çok gizli",
		},
		{
			name:           "empty token",
			requestBody:    body("", ""),
			expectedStatus: http.StatusBadRequest,
			wantBody:       "Token is required",
		},
		{
			name:           "character outside alphabet",
			requestBody:    body("QQQ", "36"),
			expectedStatus: http.StatusUnprocessableEntity,
			wantBody:       "Token could not be decoded",
		},
		{
			name:           "valid digits without salt",
			requestBody:    body("7a5", "36"),
			expectedStatus: http.StatusUnprocessableEntity,
			wantBody:       "Token could not be decoded",
		},
		{
			name:           "unknown variant",
			requestBody:    body(token36, "64"),
			expectedStatus: http.StatusBadRequest,
			wantBody:       "Invalid variant",
		},
		{
			name:           "oversized token",
			requestBody:    body(strings.Repeat("q", maxBodyBytes), "36"),
			expectedStatus: http.StatusRequestEntityTooLarge,
			wantBody:       "Request body too large",
		},
		{
			name:           "invalid JSON",
			requestBody:    `{"token":`,
			expectedStatus: http.StatusBadRequest,
			wantBody:       "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&records.MockRepository{})

			req := httptest.NewRequest("POST", "/api/decode", bytes.NewBufferString(tt.requestBody))
			w := httptest.NewRecorder()

			app.DecodeHandler(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.wantBody != "" {
				if body := strings.TrimSpace(w.Body.String()); !strings.Contains(body, tt.wantBody) {
					t.Errorf("Expected %q error, got: %s", tt.wantBody, body)
				}
				return
			}

			var resp DecodeResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Text != tt.wantText {
				t.Errorf("Expected text %q, got %q", tt.wantText, resp.Text)
			}
		})
	}
}

func TestStoreHandler(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		mockSaveID     uint64
		mockSaveError  error
		expectedStatus int
		wantCode       string
		wantBody       string
	}{
		{
			name:           "successful store",
			requestBody:    `{"value":"https://www.google.com"}`,
			mockSaveID:     1,
			expectedStatus: http.StatusOK,
			wantCode:       "q",
		},
		{
			name:           "large id",
			requestBody:    `{"value":"x"}`,
			mockSaveID:     12345,
			expectedStatus: http.StatusOK,
			wantCode:       "7a5",
		},
		{
			name:           "invalid JSON",
			requestBody:    `{invalid json}`,
			expectedStatus: http.StatusBadRequest,
			wantBody:       "Invalid request body",
		},
		{
			name:           "repository timeout",
			requestBody:    `{"value":"x"}`,
			mockSaveError:  context.DeadlineExceeded,
			expectedStatus: http.StatusRequestTimeout,
			wantBody:       "Request timeout",
		},
		{
			name:           "repository failure",
			requestBody:    `{"value":"x"}`,
			mockSaveError:  errors.New("connection refused"),
			expectedStatus: http.StatusInternalServerError,
			wantBody:       "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&records.MockRepository{
				SaveFunc: func(ctx context.Context, payload string) (uint64, error) {
					return tt.mockSaveID, tt.mockSaveError
				},
			})

			req := httptest.NewRequest("POST", "/api/records", bytes.NewBufferString(tt.requestBody))
			w := httptest.NewRecorder()

			app.StoreHandler(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.wantBody != "" {
				if body := strings.TrimSpace(w.Body.String()); !strings.Contains(body, tt.wantBody) {
					t.Errorf("Expected %q error, got: %s", tt.wantBody, body)
				}
				return
			}

			var resp StoreResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("Expected code %q, got %q", tt.wantCode, resp.Code)
			}
			if !strings.HasSuffix(resp.URL, "/api/records/"+tt.wantCode) {
				t.Errorf("Expected url to end with /api/records/%s, got %s", tt.wantCode, resp.URL)
			}
		})
	}
}

func TestResolveHandler(t *testing.T) {
	codec := obfuscate.New()
	payload, err := codec.Encode("https://www.google.com", obfuscate.Variant100)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name           string
		code           string
		mockPayload    string
		mockError      error
		expectedStatus int
		wantValue      string
		wantBody       string
	}{
		{
			name:           "successful resolve",
			code:           "q",
			mockPayload:    payload,
			expectedStatus: http.StatusOK,
			wantValue:      "https://www.google.com",
		},
		{
			name:           "record not found",
			code:           "7a5",
			mockError:      records.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			wantBody:       "Record not found",
		},
		{
			name:           "invalid code",
			code:           "invalid!@#",
			expectedStatus: http.StatusBadRequest,
			wantBody:       "Invalid record code",
		},
		{
			name:           "empty code",
			code:           "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "timeout error",
			code:           "q",
			mockError:      context.DeadlineExceeded,
			expectedStatus: http.StatusRequestTimeout,
			wantBody:       "Request timeout",
		},
		{
			name:           "corrupt payload",
			code:           "q",
			mockPayload:    "garbage",
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&records.MockRepository{
				GetFunc: func(ctx context.Context, id uint64) (string, error) {
					return tt.mockPayload, tt.mockError
				},
			})

			req := httptest.NewRequest("GET", "/api/records/"+tt.code, nil)
			req = mux.SetURLVars(req, map[string]string{"code": tt.code})
			w := httptest.NewRecorder()

			app.ResolveHandler(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.wantBody != "" {
				if body := strings.TrimSpace(w.Body.String()); !strings.Contains(body, tt.wantBody) {
					t.Errorf("Expected %q error, got: %s", tt.wantBody, body)
				}
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp ResolveResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Value != tt.wantValue {
				t.Errorf("Expected value %q, got %q", tt.wantValue, resp.Value)
			}
		})
	}
}

func TestRouter_StoreThenResolve(t *testing.T) {
	router := NewRouter(newTestApp(records.MemoryRepository()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/records", bytes.NewBufferString(`{"value":"a###b"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("store: expected 200, got %d", w.Code)
	}
	var stored StoreResponse
	if err := json.NewDecoder(w.Body).Decode(&stored); err != nil {
		t.Fatal(err)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/records/"+stored.Code, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("resolve: expected 200, got %d", w.Code)
	}
	var resolved ResolveResponse
	if err := json.NewDecoder(w.Body).Decode(&resolved); err != nil {
		t.Fatal(err)
	}
	if resolved.Value != "a###b" {
		t.Errorf("Expected value %q, got %q", "a###b", resolved.Value)
	}
}

func TestRouter_EncodeThenDecode(t *testing.T) {
	router := NewRouter(newTestApp(&records.MockRepository{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/encode", bytes.NewBufferString(`{"text":"über","variant":"base100"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("encode: expected 200, got %d", w.Code)
	}
	var encoded EncodeResponse
	if err := json.NewDecoder(w.Body).Decode(&encoded); err != nil {
		t.Fatal(err)
	}

	reqBody, _ := json.Marshal(DecodeRequest{Token: encoded.Token, Variant: encoded.Variant})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/decode", bytes.NewReader(reqBody)))
	if w.Code != http.StatusOK {
		t.Fatalf("decode: expected 200, got %d", w.Code)
	}
	var decoded DecodeResponse
	if err := json.NewDecoder(w.Body).Decode(&decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Text != "über" {
		t.Errorf("Expected text %q, got %q", "über", decoded.Text)
	}
}

func TestHealthHandler(t *testing.T) {
	router := NewRouter(newTestApp(&records.MockRepository{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}
