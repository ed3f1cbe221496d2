package server_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/alkime/avatarcast/internal/config"
	"github.com/alkime/avatarcast/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	tmp := t.TempDir()
	cfg := &config.Config{
		Env:            "test",
		Port:           "8080",
		UploadDir:      tmp + "/uploads",
		OutputDir:      tmp + "/output",
		StaticDir:      tmp + "/static",
		MaxUploadBytes: 1 << 20,
		HSTSMaxAge:     31536000,
		CSPMode:        "relaxed",
		LogLevel:       "info",
	}

	// Create a test logger (discard non-errors)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	srv, err := server.New(cfg, logger)
	require.NoError(t, err)

	return srv
}

func doJSON(t *testing.T, srv *server.Server, method, path string, body []byte) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))

	return w, decoded
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w, body := doJSON(t, srv, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	services, ok := body["services"].(map[string]any)
	require.True(t, ok, "services map should be present")
	assert.Equal(t, "ok", services["tts_service"])
}

func TestStartServices(t *testing.T) {
	srv := newTestServer(t)

	w, body := doJSON(t, srv, http.MethodPost, "/api/start_services", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["message"])
}

func TestVoicesByFilter(t *testing.T) {
	srv := newTestServer(t)

	w, body := doJSON(t, srv, http.MethodGet, "/api/voices?language=en-US&gender=male", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	voices, ok := body["voices"].([]any)
	require.True(t, ok)
	require.Len(t, voices, 2)

	first := voices[0].(map[string]any)
	assert.Equal(t, "en-US-GuyNeural", first["id"])
}

func TestAvatarsUnknownFilterReturnsEmptyList(t *testing.T) {
	srv := newTestServer(t)

	w, body := doJSON(t, srv, http.MethodGet, "/api/avatars?language=fr-FR&gender=female", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	avatars, ok := body["avatars"].([]any)
	require.True(t, ok, "avatars should be an empty list, not null")
	assert.Empty(t, avatars)
}

func TestLanguages(t *testing.T) {
	srv := newTestServer(t)

	w, body := doJSON(t, srv, http.MethodGet, "/api/languages", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	langs, ok := body["languages"].([]any)
	require.True(t, ok)
	assert.Len(t, langs, 3)
}

func uploadFile(t *testing.T, srv *server.Server, filename string, contents []byte) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(contents)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))

	return w, decoded
}

func TestUploadTextFileExtractsText(t *testing.T) {
	srv := newTestServer(t)

	w, body := uploadFile(t, srv, "speech.txt", []byte("hello from the upload test"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["file_id"])
	assert.Equal(t, "txt", body["file_ext"])
	assert.Equal(t, "hello from the upload test", body["text"])
}

func TestUploadAudioFileSkipsExtraction(t *testing.T) {
	srv := newTestServer(t)

	w, body := uploadFile(t, srv, "narration.mp3", []byte{0xff, 0xfb, 0x90})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mp3", body["file_ext"])
	assert.Equal(t, "", body["text"])
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	srv := newTestServer(t)

	w, body := uploadFile(t, srv, "malware.exe", []byte("nope"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unsupported file type", body["error"])
}

func TestGenerateWithText(t *testing.T) {
	srv := newTestServer(t)

	payload := []byte(`{"language":"zh-CN","gender":"female","voice_id":"v1","avatar_id":"a1","video_mode":"scene_switching","text":"hello"}`)
	w, body := doJSON(t, srv, http.MethodPost, "/api/generate", payload)

	assert.Equal(t, http.StatusOK, w.Code)
	videoID, _ := body["final_video_id"].(string)
	require.NotEmpty(t, videoID)
	assert.Equal(t, "/api/video/"+videoID, body["preview_url"])
	assert.Equal(t, "/api/download/"+videoID, body["download_url"])

	// The fabricated output should be retrievable through the preview route.
	req := httptest.NewRequest(http.MethodGet, "/api/video/"+videoID, nil)
	resp := httptest.NewRecorder()
	srv.Router().ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestGenerateValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{
			name:    "missing text and file",
			payload: `{"voice_id":"v1","avatar_id":"a1"}`,
			wantErr: "missing text or audio file",
		},
		{
			name:    "missing voice",
			payload: `{"text":"hi","avatar_id":"a1"}`,
			wantErr: "missing voice selection",
		},
		{
			name:    "missing avatar",
			payload: `{"text":"hi","voice_id":"v1"}`,
			wantErr: "missing avatar selection",
		},
		{
			name:    "text file id is not narration",
			payload: `{"file_id":"f1","file_ext":"txt","voice_id":"v1","avatar_id":"a1"}`,
			wantErr: "missing text or audio file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := doJSON(t, srv, http.MethodPost, "/api/generate", []byte(tt.payload))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantErr, body["error"])
		})
	}
}

func TestDownloadUnknownVideo(t *testing.T) {
	srv := newTestServer(t)

	w, body := doJSON(t, srv, http.MethodGet, "/api/download/nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "video not found", body["error"])
}
