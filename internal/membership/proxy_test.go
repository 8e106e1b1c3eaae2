package membership

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method        string
	path          string
	authorization string
	contentType   string
	requestID     string
	body          string
}

func newAssessmentCore(t *testing.T, status int, reply string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		*captured = capturedRequest{
			method:        r.Method,
			path:          r.URL.Path,
			authorization: r.Header.Get("Authorization"),
			contentType:   r.Header.Get("Content-Type"),
			requestID:     r.Header.Get("X-Request-ID"),
			body:          string(raw),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	return srv, captured
}

func TestAddMember_Success(t *testing.T) {
	srv, captured := newAssessmentCore(t, http.StatusOK, `{"ignored":true}`)
	proxy := NewProxy(srv.URL + "/")
	body := json.RawMessage(`{"email":"jane@example.com"}`)

	result, err := proxy.AddMember(context.Background(), 12, "Bearer token-123", body)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Nil(t, result.Body)
	assert.Equal(t, http.StatusOK, result.StatusCode)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/assessment-core/api/spaces/12/members", captured.path)
	assert.Equal(t, "Bearer token-123", captured.authorization)
	assert.Equal(t, "application/json", captured.contentType)
	assert.Equal(t, `{"email":"jane@example.com"}`, captured.body)
	assert.NotEmpty(t, captured.requestID)

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"body":null,"status_code":200}`, string(raw))
}

func TestInviteMember_RemoteError(t *testing.T) {
	srv, captured := newAssessmentCore(t, http.StatusNotFound, `{"error":"not found"}`)
	proxy := NewProxy(srv.URL)

	result, err := proxy.InviteMember(context.Background(), 3, "Bearer t", json.RawMessage(`{"email":"new@example.com"}`))

	require.NoError(t, err)
	assert.Equal(t, "/assessment-core/api/spaces/3/invite", captured.path)
	assert.False(t, result.Success)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.JSONEq(t, `{"error":"not found"}`, string(result.Body))
}

func TestAddMember_NonJSONErrorBody(t *testing.T) {
	srv, _ := newAssessmentCore(t, http.StatusBadGateway, `<html>bad gateway</html>`)
	proxy := NewProxy(srv.URL)

	result, err := proxy.AddMember(context.Background(), 1, "", json.RawMessage(`{}`))

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestAddMember_TransportError(t *testing.T) {
	srv, _ := newAssessmentCore(t, http.StatusOK, ``)
	url := srv.URL
	srv.Close()

	result, err := NewProxy(url).AddMember(context.Background(), 1, "", json.RawMessage(`{}`))

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to call assessment-core")
}
