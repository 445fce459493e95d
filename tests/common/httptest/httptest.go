//go:build unit || e2e

package httptest

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"enrollment-core/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Identity carries the forwarded identity headers a request runs under.
// A zero value sends no headers, exercising the unauthenticated path.
type Identity struct {
	ActorID string
	Role    string
}

// PerformRequest executes an HTTP request against the router with the given
// identity headers.
func PerformRequest(t *testing.T, router *gin.Engine, method, path string, body any, identity Identity) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Failed to encode request body to JSON")
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if identity.ActorID != "" {
		req.Header.Set(middleware.HeaderActorID, identity.ActorID)
	}
	if identity.Role != "" {
		req.Header.Set(middleware.HeaderActorRole, identity.Role)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// DecodeResponseBody decodes a JSON response body into the target struct.
func DecodeResponseBody(t *testing.T, body *bytes.Buffer, target any) error {
	t.Helper()

	err := json.NewDecoder(body).Decode(target)
	require.NoError(t, err, "Failed to decode response body")

	return err
}
