//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/bodymeasures/internal/auth"
	"github.com/2beens/bodymeasures/internal/middleware"

	"github.com/stretchr/testify/require"
)

// newSession mints a session directly in redis, the way cmd/session does.
func (s *IntegrationTestSuite) newSession(ctx context.Context, userID string, role auth.Role) string {
	session, err := s.authService.CreateSession(ctx, userID, role, time.Now())
	require.NoError(s.T(), err)
	return session.Token
}

func (s *IntegrationTestSuite) seedPatient(ctx context.Context, userID, sexo string) {
	require.NoError(s.T(), s.store.CreatePatient(ctx, userID, sexo))
}

// doRequest sends body as JSON when it is not nil and returns status and body.
func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path, token string, body any) (int, []byte) {
	t := s.T()

	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", serverEndpoint, path), reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}
