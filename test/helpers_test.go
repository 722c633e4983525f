package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) doRequest(
	ctx context.Context,
	method, path string,
	body []byte,
) (int, []byte) {
	t := s.T()
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bodyReader)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) postJSON(ctx context.Context, path string, payload any) (int, []byte) {
	s.T().Helper()
	payloadBytes, err := json.Marshal(payload)
	require.NoError(s.T(), err)
	return s.doRequest(ctx, "POST", path, payloadBytes)
}

func (s *IntegrationTestSuite) get(ctx context.Context, path string) (int, []byte) {
	s.T().Helper()
	return s.doRequest(ctx, "GET", path, nil)
}

func (s *IntegrationTestSuite) delete(ctx context.Context, path string) (int, []byte) {
	s.T().Helper()
	return s.doRequest(ctx, "DELETE", path, nil)
}

func (s *IntegrationTestSuite) createUser(ctx context.Context, name, email string) string {
	t := s.T()
	t.Helper()

	status, respBytes := s.postJSON(ctx, "/users", map[string]any{
		"name":       name,
		"email":      email,
		"age":        30,
		"weight_lbs": 150,
	})
	require.Equal(t, http.StatusCreated, status, string(respBytes))

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(respBytes, &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func uniqueEmail(name string) string {
	return fmt.Sprintf("%s-%s@test.local", name, gofakeit.LetterN(8))
}
