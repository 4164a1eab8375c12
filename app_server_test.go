package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppServer(t *testing.T) (*AppServer, *fakeRunner) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	runner := newFakeRunner()
	app := NewAppServer(newNaverBlogService(runner))
	t.Cleanup(func() {
		_ = app.service.Shutdown(context.Background())
	})
	return app, runner
}

func doRequest(t *testing.T, app *AppServer, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	app, _ := newTestAppServer(t)
	w := doRequest(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestLoginStatusAPI(t *testing.T) {
	app, _ := newTestAppServer(t)
	w := doRequest(t, app, http.MethodGet, "/api/v1/login/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                `json:"success"`
		Data    LoginStatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.IsLoggedIn)
}

func TestRunAPI(t *testing.T) {
	app, runner := newTestAppServer(t)

	w := doRequest(t, app, http.MethodGet, "/api/v1/runs/current", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, app, http.MethodPost, "/api/v1/runs", map[string]any{"keyword": "맛집"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "缺少 actions")

	w = doRequest(t, app, http.MethodPost, "/api/v1/runs", map[string]any{"keyword": "맛집", "actions": []string{"like", "comment"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	<-runner.started

	w = doRequest(t, app, http.MethodPost, "/api/v1/runs", map[string]any{"keyword": "맛집", "actions": []string{"like"}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, app, http.MethodPost, "/api/v1/runs/current/pause", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"paused"`)

	w = doRequest(t, app, http.MethodPost, "/api/v1/runs/current/resume", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"running"`)

	w = doRequest(t, app, http.MethodPost, "/api/v1/runs/current/stop", nil)
	require.Equal(t, http.StatusOK, w.Code)

	waitState(t, app.service, RunStateStopped)
	w = doRequest(t, app, http.MethodGet, "/api/v1/runs/current", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"stopped"`)

	w = doRequest(t, app, http.MethodPost, "/api/v1/runs/current/stop", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func mcpSession(t *testing.T, app *AppServer) *mcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverT, clientT := mcp.NewInMemoryTransports()
	go func() {
		_ = app.mcpServer.Run(ctx, serverT)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args any) (string, bool) {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text, result.IsError
}

func TestMCPTools(t *testing.T) {
	app, runner := newTestAppServer(t)
	session := mcpSession(t, app)

	tools, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"check_login_status", "start_engagement_run", "get_run_progress",
		"pause_run", "resume_run", "stop_run",
	}, names)

	text, isErr := callTool(t, session, "check_login_status", map[string]any{})
	assert.False(t, isErr)
	assert.Contains(t, text, "已登录")

	_, isErr = callTool(t, session, "get_run_progress", map[string]any{})
	assert.True(t, isErr)

	text, isErr = callTool(t, session, "start_engagement_run", map[string]any{
		"keyword":       "카페",
		"actions":       []string{"mutual", "comment"},
		"max_targets":   5,
		"delay_seconds": 1.5,
		"comments":      []string{"좋아요"},
	})
	require.False(t, isErr, text)
	<-runner.started
	assert.Equal(t, 5, runner.cfg.MaxTargets)
	assert.Equal(t, 1.5, runner.cfg.DelaySeconds)
	assert.Equal(t, []string{"좋아요"}, runner.cfg.CommentPool)

	text, isErr = callTool(t, session, "pause_run", map[string]any{})
	assert.False(t, isErr)
	assert.Contains(t, text, "paused")

	_, isErr = callTool(t, session, "resume_run", map[string]any{})
	assert.False(t, isErr)

	_, isErr = callTool(t, session, "stop_run", map[string]any{})
	assert.False(t, isErr)
	waitState(t, app.service, RunStateStopped)

	text, isErr = callTool(t, session, "get_run_progress", map[string]any{})
	assert.False(t, isErr)
	assert.Contains(t, text, "stopped")
}
