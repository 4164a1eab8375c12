package main

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

func (s *AppServer) newMCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "naverblog-mcp",
		Version: "2.0.0",
	}, nil)

	s.registerTools(server)
	logrus.Info("Registered 6 MCP tools")
	return server
}

type toolHandler func(ctx context.Context, args map[string]any) *MCPToolResult

func noArgs(fn func(ctx context.Context) *MCPToolResult) toolHandler {
	return func(ctx context.Context, _ map[string]any) *MCPToolResult { return fn(ctx) }
}

func emptySchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func (s *AppServer) registerTools(server *mcp.Server) {
	addTool(server, &mcp.Tool{
		Name:        "check_login_status",
		Description: "检查 naver 登录状态",
		InputSchema: emptySchema(),
	}, noArgs(s.handleCheckLoginStatus))

	addTool(server, &mcp.Tool{
		Name:        "start_engagement_run",
		Description: "按关键词搜索 naver 博客文章，并对每篇文章执行互邻申请、点赞、评论等动作（后台运行）",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"keyword", "actions"},
			"properties": map[string]any{
				"keyword": map[string]any{"type": "string", "description": "搜索关键词"},
				"actions": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string", "enum": []string{"mutual", "neighbor", "like", "comment"}},
					"description": "启用的动作",
				},
				"mutual_only":       map[string]any{"type": "boolean", "description": "互邻失败时不降级为普通邻居"},
				"max_targets":       map[string]any{"type": "integer", "description": "最多处理的文章数，默认 10"},
				"delay_seconds":     map[string]any{"type": "number", "description": "文章之间的间隔秒数，默认 30"},
				"comments":          map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "评论内容，轮换使用"},
				"neighbor_messages": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "互邻申请留言，轮换使用"},
			},
		},
	}, s.handleStartRun)

	addTool(server, &mcp.Tool{
		Name:        "get_run_progress",
		Description: "查看当前（或最近一次）运行的进度",
		InputSchema: emptySchema(),
	}, noArgs(s.handleRunProgress))

	addTool(server, &mcp.Tool{
		Name:        "pause_run",
		Description: "暂停当前运行",
		InputSchema: emptySchema(),
	}, noArgs(s.handlePauseRun))

	addTool(server, &mcp.Tool{
		Name:        "resume_run",
		Description: "恢复已暂停的运行",
		InputSchema: emptySchema(),
	}, noArgs(s.handleResumeRun))

	addTool(server, &mcp.Tool{
		Name:        "stop_run",
		Description: "停止当前运行",
		InputSchema: emptySchema(),
	}, noArgs(s.handleStopRun))
}

// addTool 解析参数并把 MCPToolResult 转换为 SDK 的结果类型
func addTool(server *mcp.Server, tool *mcp.Tool, handler toolHandler) {
	server.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]any{}
		if raw := req.Params.Arguments; len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return convertToMCPResult(errorResult("参数解析失败: " + err.Error())), nil
			}
		}
		return convertToMCPResult(handler(ctx, args)), nil
	})
}

func convertToMCPResult(result *MCPToolResult) *mcp.CallToolResult {
	contents := make([]mcp.Content, 0, len(result.Content))
	for _, c := range result.Content {
		contents = append(contents, &mcp.TextContent{Text: c.Text})
	}
	return &mcp.CallToolResult{
		Content: contents,
		IsError: result.IsError,
	}
}
