package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// MCP 工具处理函数

func textResult(text string) *MCPToolResult {
	return &MCPToolResult{Content: []MCPContent{{Type: "text", Text: text}}}
}

func errorResult(text string) *MCPToolResult {
	return &MCPToolResult{Content: []MCPContent{{Type: "text", Text: text}}, IsError: true}
}

func jsonResult(prefix string, v any) *MCPToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("序列化结果失败: %v", err))
	}
	return textResult(prefix + "\n\n" + string(data))
}

// handleCheckLoginStatus 处理检查登录状态
func (s *AppServer) handleCheckLoginStatus(ctx context.Context) *MCPToolResult {
	logrus.Info("MCP: 检查登录状态")

	status, err := s.service.CheckLoginStatus(ctx)
	if err != nil {
		return errorResult("检查登录状态失败: " + err.Error())
	}

	if !status.IsLoggedIn {
		return textResult("未登录 naver，请先在浏览器中登录并保存 cookies")
	}
	return textResult("已登录 naver")
}

// handleStartRun 启动互动运行
func (s *AppServer) handleStartRun(_ context.Context, args map[string]any) *MCPToolResult {
	keyword, _ := args["keyword"].(string)
	req := &StartRunRequest{
		Keyword:          keyword,
		Actions:          stringSlice(args["actions"]),
		Comments:         stringSlice(args["comments"]),
		NeighborMessages: stringSlice(args["neighbor_messages"]),
	}
	if v, ok := args["mutual_only"].(bool); ok {
		req.MutualOnly = v
	}
	if v, ok := args["max_targets"].(float64); ok {
		req.MaxTargets = int(v)
	}
	if v, ok := args["delay_seconds"].(float64); ok {
		req.DelaySeconds = &v
	}

	logrus.Infof("MCP: 启动运行 - 关键词: %s, 动作: %v", req.Keyword, req.Actions)

	progress, err := s.service.StartRun(req)
	if err != nil {
		return errorResult("启动运行失败: " + err.Error())
	}
	return jsonResult("运行已启动，可以用 get_run_progress 查看进度", progress)
}

// handleRunProgress 查看运行进度
func (s *AppServer) handleRunProgress(_ context.Context) *MCPToolResult {
	progress, err := s.service.Progress()
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(fmt.Sprintf("运行状态: %s", progress.State), progress)
}

func (s *AppServer) handlePauseRun(_ context.Context) *MCPToolResult {
	logrus.Info("MCP: 暂停运行")
	return s.controlResult(s.service.PauseRun, "运行已暂停")
}

func (s *AppServer) handleResumeRun(_ context.Context) *MCPToolResult {
	logrus.Info("MCP: 恢复运行")
	return s.controlResult(s.service.ResumeRun, "运行已恢复")
}

func (s *AppServer) handleStopRun(_ context.Context) *MCPToolResult {
	logrus.Info("MCP: 停止运行")
	return s.controlResult(s.service.StopRun, "已请求停止，当前目标处理完后结束")
}

func (s *AppServer) controlResult(fn func() (*RunProgress, error), message string) *MCPToolResult {
	progress, err := fn()
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(message, progress)
}

func stringSlice(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
