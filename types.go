package main

import (
	"time"

	"github.com/xpzouying/naverblog-mcp/naverblog"
)

// HTTP API 响应类型

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse 成功响应
type SuccessResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// MCP 相关类型

// MCPToolResult MCP 工具结果
type MCPToolResult struct {
	Content []MCPContent `json:"content"`
	IsError bool         `json:"isError,omitempty"`
}

// MCPContent MCP 内容
type MCPContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// LoginStatusResponse 登录状态响应
type LoginStatusResponse struct {
	IsLoggedIn bool `json:"is_logged_in"`
}

// StartRunRequest 启动运行的请求
type StartRunRequest struct {
	Keyword          string   `json:"keyword" binding:"required"`
	Actions          []string `json:"actions" binding:"required,min=1"`
	MutualOnly       bool     `json:"mutual_only,omitempty"`
	MaxTargets       int      `json:"max_targets,omitempty"`
	DelaySeconds     *float64 `json:"delay_seconds,omitempty"`
	Comments         []string `json:"comments,omitempty"`
	NeighborMessages []string `json:"neighbor_messages,omitempty"`
}

// RunState 运行状态
type RunState string

const (
	RunStateRunning   RunState = "running"
	RunStatePaused    RunState = "paused"
	RunStateStopping  RunState = "stopping"
	RunStateCompleted RunState = "completed"
	RunStateStopped   RunState = "stopped"
	RunStateFailed    RunState = "failed"
)

// RunProgress 当前（或最近一次）运行的进度快照
type RunProgress struct {
	RunID      string               `json:"run_id"`
	State      RunState             `json:"state"`
	Keyword    string               `json:"keyword"`
	Targets    int                  `json:"targets"`
	Summary    naverblog.RunSummary `json:"summary"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt *time.Time           `json:"finished_at,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// Active 运行是否仍在进行
func (p RunProgress) Active() bool {
	switch p.State {
	case RunStateRunning, RunStatePaused, RunStateStopping:
		return true
	}
	return false
}
