package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// respondError 返回错误响应
func respondError(c *gin.Context, statusCode int, code, message string, details any) {
	response := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}

	logrus.Errorf("%s %s %d: %s", c.Request.Method, c.Request.URL.Path, statusCode, message)

	c.JSON(statusCode, response)
}

// respondSuccess 返回成功响应
func respondSuccess(c *gin.Context, data any, message string) {
	response := SuccessResponse{
		Success: true,
		Data:    data,
		Message: message,
	}

	c.JSON(http.StatusOK, response)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debugf("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}

// checkLoginStatusHandler 检查登录状态
func (s *AppServer) checkLoginStatusHandler(c *gin.Context) {
	status, err := s.service.CheckLoginStatus(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STATUS_CHECK_FAILED",
			"检查登录状态失败", err.Error())
		return
	}

	respondSuccess(c, status, "检查登录状态成功")
}

// startRunHandler 启动运行
func (s *AppServer) startRunHandler(c *gin.Context) {
	var req StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST",
			"请求参数错误", err.Error())
		return
	}

	progress, err := s.service.StartRun(&req)
	if err != nil {
		if errors.Is(err, ErrRunActive) {
			respondError(c, http.StatusConflict, "RUN_ACTIVE", "已有运行中的任务", nil)
			return
		}
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST",
			"启动运行失败", err.Error())
		return
	}

	respondSuccess(c, progress, "运行已启动")
}

// runProgressHandler 当前运行进度
func (s *AppServer) runProgressHandler(c *gin.Context) {
	progress, err := s.service.Progress()
	if err != nil {
		respondError(c, http.StatusNotFound, "NO_RUN", err.Error(), nil)
		return
	}
	respondSuccess(c, progress, "")
}

func (s *AppServer) pauseRunHandler(c *gin.Context) {
	s.controlRun(c, s.service.PauseRun, "运行已暂停")
}

func (s *AppServer) resumeRunHandler(c *gin.Context) {
	s.controlRun(c, s.service.ResumeRun, "运行已恢复")
}

func (s *AppServer) stopRunHandler(c *gin.Context) {
	s.controlRun(c, s.service.StopRun, "已请求停止")
}

func (s *AppServer) controlRun(c *gin.Context, fn func() (*RunProgress, error), message string) {
	progress, err := fn()
	if err != nil {
		respondError(c, http.StatusNotFound, "NO_RUN", err.Error(), nil)
		return
	}
	respondSuccess(c, progress, message)
}
