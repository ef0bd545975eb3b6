package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orcapzh/ana/internal/apperror"
	"github.com/orcapzh/ana/internal/model"
)

// ListLogs 界面日志；persisted=true 时从历史库读取
// GET /api/logs?persisted=&limit=
func (h *Handler) ListLogs(c *gin.Context) {
	if c.Query("persisted") == "true" && h.history != nil {
		entries, err := h.history.ListLogs(c.Request.Context(), queryLimit(c, 200))
		if err != nil {
			h.respondError(c, apperror.NewInternal(err))
			return
		}
		if entries == nil {
			entries = []model.LogEntry{}
		}
		c.JSON(http.StatusOK, gin.H{"logs": entries})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": h.logs.Entries()})
}

// ClearLogs 清空界面日志（历史库中的记录保留）
// DELETE /api/logs
func (h *Handler) ClearLogs(c *gin.Context) {
	h.logs.Clear()
	c.Status(http.StatusNoContent)
}

// StreamLogs 推送日志（SSE），先发送已有日志再推送新日志
// GET /api/logs/stream
func (h *Handler) StreamLogs(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.respondError(c, apperror.NewInternal(fmt.Errorf("不支持流式响应")))
		return
	}

	// 先订阅再取快照，避免漏掉两者之间追加的日志
	ch, cancel := h.logs.Subscribe()
	defer cancel()
	backlog := h.logs.Entries()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	seen := make(map[string]struct{}, len(backlog))
	send := func(entry model.LogEntry) {
		b, err := json.Marshal(entry)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}
	for _, e := range backlog {
		seen[e.ID] = struct{}{}
		send(e)
	}
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if _, dup := seen[e.ID]; dup {
				delete(seen, e.ID)
				continue
			}
			send(e)
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": ping\n\n")
			flusher.Flush()
		}
	}
}
