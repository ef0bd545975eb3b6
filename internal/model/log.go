package model

import "time"

// LogLevel 日志级别
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogWarn    LogLevel = "warn"
	LogError   LogLevel = "error"
	LogSuccess LogLevel = "success"
)

// LogEntry 界面日志条目
type LogEntry struct {
	ID      string    `json:"id" db:"id"`
	Time    time.Time `json:"time" db:"ts"`
	Level   LogLevel  `json:"level" db:"level"`
	Message string    `json:"message" db:"message"`
}
