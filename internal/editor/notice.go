package editor

import (
	"fmt"
	"time"
)

// NoticeTTL is how long a notice stays on screen.
const NoticeTTL = 4 * time.Second

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notice is a transient message for the operator.
type Notice struct {
	Level Level
	Text  string
}

// Infof builds an informational notice.
func Infof(format string, args ...interface{}) Notice {
	return Notice{Level: LevelInfo, Text: fmt.Sprintf(format, args...)}
}

// Errorf builds an error notice.
func Errorf(format string, args ...interface{}) Notice {
	return Notice{Level: LevelError, Text: fmt.Sprintf(format, args...)}
}

// IsError reports whether n is an error notice.
func (n Notice) IsError() bool {
	return n.Level == LevelError
}
