// Package lifecycle runs shutdown hooks in ordered stages.
package lifecycle

import "context"

// Stage orders shutdown. Lower stages finish before higher ones start.
type Stage int

// Shutdown stages.
const (
	// StageIngress stops accepting work: the Telegram poller, the HTTP server, the timer loop.
	StageIngress Stage = iota
	// StageDrain waits for in-flight work such as reminder deliveries.
	StageDrain
	// StageResources closes storage and network clients.
	StageResources
)

// Hook describes a named shutdown hook.
type Hook struct {
	Name  string
	Stage Stage
	Fn    func(ctx context.Context) error
}
