// Package sshbridge exposes a blocking, single-threaded SSH/SFTP protocol
// handle through a safe, cancellable, progress-observable asynchronous
// interface usable by concurrent callers.
//
// All operations against one session are funnelled through a single logical
// thread of control (the session executor), so the non-reentrant underlying
// handle is never touched by two operations at once, while arbitrarily many
// goroutines may queue work against it. Blocking protocol calls that report
// a transient "would block" condition are retried against socket readiness,
// bounded by a per-operation deadline.
//
// The protocol engine itself sits behind the RawSession/RawSubsystem
// boundary. The sshclient subpackage provides the production implementation
// over an SSH connection; the localfs subpackage provides a loopback
// implementation over the local filesystem.
package sshbridge

import "time"

const (
	// DefaultChunkSize is the transfer buffer size used when a Client is
	// created without WithChunkSize.
	DefaultChunkSize = 32 * 1024

	// DefaultOperationTimeout bounds the total time a single blocking
	// protocol call may spend waiting for socket readiness.
	DefaultOperationTimeout = 30 * time.Second
)

// ProgressFunc is invoked after every transferred chunk with the running
// byte count and the declared total size (SizeUnknown when the total could
// not be determined in advance). Returning false cancels the transfer at
// the next chunk boundary.
type ProgressFunc func(transferred, total int64) bool

// SizeUnknown is reported as the total size of a transfer whose source
// size cannot be determined in advance.
const SizeUnknown int64 = -1

// Delegate receives transport-level notifications. Methods are invoked
// synchronously from within the session's serialized execution context or
// from the transport adapter, so their ordering matches protocol events.
// Implementations must not call back into the Client that owns them.
type Delegate interface {
	// Connected is called once the transport connection is established.
	Connected(addr string)

	// Disconnected is called when the transport connection ends. err is
	// nil on an orderly shutdown.
	Disconnected(err error)

	// DataSent and DataReceived report raw transport traffic.
	DataSent(n int)
	DataReceived(n int)

	// Debug receives trace messages.
	Debug(msg string)

	// KeyboardInteractive answers an interactive authentication prompt.
	// It must return one answer per question.
	KeyboardInteractive(name, instruction string, questions []string, echos []bool) ([]string, error)
}

// NopDelegate is a Delegate that ignores every notification and fails
// interactive authentication. Embed it to implement only the callbacks of
// interest.
type NopDelegate struct{}

// Connected implements Delegate.
func (NopDelegate) Connected(string) {}

// Disconnected implements Delegate.
func (NopDelegate) Disconnected(error) {}

// DataSent implements Delegate.
func (NopDelegate) DataSent(int) {}

// DataReceived implements Delegate.
func (NopDelegate) DataReceived(int) {}

// Debug implements Delegate.
func (NopDelegate) Debug(string) {}

// KeyboardInteractive implements Delegate. It declines the prompt.
func (NopDelegate) KeyboardInteractive(string, string, []string, []bool) ([]string, error) {
	return nil, ErrNoPromptHandler
}
