// Package log provides the structured logger used throughout cmdscript.
//
// Loggers are immutable: WithField, WithFields, WithName and WithSession
// return derived loggers that share the output and level of their parent.
// Every engine component derives its own logger with a "component" field:
//
//	logger := mdwlog.GetDefault().WithField("component", "cmdlang-dispatcher")
//	logger.Info("command dispatched", mdwlog.Fields{"namespace": ns})
//
// Timers measure operations and log their outcome:
//
//	timer := logger.StartTimer("dispatch")
//	defer timer.Stop()
//
// AUDIT entries are written regardless of the configured level.
package log
