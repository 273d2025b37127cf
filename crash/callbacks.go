package crash

// Logger is an optional logging interface for the reporter.
// This allows integration with any logging framework.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	rep, err := crash.NewReporter(dev, bounds, geo, reset, crash.WithLogger(&StdLogger{}))
//
// The writer never logs: it runs in fault context.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

// Observer is notified of region transitions.
// FaultHandled is called from fault context and must not block or allocate.
type Observer interface {
	// FaultHandled reports what the writer did with a fault
	FaultHandled(o Outcome)

	// RegionHealed reports that foreign data was erased
	RegionHealed()

	// SnapshotCleared reports an explicit clear
	SnapshotCleared()
}
