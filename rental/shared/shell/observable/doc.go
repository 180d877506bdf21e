// Package observable provides wrapper components for instrumenting command and query handlers
// with metrics, tracing and logging while keeping business logic pure.
//
// # Core Principle: External Wrapping
//
// The observable wrappers are applied externally at bootstrap/wiring time, not hidden
// inside factory functions. This makes the observability composition explicit.
//
// # Command Handler Usage
//
//	// 1. Create pure business logic handler
//	coreHandler := borrowitem.NewCommandHandler(store)
//
//	// 2. Wrap with observability
//	handler, err := observable.NewCommandWrapper[borrowitem.Command, borrowitem.Result](
//		coreHandler,
//		observable.WithCommandMetrics[borrowitem.Command, borrowitem.Result](metricsCollector),
//		observable.WithCommandTracing[borrowitem.Command, borrowitem.Result](tracingCollector),
//		observable.WithCommandContextualLogging[borrowitem.Command, borrowitem.Result](contextualLogger),
//	)
//
//	// 3. Use wrapped handler in application
//	result, err := handler.Handle(ctx, command)
//
// # Outcome Mapping
//
// Commands report one of these statuses to metrics, spans and logs:
//
//   - success, idempotent: info log
//   - warning: the state change was applied partially (e.g. a confirmed loss whose quantity
//     could not be reduced), warn log
//   - rejected: a business rule failed, warn log
//   - canceled, timeout, concurrency_conflict, error: error log
//
// For unit tests focused on business logic, use handlers without the wrapper.
package observable
