// Package async implements Task, the future type used by the HTTP handler
// pipeline. A Task is started eagerly, and its result can be awaited with a
// context, which allows request cancellation to unblock waiting callers.
package async
