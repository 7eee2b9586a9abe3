// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeExecutionFailed,
//	    "cell execution failed",
//	    execErr,
//	    map[string]interface{}{
//	        "route": "GET /hello/:name",
//	        "kernel": kernelID,
//	    },
//	)
package errors
