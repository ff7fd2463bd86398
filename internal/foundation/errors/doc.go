// Package errors provides the classified error primitives used across pagesmith.
//
// Every failure that crosses a package boundary is a ClassifiedError carrying a
// category, a severity and optional structured context. The build pipeline uses
// severity to decide whether a failure degrades a single page (warning) or aborts
// a generation (error/fatal); the HTTP and CLI adapters map categories onto
// status codes and exit codes.
//
// Example usage:
//
//	err := errors.WrapError(ioErr, errors.CategoryFileSystem, "read content file").
//		WithContext("path", path).
//		Warning().
//		Build()
package errors
