// Package errors provides classified error primitives used across secnum.
//
// A ClassifiedError carries a category (config, validation, protocol,
// processing, ...), a severity and structured context. The CLI adapter maps
// categories to process exit codes.
//
//	err := errors.WrapError(cause, errors.CategoryProtocol, "cannot decode book").
//		WithContext("renderer", renderer).
//		Build()
package errors
