// Package errors provides the classified error primitives used across notenav.
//
// A ClassifiedError carries a category (config, validation, not_found, ...),
// a severity and a retry strategy alongside the message, cause and a small
// structured context. Errors are built with the fluent ErrorBuilder:
//
//	err := errors.NotFoundError("navigation target does not resolve").
//		WithContext("target", "/core-java/m2-java-language").
//		WithCause(statErr).
//		Build()
//
// CLIErrorAdapter turns classified errors into exit codes and log records.
package errors
