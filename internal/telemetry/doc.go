// Package telemetry provides OpenTelemetry initialization and helpers
// for distributed tracing across the ladle pipeline.
//
// The package configures OTLP HTTP export for traces and logs, with support
// for hosted collectors and local Tempo backends.
package telemetry
