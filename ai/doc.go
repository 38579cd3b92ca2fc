// Package ai defines the embedding service abstractions used by the matching
// engine.
//
// Three embedders cover the three match modalities: faces cropped out of
// photos, whole photos, and report descriptions. The interfaces are
// implemented by the openai subpackage for real services and by the mock
// subpackage for tests.
package ai
