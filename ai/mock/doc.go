// Package mock provides deterministic test doubles for the ai interfaces.
//
// The default mocks derive vectors from an FNV hash of the input, so the
// same input always embeds to the same vector. Behavior can be overridden
// per test via the Func fields.
package mock
