// Package openai implements the ai interfaces against OpenAI-compatible
// embedding APIs (text) and the visual encoder service (faces, images).
package openai
