// Package generation turns user input into structured marketing content.
//
// It owns the three pure steps of the pipeline: building a prompt from a
// template, parsing a free-form language model response into ParsedContent,
// and the Generator interface that concrete LLM clients (Groq, Gemini)
// implement in internal/platform.
package generation
