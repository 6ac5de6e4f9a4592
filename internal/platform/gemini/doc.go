// Package gemini implements generation.Generator on Google's Gemini API
// through the google.golang.org/genai SDK.
package gemini
