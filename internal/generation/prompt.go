package generation

import "strings"

// PromptPlaceholder marks where user input goes in a template body.
const PromptPlaceholder = "{{userInput}}"

// regenerationInstruction precedes the previous output in a regeneration
// prompt.
const regenerationInstruction = "regenerate based on old whole response and new suggestions: "

// BuildPrompt substitutes userInput into the first placeholder of format.
// Later placeholders are left as they are.
func BuildPrompt(format, userInput string) string {
	return strings.Replace(format, PromptPlaceholder, userInput, 1)
}

// BuildRegenerationPrompt rebuilds a prompt from the one stored on a record
// and appends the previous raw output as context for the model.
func BuildRegenerationPrompt(storedPrompt, userInput, previousOutput string) string {
	return BuildPrompt(storedPrompt, userInput) + "\n\n" + regenerationInstruction + previousOutput
}
