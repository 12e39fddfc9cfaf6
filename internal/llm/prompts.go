package llm

import _ "embed"

var (
	//go:embed prompts/chat_system.txt
	chatSystemPrompt string
	//go:embed prompts/facial_analysis.txt
	facialAnalysisPrompt string
	//go:embed prompts/food_analysis.txt
	foodAnalysisPrompt string
)

// ChatSystemPrompt returns the default companion persona used when the
// caller does not supply a system prompt.
func ChatSystemPrompt() string {
	return chatSystemPrompt
}

// FacialAnalysisPrompt returns the vision prompt that asks the model for the
// structured facial-marker JSON payload.
func FacialAnalysisPrompt() string {
	return facialAnalysisPrompt
}

// FoodAnalysisPrompt returns the vision prompt that asks the model for the
// structured meal-analysis JSON payload.
func FoodAnalysisPrompt() string {
	return foodAnalysisPrompt
}
