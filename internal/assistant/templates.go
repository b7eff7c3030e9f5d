package assistant

import "travel-assistant/internal/domain"

// Greeting opens every new conversation.
const Greeting = "Hi! I'm your AI travel assistant. I can help you with trip planning, weather insights, cultural tips, budget optimization, and real-time travel adjustments. Where would you like to go?"

// ErrorReply replaces the assistant answer when a turn fails.
const ErrorReply = "I'm sorry, I encountered an error. Please try again!"

// GreetingFeatures are the tags of the greeting message.
var GreetingFeatures = []string{
	domain.FeatureWeather,
	domain.FeatureCulture,
	domain.FeatureBudget,
	domain.FeaturePlanning,
}

// CapabilityLabels are the capability areas listed by the help reply.
var CapabilityLabels = []string{
	"Weather-Activity Matching",
	"Cultural Context",
	"Budget Optimization",
	"Language Support",
	"Dynamic Planning",
	"Real-time Adjustments",
}

const capabilitySummary = `I'm your comprehensive travel AI assistant! Here's how I can help:

🌤️ **Weather-Activity Matching**: I'll check forecasts and suggest perfect activities for any weather
🌍 **Cultural Context**: Local customs, etiquette, and insider cultural tips
💰 **Budget Optimization**: Find the cheapest flights, accommodation, and maximize your money
🗣️ **Language Support**: Context-aware translation and travel-specific phrases
📅 **Dynamic Planning**: Smart itineraries that adapt to real conditions
🔄 **Real-time Adjustments**: I'll help when plans go sideways

Just tell me about your travel plans or ask any travel question!`

const generalReply = "I'd love to help you with that! As your AI travel assistant, I can provide insights on weather planning, cultural guidance, budget optimization, language help, and create adaptive itineraries. Could you tell me more about what you're planning or what specific travel challenge you're facing?"

// suffix returns prep+" "+destination, or "" when there is no destination.
func suffix(prep, destination string) string {
	if destination == "" {
		return ""
	}
	return " " + prep + " " + destination
}

func weatherReply(dest string) string {
	return "Great! I can help with weather-based planning" + suffix("for", dest) +
		". I'll check the forecast and suggest activities that match the conditions. For example, if it's raining, I'll recommend amazing indoor experiences like museums, markets, or cozy cafes. Would you like me to check the weather forecast for specific dates?"
}

func cultureReply(dest string) string {
	return "Absolutely! Cultural context is so important for great travel experiences" + suffix("in", dest) +
		". I can help you understand local customs, appropriate tipping, dress codes, and social etiquette. I'll also explain why certain behaviors might get odd looks and how to blend in with locals. What specific cultural questions do you have?"
}

func budgetReply(dest string) string {
	return "Perfect! I specialize in budget optimization" + suffix("for", dest) +
		". I can find the cheapest flights, budget accommodations, free activities, and help you stretch every dollar. I'll create a complete breakdown showing how to maximize your experience while minimizing costs. What's your target budget range?"
}

func languageReply(dest string) string {
	return "Language barriers can be tricky! I can help with more than just translation" + suffix("for", dest) +
		" - I'll provide context-specific phrases, help with pronunciation, and explain cultural nuances in communication. I'm especially good with restaurant orders, directions, and emergency situations. What language help do you need?"
}

func planningReply(dest string) string {
	return "I love trip planning! I can create dynamic itineraries" + suffix("for", dest) +
		" that adapt in real-time to weather, your energy levels, and unexpected discoveries. I'll optimize your route, suggest hidden gems, and help you balance must-sees with spontaneous exploration. When are you planning to travel?"
}

func destinationReply(dest string) string {
	return capitalize(dest) + " is an amazing choice! I can help you with everything from weather-appropriate activities and cultural insights to budget optimization and language assistance. I know the best local secrets, seasonal considerations, and insider tips. What aspect of your " +
		dest + " trip would you like to start with?"
}
