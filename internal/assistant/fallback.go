package assistant

import (
	"fmt"
	"strings"

	"finassist/internal/llm"
)

// User-facing templates for turns where the model produced nothing usable.
const (
	MsgUnavailable = "AI Assistant is not available: API key not configured."
	MsgGreeting    = "Hello! I'm your financial assistant. How can I help you today?"
	MsgRephrase    = "I received your message, but I'm not sure how to help with that. Could you please rephrase or ask a specific financial question?"
)

var greetings = map[string]bool{
	"hey":          true,
	"hi":           true,
	"hello":        true,
	"how are you":  true,
	"what's up":    true,
	"good morning": true,
	"good evening": true,
}

func isGreeting(message string) bool {
	return greetings[strings.TrimRight(strings.ToLower(strings.TrimSpace(message)), "!?. ")]
}

// emptyReply picks the template used when a turn ends without text.
func emptyReply(message string, attempted []string) string {
	if len(attempted) > 0 {
		return fmt.Sprintf("I attempted to execute the requested actions (%s), but I couldn't formulate a detailed summary. "+
			"Please check the relevant dashboard sections.", strings.Join(dedupe(attempted), ", "))
	}
	if isGreeting(message) {
		return MsgGreeting
	}
	return MsgRephrase
}

// apology maps a model failure to a short message naming its likely cause.
func apology(category llm.Category) string {
	switch category {
	case llm.CategoryAuth:
		return "AI Assistant Error: There seems to be an issue with the API key or permissions."
	case llm.CategoryQuota:
		return "AI Assistant Error: My capabilities are currently exhausted. Please try again in a few minutes."
	case llm.CategoryInvalid:
		return "AI Assistant Error: The AI model rejected the request as invalid. Please try rephrasing."
	case llm.CategoryBlocked:
		return "I'm sorry, I cannot process that request due to safety concerns."
	case llm.CategoryUnavailable:
		return "AI Assistant Error: The AI service is temporarily unavailable. Please try again shortly."
	default:
		return "AI Assistant Error: Something went wrong while processing your request. Please try again."
	}
}

var actionPhrases = map[string]string{
	ToolAddTransaction:   "add the transaction",
	ToolFinancialSummary: "calculate the summary",
	ToolExchangeRate:     "look up the exchange rate",
}

// clarification asks for exactly the missing parameters of each call.
func clarification(missing []missingFields) string {
	sentences := make([]string, 0, len(missing))
	for _, m := range missing {
		action, ok := actionPhrases[m.tool]
		if !ok {
			action = "run " + m.tool
		}
		labels := make([]string, len(m.fields))
		for i, f := range m.fields {
			labels[i] = strings.ReplaceAll(f, "_", " ")
		}
		sentences = append(sentences, fmt.Sprintf("To %s I still need the %s.", action, joinAnd(labels)))
	}
	return strings.Join(sentences, " ") + " Could you provide that?"
}

// followUp is a clarification that also names the tools already run in
// earlier rounds of the turn, so their effects are not left unmentioned.
func followUp(attempted []string, missing []missingFields) string {
	if len(attempted) == 0 {
		return clarification(missing)
	}
	return fmt.Sprintf("I completed the earlier steps (%s). ", strings.Join(dedupe(attempted), ", ")) + clarification(missing)
}

type missingFields struct {
	tool   string
	fields []string
}

func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
