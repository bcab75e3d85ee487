// Package agent implements the legal assistant agent: a Groq-hosted
// conversational model configured with lookup tools, plus the invocation
// wrapper and HTTP surface around it.
package agent

import (
	"time"

	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/domain"
)

// Config holds the static agent configuration. Constructed once at
// startup and read-only thereafter.
type Config struct {
	Name           string
	ModelID        string
	BaseURL        string
	APIKey         string
	Instructions   []string
	Streaming      bool
	ShowToolCalls  bool
	MaxToolRounds  int
	RequestTimeout time.Duration
}

// DefaultInstructions returns the ordered instruction list for the
// Indian law assistant.
func DefaultInstructions() []string {
	return []string{
		"You are a legal assistant providing general information about Indian government laws.",
		"When a user asks about a specific law or legal matter, identify the relevant Indian laws and provide accurate information.",
		"Format your response as a list of bullet points. For each law or legal matter, include its key provisions, applicability, and relevant sections. For example:",
		"   - **Indian Penal Code (IPC) Section 379:** Deals with theft and prescribes punishment for the offense.",
		"   - **Consumer Protection Act, 2019:** Regulates consumer rights and provides mechanisms for redressal of grievances.",
		"Include a clear disclaimer: 'I am not a lawyer. This information is for general informational purposes only and is not a substitute for professional legal advice, representation, or legal services.'",
		"If the legal matter is complex, advise the user to consult a qualified legal professional.",
		"Encourage the user to seek professional legal assistance for specific cases or legal representation.",
	}
}

// ChatRequest is the body of a chat submission.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the two turns produced by one submission cycle.
type ChatResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}
