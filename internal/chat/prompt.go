package chat

import (
	"fmt"
	"strings"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/intent"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/llm"
)

// buildMessages assembles the generation prompt in order: system prompt,
// retrieved context block, conversation history, current user message.
func buildMessages(it domain.Intent, userMessage string, docs []domain.RetrievedDocument, history []domain.Message) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, len(history)+3)
	messages = append(messages, llm.ChatMessage{
		Role:    "system",
		Content: intent.SystemPrompt(it, len(docs) > 0),
	})
	if len(docs) > 0 {
		messages = append(messages, llm.ChatMessage{
			Role:    "system",
			Content: formatContext(docs),
		})
	}
	for _, m := range history {
		messages = append(messages, llm.ChatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.ChatMessage{Role: "user", Content: userMessage})
	return messages
}

func formatContext(docs []domain.RetrievedDocument) string {
	var b strings.Builder
	b.WriteString("Voici les informations pertinentes de notre base de films d'horreur :\n\n")
	for i, doc := range docs {
		header := fmt.Sprintf("[%d]", i+1)
		if title, ok := doc.Metadata["title"].(string); ok {
			header += " " + title
		}
		if year, ok := doc.Metadata["year"]; ok {
			header += fmt.Sprintf(" (%v)", year)
		}
		if rating, ok := doc.Metadata["vote_average"]; ok {
			header += fmt.Sprintf(" - TMDB: %v/10", rating)
		}
		b.WriteString(header + "\n")
		b.WriteString("   Source: " + doc.SourceType + "\n")
		b.WriteString("   " + doc.Content + "\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
