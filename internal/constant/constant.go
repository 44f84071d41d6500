package constant

// Chat message roles in provider-agnostic format
const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

// Retrieval models exposed by the chat endpoint
const (
	ChatModelCategory = "model1" // category-filtered, memory-aware
	ChatModelRerank   = "model2" // rerank, stateless
)

// CategoryNotRelevant is the sentinel label returned when the classifier
// cannot (or fails to) map a query onto a known category.
const CategoryNotRelevant = "Not Relevant"

// NoContextFallback is embedded in the system prompt when retrieval
// returns no documents. Generation still proceeds with this literal.
const NoContextFallback = "No relevant context found."

// DefaultSessionID scopes conversational memory for callers that do not
// supply a session id of their own.
const DefaultSessionID = "default"

// StreamErrorPrefix marks an in-band error chunk on an already-started
// streamed response. The transport status is committed at that point, so
// errors cannot change the status code.
const StreamErrorPrefix = "\n\n[Error] "
