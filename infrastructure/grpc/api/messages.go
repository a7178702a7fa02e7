package api

import "time"

type Conversation struct {
	ID            string    `json:"id"`
	Participants  []string  `json:"participants"`
	MessageIDs    []string  `json:"messageIds"`
	LastMessageID string    `json:"lastMessageId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	ReceiverID  string    `json:"receiverId"`
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

type HireRequest struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"clientId"`
	DesignerID  string    `json:"designerId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Budget      float64   `json:"budget"`
	Timeline    string    `json:"timeline,omitempty"`
	Attachments []string  `json:"attachments,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Profile struct {
	UserID          string `json:"userId"`
	Email           string `json:"email,omitempty"`
	DisplayName     string `json:"displayName,omitempty"`
	AddressLine     string `json:"addressLine,omitempty"`
	NeedsOnboarding bool   `json:"needsOnboarding"`
}

// Event is one push on the Subscribe stream. Type tells which fields are set.
type Event struct {
	Type           string       `json:"type"`
	ConversationID string       `json:"conversationId,omitempty"`
	Message        *Message     `json:"message,omitempty"`
	MessageID      string       `json:"messageId,omitempty"`
	ReaderID       string       `json:"readerId,omitempty"`
	HireRequest    *HireRequest `json:"hireRequest,omitempty"`
	PreviousStatus string       `json:"previousStatus,omitempty"`
	ActorID        string       `json:"actorId,omitempty"`
	At             time.Time    `json:"at"`
}

type GetOrCreateConversationRequest struct {
	ParticipantIDs []string `json:"participantIds"`
}

type ConversationResponse struct {
	Conversation Conversation `json:"conversation"`
}

type SendMessageRequest struct {
	ConversationID string   `json:"conversationId"`
	ReceiverID     string   `json:"receiverId"`
	Content        string   `json:"content"`
	Attachments    []string `json:"attachments,omitempty"`
}

type MessageResponse struct {
	Message Message `json:"message"`
}

type MarkReadRequest struct {
	MessageID string `json:"messageId"`
}

type Empty struct{}

type ListConversationsRequest struct{}

type ListConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
}

type ListMessagesRequest struct {
	ConversationID string `json:"conversationId"`
}

type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
}

type SubscribeRequest struct{}

type CreateHireRequestRequest struct {
	DesignerID  string   `json:"designerId"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Budget      float64  `json:"budget"`
	Timeline    string   `json:"timeline,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

type TransitionHireRequestRequest struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

type GetHireRequestRequest struct {
	ID string `json:"id"`
}

type HireRequestResponse struct {
	HireRequest HireRequest `json:"hireRequest"`
}

type ListHireRequestsRequest struct{}

type ListHireRequestsResponse struct {
	HireRequests []HireRequest `json:"hireRequests"`
}

type CompleteOnboardingRequest struct {
	AddressLine string `json:"addressLine"`
}

type ProfileResponse struct {
	Profile Profile `json:"profile"`
}
