package models

import "time"

// Conversation is the single canonical thread between one athlete and one
// coach. The (athlete_id, coach_id) pair is unique at the storage layer.
type Conversation struct {
	ID        int64     `json:"id"`
	AthleteID int64     `json:"athlete_id"`
	CoachID   int64     `json:"coach_id"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is either a thread message or a standalone inbox submission.
// ConversationID and SenderID are nil for anonymous standalone submissions.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID *int64    `json:"conversation_id"`
	SenderID       *int64    `json:"sender_id"`
	SenderName     string    `json:"sender_name"`
	SenderEmail    string    `json:"sender_email"`
	Text           string    `json:"text"`
	VideoURL       *string   `json:"video_url"`
	Responded      bool      `json:"responded"`
	CreatedAt      time.Time `json:"created_at"`
}

type Response struct {
	ID        int64     `json:"id"`
	MessageID int64     `json:"message_id"`
	Text      string    `json:"text"`
	VideoURL  *string   `json:"video_url"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationSummary struct {
	Conversation
	LastMessage *Message `json:"last_message,omitempty"`
}
