package dto

import (
	"time"

	"github.com/spec-kit/green-campus/internal/domain"
)

// SendMessageRequest is the public contact-form payload.
type SendMessageRequest struct {
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

// ReplyRequest carries an admin answer.
type ReplyRequest struct {
	ReplyText string `json:"reply_text"`
}

// MessageResponse is the wire shape the dashboard front end reads.
type MessageResponse struct {
	ID        string          `json:"_id"`
	UserName  string          `json:"user_name"`
	UserEmail string          `json:"user_email"`
	Subject   string          `json:"subject"`
	Message   string          `json:"message"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	Replies   []ReplyResponse `json:"replies"`
}

// ReplyResponse is one entry of a reply thread.
type ReplyResponse struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessageResponse maps a domain message for output.
func NewMessageResponse(msg domain.Message) MessageResponse {
	replies := make([]ReplyResponse, 0, len(msg.Replies))
	for _, r := range msg.Replies {
		replies = append(replies, ReplyResponse{Sender: r.Sender, Text: r.Text, Timestamp: r.Timestamp})
	}
	return MessageResponse{
		ID:        msg.ID,
		UserName:  msg.UserName,
		UserEmail: msg.UserEmail,
		Subject:   msg.Subject,
		Message:   msg.Body,
		Status:    string(msg.Status),
		CreatedAt: msg.CreatedAt,
		Replies:   replies,
	}
}

// NewMessageList maps messages preserving order.
func NewMessageList(msgs []domain.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, NewMessageResponse(m))
	}
	return out
}
