package domain

import "time"

// MessageStatus tracks how far an admin has handled a contact message.
type MessageStatus string

const (
	MessageStatusUnread  MessageStatus = "unread"
	MessageStatusRead    MessageStatus = "read"
	MessageStatusReplied MessageStatus = "replied"
)

// ReplySenderAdmin is the sender recorded on every reply.
const ReplySenderAdmin = "Admin"

// Message is an inbound contact-form submission with its reply thread.
type Message struct {
	ID        string
	UserName  string
	UserEmail string
	Subject   string
	Body      string
	Status    MessageStatus
	CreatedAt time.Time
	Replies   []Reply
}

// Reply is an admin answer appended to a message thread.
type Reply struct {
	Sender    string
	Text      string
	Timestamp time.Time
}

// NewReply builds an admin reply stamped with the current time.
func NewReply(text string) Reply {
	return Reply{Sender: ReplySenderAdmin, Text: text, Timestamp: time.Now().UTC()}
}
