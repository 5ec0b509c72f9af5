package commands

import (
	"taskchat/pkg/chat"
)

// Context contains all the context needed for command execution
type Context struct {
	Session    *chat.Session
	BackendURL string
}

// NewContext creates a new command context
func NewContext(sess *chat.Session, backendURL string) *Context {
	return &Context{
		Session:    sess,
		BackendURL: backendURL,
	}
}

// LastReply returns the text of the most recent bot message.
func (c *Context) LastReply() (string, bool) {
	if c == nil || c.Session == nil {
		return "", false
	}
	msg, ok := c.Session.LastBotMessage()
	if !ok {
		return "", false
	}
	return msg.Text, true
}
