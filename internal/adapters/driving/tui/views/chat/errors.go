package chat

import "errors"

// ErrNoChatSession is returned when the view has no chat session wired.
var ErrNoChatSession = errors.New("chat session not available")
