package services

import "time"

// Session carries the mutable state of one interactive question-answering
// session. It is created once per user session, passed explicitly to the
// handlers that need it, and discarded on session end; nothing in the core
// holds session state in a package-level variable.
type Session struct {
	// Collection is the collection this session queries.
	Collection string

	// StartedAt is when the session began.
	StartedAt time.Time

	// Questions is the number of questions asked so far.
	Questions int

	// ChunksRetrieved is the running total of chunks used as context.
	ChunksRetrieved int
}

// NewSession starts a session over the named collection.
func NewSession(collection string) *Session {
	return &Session{
		Collection: collection,
		StartedAt:  time.Now(),
	}
}

// Record accumulates the outcome of one answered question.
func (s *Session) Record(chunksUsed int) {
	s.Questions++
	s.ChunksRetrieved += chunksUsed
}
