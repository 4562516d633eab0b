// Package inmem keeps the AI tutoring conversations in memory; they do not survive a restart.
package inmem

import (
	"sync"
	"time"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/tutor"
)

type ConversationStore struct {
	mutex   sync.RWMutex
	table   map[int]*tutor.Conversation // by alumno ID
	nowFunc func() time.Time
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		table:   make(map[int]*tutor.Conversation),
		nowFunc: time.Now,
	}
}

// copyConv detaches the message slice so that callers cannot mutate the stored conversation.
func copyConv(c *tutor.Conversation) tutor.Conversation {
	out := *c
	out.Messages = append([]core.ChatMessage(nil), c.Messages...)
	return out
}

func (s *ConversationStore) Get(alumnoID int) (tutor.Conversation, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	c, ok := s.table[alumnoID]
	if !ok {
		return tutor.Conversation{}, false
	}
	return copyConv(c), true
}

func (s *ConversationStore) Save(conv tutor.Conversation) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stored := copyConv(&conv)
	s.table[conv.Student.AlumnoID] = &stored
}

func (s *ConversationStore) Append(alumnoID int, msgs ...core.ChatMessage) (tutor.Conversation, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	c, ok := s.table[alumnoID]
	if !ok {
		return tutor.Conversation{}, false
	}
	c.Messages = append(c.Messages, msgs...)
	c.LastUpdated = s.nowFunc().UTC()
	return copyConv(c), true
}

func (s *ConversationStore) Delete(alumnoID int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.table, alumnoID)
}
