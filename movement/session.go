package movement

import (
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session is the context shared by everything taking part in one play
// session. Combat can be stopped session-wide, for example during a level
// transition, without reaching for globals.
type Session struct {
	ID  uuid.UUID
	Log logrus.FieldLogger

	combatStopped bool
}

// NewSession creates a session with a fresh id. A nil logger discards output.
func NewSession(log logrus.FieldLogger) *Session {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	id := uuid.New()
	return &Session{
		ID:  id,
		Log: log.WithField("session", id.String()),
	}
}

func (s *Session) StopCombat() {
	if s == nil {
		return
	}
	s.combatStopped = true
	s.Log.Debug("combat stopped")
}

func (s *Session) ResumeCombat() {
	if s == nil {
		return
	}
	s.combatStopped = false
	s.Log.Debug("combat resumed")
}

func (s *Session) CombatStopped() bool {
	return s != nil && s.combatStopped
}
