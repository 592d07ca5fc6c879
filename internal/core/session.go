package core

import (
	"time"

	"github.com/dmelnik/roomcast/internal/proto"
)

type sessionState int

const (
	stateAnonymous sessionState = iota
	stateAuthenticated
	stateClosed
)

// Session is the server-side state for one connected client: its identity,
// authentication state, current room, and logon grace timer. All mutable
// fields are guarded by the owning registry's mutex.
type Session struct {
	id  string
	reg *Registry
	out chan proto.Envelope

	name  string
	state sessionState
	room  *Room
	timer *time.Timer
}

// ID returns the connection identifier assigned at accept time.
func (s *Session) ID() string { return s.id }

// Name returns the display name, or "" before a successful logon.
func (s *Session) Name() string {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.name
}

// Out is the outbound envelope stream drained by the transport write loop.
// It is closed when the session closes.
func (s *Session) Out() <-chan proto.Envelope { return s.out }

// Handle interprets one inbound envelope. LOGON is accepted only before
// authentication; every other command only after it. Unrecognized
// envelopes are dropped without error.
func (s *Session) Handle(env proto.Envelope) {
	switch env.Command() {
	case proto.KindLogon:
		s.reg.logon(s, env.SourceStr())
	case proto.KindJoin:
		s.reg.switchRoom(env.MessageStr(), s)
	case proto.KindEmote:
		s.reg.emote(s, env.MessageStr())
	case proto.KindWhisper:
		s.reg.whisper(s, env.SourceStr(), env.MessageStr())
	case proto.KindList:
		s.reg.list(s)
	case proto.KindChat:
		s.reg.chat(s, env.MessageStr())
	case proto.KindUnknown:
	}
}

// Close tears the session down: timer cancelled, room membership removed,
// directories updated, outbound channel closed. Safe to call more than
// once and from both the transport and the grace timer.
func (s *Session) Close() {
	s.reg.closeSession(s)
}

// deliverLocked queues an envelope for this session only. Callers hold the
// registry mutex. A full buffer drops the envelope so one slow consumer
// cannot stall a broadcast.
func (s *Session) deliverLocked(env proto.Envelope) {
	if s.state == stateClosed {
		return
	}
	select {
	case s.out <- env:
	default:
		s.reg.log.Warn().Str("session", s.id).Str("name", s.name).Msg("outbound buffer full, envelope dropped")
	}
}
