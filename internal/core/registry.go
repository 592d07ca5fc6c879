package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dmelnik/roomcast/internal/proto"
)

const (
	defaultRoomName  = "General"
	defaultGrace     = 2 * time.Second
	defaultSendBuf   = 8
	welcomeFetchWait = 5 * time.Second
)

// Options configures a Registry.
type Options struct {
	// DefaultRoom is the room every session joins at logon. It is created
	// eagerly and never destroyed. Defaults to "General".
	DefaultRoom string
	// LogonGrace is how long an anonymous session may live before it is
	// closed automatically. Defaults to 2s.
	LogonGrace time.Duration
	// SendBuffer is the per-session outbound envelope buffer. Defaults to 8.
	SendBuffer int
	// Welcome supplies optional extra content delivered after a room join.
	Welcome WelcomeProvider
}

// Registry owns the directories of connected sessions and rooms: the
// active-name mapping, the pending (pre-logon) set, and the room directory.
// It is the sole arbiter of name uniqueness and room lifecycle.
//
// One mutex serializes every mutation of cross-session state, including
// room membership and per-session name/state/room fields, so logon
// arbitration, room switches, and broadcasts each appear atomic.
type Registry struct {
	mu      sync.Mutex
	active  map[string]*Session
	pending map[*Session]struct{}
	rooms   map[string]*Room

	def     *Room
	grace   time.Duration
	sendBuf int
	welcome WelcomeProvider
	log     *zerolog.Logger
}

// NewRegistry constructs a registry with its default room in place.
func NewRegistry(opts Options, logger *zerolog.Logger) *Registry {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if opts.DefaultRoom == "" {
		opts.DefaultRoom = defaultRoomName
	}
	if opts.LogonGrace <= 0 {
		opts.LogonGrace = defaultGrace
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaultSendBuf
	}
	if opts.Welcome == nil {
		opts.Welcome = noWelcome{}
	}

	r := &Registry{
		active:  make(map[string]*Session),
		pending: make(map[*Session]struct{}),
		rooms:   make(map[string]*Room),
		grace:   opts.LogonGrace,
		sendBuf: opts.SendBuffer,
		welcome: opts.Welcome,
		log:     logger,
	}
	r.def = newRoom(r, opts.DefaultRoom)
	r.rooms[opts.DefaultRoom] = r.def
	return r
}

// Connect registers a new anonymous session and arms its logon grace timer.
// The returned session is owned by the registry until Close.
func (r *Registry) Connect() *Session {
	s := &Session{
		id:    uuid.NewString(),
		reg:   r,
		out:   make(chan proto.Envelope, r.sendBuf),
		state: stateAnonymous,
	}

	r.mu.Lock()
	r.pending[s] = struct{}{}
	s.timer = time.AfterFunc(r.grace, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		// The timer may fire while a logon is acquiring the lock; once
		// that logon wins, cancellation already happened and this
		// callback must not touch the session.
		if s.state != stateAnonymous {
			return
		}
		r.log.Debug().Str("session", s.id).Msg("logon grace expired")
		r.closeSessionLocked(s)
	})
	r.mu.Unlock()

	r.log.Debug().Str("session", s.id).Msg("session connected")
	return s
}

// logon atomically claims name for s. On success the session moves from
// pending to active, its grace timer is cancelled, and it joins the default
// room. On collision nothing changes and the timer keeps running.
func (r *Registry) logon(s *Session, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.state != stateAnonymous {
		return false
	}
	if name == "" || r.active[name] != nil {
		r.log.Debug().Str("session", s.id).Str("name", name).Msg("logon rejected")
		s.deliverLocked(proto.ServerLogon(name, false))
		return false
	}

	delete(r.pending, s)
	r.active[name] = s
	s.name = name
	s.state = stateAuthenticated
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	r.log.Info().Str("session", s.id).Str("name", name).Msg("logon")
	s.deliverLocked(proto.ServerLogon(name, true))
	r.def.addMember(s)
	return true
}

// switchRoom moves s into the room named name, creating it on first
// reference. Re-requesting the current room is a no-op.
func (r *Registry) switchRoom(name string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.state != stateAuthenticated {
		return
	}
	if name == "" {
		s.deliverLocked(proto.ServerError("cannot join channel: empty name"))
		return
	}

	room := r.rooms[name]
	if room == nil {
		room = newRoom(r, name)
		r.rooms[name] = room
	}
	if s.room == room {
		return
	}
	if s.room != nil {
		s.room.removeMember(s)
	}
	room.addMember(s)
}

// whisper delivers a private message from s to the active session named
// target. An unknown target earns the sender a SERVER/ERROR reply.
func (r *Registry) whisper(s *Session, target, text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.state != stateAuthenticated {
		return false
	}
	t := r.active[target]
	if t == nil {
		s.deliverLocked(proto.ServerError("no such user: " + target))
		return false
	}
	t.deliverLocked(proto.ChatWhisper(s.name, text))
	return true
}

// emote broadcasts a CHAT/ME envelope to the session's current room.
func (r *Registry) emote(s *Session, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.state != stateAuthenticated || s.room == nil {
		return
	}
	s.room.broadcast(proto.ChatMe(s.name, text))
}

// chat broadcasts a CHAT/ALL envelope to the session's current room.
func (r *Registry) chat(s *Session, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.state != stateAuthenticated || s.room == nil {
		return
	}
	s.room.broadcast(proto.ChatAll(s.name, text))
}

// list replies to s with its current room's member names.
func (r *Registry) list(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.state != stateAuthenticated || s.room == nil {
		return
	}
	s.deliverLocked(proto.ChannelList(s.room.name, s.room.memberNames()))
}

// closeSession is the single cleanup path shared by transport close and
// grace timer expiry. It is idempotent.
func (r *Registry) closeSession(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeSessionLocked(s)
}

func (r *Registry) closeSessionLocked(s *Session) {
	if s.state == stateClosed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.room != nil {
		s.room.removeMember(s)
	}
	delete(r.pending, s)
	if s.name != "" && r.active[s.name] == s {
		delete(r.active, s.name)
	}
	s.state = stateClosed
	close(s.out)
	r.log.Debug().Str("session", s.id).Str("name", s.name).Msg("session closed")
}

// destroyRoom drops an emptied room from the directory. The default room
// is compared by identity and never removed.
func (r *Registry) destroyRoom(room *Room) {
	if room == r.def {
		return
	}
	delete(r.rooms, room.name)
	r.log.Debug().Str("room", room.name).Msg("room destroyed")
}

// spawnWelcome fetches provider content off the registry lock and delivers
// it afterwards, unless the session closed in the meantime.
func (r *Registry) spawnWelcome(room string, s *Session) {
	persona := r.welcome.Persona()
	if persona == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), welcomeFetchWait)
		defer cancel()

		text, err := r.welcome.Welcome(ctx, room, s.name)
		if err != nil {
			r.log.Warn().Err(err).Str("room", room).Msg("welcome content fetch failed")
			return
		}
		if text == "" {
			return
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if s.state == stateClosed {
			return
		}
		s.deliverLocked(proto.ChatAll(persona, text))
	}()
}

// farewell composes the direct goodbye sent to a leaving member.
func (r *Registry) farewell(name string) proto.Envelope {
	persona := r.welcome.Persona()
	if persona == "" {
		persona = "server"
	}
	return proto.ChatAll(persona, "Goodbye "+name)
}

// RoomInfo is a point-in-time snapshot of one room.
type RoomInfo struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// Rooms snapshots the room directory, sorted by name.
func (r *Registry) Rooms() []RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	infos := make([]RoomInfo, 0, len(r.rooms))
	for _, room := range r.rooms {
		infos = append(infos, RoomInfo{Name: room.name, Members: room.memberNames()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// ActiveCount returns the number of authenticated sessions.
func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

// PendingCount returns the number of sessions that have not logged on yet.
func (r *Registry) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Close notifies every remaining session with SERVER/CLOSE and tears it
// down. The registry must not be used afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := make([]*Session, 0, len(r.pending)+len(r.active))
	for s := range r.pending {
		sessions = append(sessions, s)
	}
	for _, s := range r.active {
		sessions = append(sessions, s)
	}
	for _, s := range sessions {
		s.deliverLocked(proto.ServerClose())
		r.closeSessionLocked(s)
	}
}
