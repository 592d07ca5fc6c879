package core

import (
	"slices"

	"github.com/dmelnik/roomcast/internal/proto"
)

// Room is a named broadcast group. Members are kept in join order, which
// is also broadcast order. All methods assume the registry mutex is held.
type Room struct {
	reg     *Registry
	name    string
	members []*Session
}

func newRoom(reg *Registry, name string) *Room {
	return &Room{reg: reg, name: name}
}

// addMember inserts s, announcing the join to the existing membership
// first so the joiner does not receive the announcement about itself,
// then welcomes the joiner directly. Adding an existing member is a no-op.
func (m *Room) addMember(s *Session) bool {
	if slices.Contains(m.members, s) {
		return false
	}
	m.broadcast(proto.ChannelClientJoin(m.name, s.name))
	m.members = append(m.members, s)
	s.room = m
	s.deliverLocked(proto.ChannelJoined(m.name, "Welcome "+s.name))
	m.reg.spawnWelcome(m.name, s)
	return true
}

// removeMember sends s a direct farewell and drops it from the room. An
// emptied room is destroyed (never the default room); otherwise the
// remaining members are told about the departure.
func (m *Room) removeMember(s *Session) bool {
	idx := slices.Index(m.members, s)
	if idx == -1 {
		return false
	}
	s.deliverLocked(m.reg.farewell(s.name))
	m.members = slices.Delete(m.members, idx, idx+1)
	s.room = nil
	if len(m.members) == 0 {
		m.reg.destroyRoom(m)
	} else {
		m.broadcast(proto.ChannelClientLeave(m.name, s.name))
	}
	return true
}

// broadcast delivers env to every member in join order. Delivery trouble
// with one member never blocks the rest.
func (m *Room) broadcast(env proto.Envelope) {
	for _, member := range m.members {
		member.deliverLocked(env)
	}
}

// memberNames snapshots the member names in join order.
func (m *Room) memberNames() []string {
	names := make([]string, len(m.members))
	for i, member := range m.members {
		names[i] = member.name
	}
	return names
}
