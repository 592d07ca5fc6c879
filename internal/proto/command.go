package proto

// CommandKind enumerates the actions a client can request, replacing
// string-keyed dispatch on subType with a closed set.
type CommandKind int

const (
	// KindUnknown covers unrecognized type/subType pairs; dispatch ignores it.
	KindUnknown CommandKind = iota
	// KindLogon claims a display name.
	KindLogon
	// KindJoin switches the current room.
	KindJoin
	// KindEmote broadcasts an emote to the current room.
	KindEmote
	// KindWhisper delivers a private message to a named client.
	KindWhisper
	// KindList requests the current room's member names.
	KindList
	// KindChat broadcasts a public message to the current room.
	KindChat
)

// Command maps the envelope's (type, subType) onto a CommandKind.
// Any CHAT envelope is a public message regardless of subType.
func (e Envelope) Command() CommandKind {
	switch e.Type {
	case TypeChat:
		return KindChat
	case TypeCommand:
		switch e.SubType {
		case SubLogon:
			return KindLogon
		case SubJoin:
			return KindJoin
		case SubMe, SubEmote:
			return KindEmote
		case SubW, SubWhisper:
			return KindWhisper
		case SubLs, SubList:
			return KindList
		}
	}
	return KindUnknown
}
