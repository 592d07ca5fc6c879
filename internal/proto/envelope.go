package proto

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope is the wire message exchanged with clients. Source and Message
// are nullable on the wire; nil marshals to JSON null.
type Envelope struct {
	Type    string  `json:"type"`
	SubType string  `json:"subType"`
	Source  *string `json:"source"`
	Message *string `json:"message"`
}

// Envelope types.
const (
	TypeServer  = "SERVER"
	TypeChannel = "CHANNEL"
	TypeChat    = "CHAT"
	TypeCommand = "COMMAND"
	TypeLocal   = "LOCAL"
)

// Envelope subtypes.
const (
	SubLogon       = "LOGON"
	SubError       = "ERROR"
	SubClose       = "CLOSE"
	SubClientJoin  = "CLIENT JOIN"
	SubJoined      = "JOINED"
	SubClientLeave = "CLIENT LEAVE"
	SubList        = "LIST"
	SubAll         = "ALL"
	SubMe          = "ME"
	SubEmote       = "EMOTE"
	SubWhisper     = "WHISPER"
	SubW           = "W"
	SubJoin        = "JOIN"
	SubLs          = "LS"
)

// ErrMalformed reports an inbound frame that is not a valid envelope.
var ErrMalformed = errors.New("malformed envelope")

// Decode parses a wire frame into an Envelope. It fails with ErrMalformed
// when the frame is not a JSON object or omits type/subType.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == "" || env.SubType == "" {
		return Envelope{}, fmt.Errorf("%w: missing type or subType", ErrMalformed)
	}
	return env, nil
}

// Encode serializes the envelope for the transport boundary.
func (e Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// SourceStr returns the source field, or "" when null.
func (e Envelope) SourceStr() string {
	if e.Source == nil {
		return ""
	}
	return *e.Source
}

// MessageStr returns the message field, or "" when null.
func (e Envelope) MessageStr() string {
	if e.Message == nil {
		return ""
	}
	return *e.Message
}

func str(s string) *string { return &s }

// ServerLogon reports a logon attempt outcome for the requested name.
func ServerLogon(name string, ok bool) Envelope {
	outcome := "false"
	if ok {
		outcome = "true"
	}
	return Envelope{Type: TypeServer, SubType: SubLogon, Source: str(name), Message: str(outcome)}
}

// ServerError reports a server-side error to one client.
func ServerError(text string) Envelope {
	return Envelope{Type: TypeServer, SubType: SubError, Message: str(text)}
}

// ServerClose tells a client the connection is closing.
func ServerClose() Envelope {
	return Envelope{Type: TypeServer, SubType: SubClose}
}

// ChannelClientJoin announces a member joining to the rest of the room.
func ChannelClientJoin(room, client string) Envelope {
	return Envelope{Type: TypeChannel, SubType: SubClientJoin, Source: str(room), Message: str(client)}
}

// ChannelJoined is the direct welcome sent to the member that joined.
func ChannelJoined(room, welcome string) Envelope {
	env := Envelope{Type: TypeChannel, SubType: SubJoined, Source: str(room)}
	if welcome != "" {
		env.Message = str(welcome)
	}
	return env
}

// ChannelClientLeave announces a member leaving to the remaining room.
func ChannelClientLeave(room, client string) Envelope {
	return Envelope{Type: TypeChannel, SubType: SubClientLeave, Source: str(room), Message: str(client)}
}

// ChannelList carries the room's member names as a serialized JSON array.
func ChannelList(room string, names []string) Envelope {
	if names == nil {
		names = []string{}
	}
	data, _ := json.Marshal(names)
	return Envelope{Type: TypeChannel, SubType: SubList, Source: str(room), Message: str(string(data))}
}

// ChatAll is a public room message.
func ChatAll(from, text string) Envelope {
	return Envelope{Type: TypeChat, SubType: SubAll, Source: str(from), Message: str(text)}
}

// ChatMe is an emote.
func ChatMe(from, text string) Envelope {
	return Envelope{Type: TypeChat, SubType: SubMe, Source: str(from), Message: str(text)}
}

// ChatWhisper is a private message.
func ChatWhisper(from, text string) Envelope {
	return Envelope{Type: TypeChat, SubType: SubWhisper, Source: str(from), Message: str(text)}
}

// CommandLogon requests a display name.
func CommandLogon(name string) Envelope {
	return Envelope{Type: TypeCommand, SubType: SubLogon, Source: str(name)}
}

// CommandJoin requests a room switch.
func CommandJoin(room string) Envelope {
	return Envelope{Type: TypeCommand, SubType: SubJoin, Message: str(room)}
}

// CommandEmote requests an emote broadcast.
func CommandEmote(from, text string) Envelope {
	return Envelope{Type: TypeCommand, SubType: SubEmote, Source: str(from), Message: str(text)}
}

// CommandWhisper requests a private delivery to target.
func CommandWhisper(target, text string) Envelope {
	return Envelope{Type: TypeCommand, SubType: SubWhisper, Source: str(target), Message: str(text)}
}

// CommandList requests the current room's member listing.
func CommandList() Envelope {
	return Envelope{Type: TypeCommand, SubType: SubList}
}

// ChatText is a plain outbound chat message from a client.
func ChatText(text string) Envelope {
	return Envelope{Type: TypeChat, SubType: SubAll, Message: str(text)}
}

// LocalError is a client-local error; it is never sent over the wire.
func LocalError(text string) Envelope {
	return Envelope{Type: TypeLocal, SubType: SubError, Message: str(text)}
}
