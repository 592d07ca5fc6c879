package core

import (
	"testing"
	"time"

	"github.com/dmelnik/roomcast/internal/proto"
)

func testRegistry(opts Options) *Registry {
	if opts.SendBuffer == 0 {
		opts.SendBuffer = 32
	}
	return NewRegistry(opts, nil)
}

func nextEnvelope(t *testing.T, s *Session) proto.Envelope {
	t.Helper()

	select {
	case env, ok := <-s.Out():
		if !ok {
			t.Fatalf("session closed while waiting for envelope")
		}
		return env
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for envelope")
	}
	return proto.Envelope{}
}

// mustEnvelope reads envelopes until one matches the wanted type/subType.
func mustEnvelope(t *testing.T, s *Session, typ, subType string) proto.Envelope {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case env, ok := <-s.Out():
			if !ok {
				t.Fatalf("session closed while waiting for %s/%s", typ, subType)
			}
			if env.Type == typ && env.SubType == subType {
				return env
			}
		case <-time.After(10 * time.Millisecond):
		}
	}
	t.Fatalf("expected envelope %s/%s not received", typ, subType)
	return proto.Envelope{}
}

// drain discards everything currently buffered for s.
func drain(s *Session) {
	for {
		select {
		case <-s.Out():
		default:
			return
		}
	}
}

// waitClosed blocks until the session's outbound channel is closed.
func waitClosed(t *testing.T, s *Session) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-s.Out():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("session %s did not close in time", s.ID())
		}
	}
}

func logon(t *testing.T, reg *Registry, name string) *Session {
	t.Helper()

	s := reg.Connect()
	s.Handle(proto.CommandLogon(name))
	if env := mustEnvelope(t, s, proto.TypeServer, proto.SubLogon); env.MessageStr() != "true" {
		t.Fatalf("logon %q rejected", name)
	}
	mustEnvelope(t, s, proto.TypeChannel, proto.SubJoined)
	return s
}
