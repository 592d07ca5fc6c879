package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmelnik/roomcast/internal/proto"
)

type stubProvider struct {
	text string
	err  error
}

func (p *stubProvider) Persona() string { return "greeter" }

func (p *stubProvider) Welcome(context.Context, string, string) (string, error) {
	return p.text, p.err
}

func TestWelcomeContentDeliveredAfterJoin(t *testing.T) {
	reg := testRegistry(Options{Welcome: &stubProvider{text: "did you know..."}})

	alice := logon(t, reg, "alice")

	env := mustEnvelope(t, alice, proto.TypeChat, proto.SubAll)
	if env.SourceStr() != "greeter" || env.MessageStr() != "did you know..." {
		t.Fatalf("unexpected welcome content: %+v", env)
	}
}

func TestWelcomeProviderFailureIsSilent(t *testing.T) {
	reg := testRegistry(Options{Welcome: &stubProvider{err: errors.New("upstream down")}})

	alice := logon(t, reg, "alice")

	select {
	case env := <-alice.Out():
		t.Fatalf("provider failure leaked an envelope: %+v", env)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFarewellUsesProviderPersona(t *testing.T) {
	reg := testRegistry(Options{Welcome: &stubProvider{}})

	alice := logon(t, reg, "alice")
	drain(alice)

	alice.Handle(proto.CommandJoin("dev"))

	farewell := mustEnvelope(t, alice, proto.TypeChat, proto.SubAll)
	if farewell.SourceStr() != "greeter" || farewell.MessageStr() != "Goodbye alice" {
		t.Fatalf("unexpected farewell: %+v", farewell)
	}
}
