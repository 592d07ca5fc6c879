package core

import "context"

// WelcomeProvider supplies the optional extra content delivered to a
// client after it joins a room, attributed to Persona. Implementations
// must be safe for concurrent use; Welcome is never called while the
// registry lock is held.
type WelcomeProvider interface {
	Persona() string
	Welcome(ctx context.Context, room, client string) (string, error)
}

// noWelcome keeps the farewell persona but contributes no join content.
type noWelcome struct{}

func (noWelcome) Persona() string { return "" }

func (noWelcome) Welcome(context.Context, string, string) (string, error) { return "", nil }
