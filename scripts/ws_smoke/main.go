// Smoke test against a running server: log on, join a room, send a
// message, and verify it comes back.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/dmelnik/roomcast/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8081/ws", "WebSocket address")
	name := flag.String("name", "smoke-tester", "display name")
	room := flag.String("room", "smoke", "room to join")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(env proto.Envelope) error {
		if err := wsjson.Write(ctx, conn, env); err != nil {
			return fmt.Errorf("send: %w", err)
		}
		return nil
	}
	expect := func(typ, subType string) (proto.Envelope, error) {
		for {
			var env proto.Envelope
			if err := wsjson.Read(ctx, conn, &env); err != nil {
				return env, fmt.Errorf("waiting for %s/%s: %w", typ, subType, err)
			}
			if env.Type == typ && env.SubType == subType {
				return env, nil
			}
		}
	}

	if err := send(proto.CommandLogon(*name)); err != nil {
		return err
	}
	logon, err := expect(proto.TypeServer, proto.SubLogon)
	if err != nil {
		return err
	}
	if logon.MessageStr() != "true" {
		return fmt.Errorf("logon rejected for %q", *name)
	}

	if err := send(proto.CommandJoin(*room)); err != nil {
		return err
	}
	if _, err := expect(proto.TypeChannel, proto.SubJoined); err != nil {
		return err
	}

	if err := send(proto.ChatText(*text)); err != nil {
		return err
	}
	// Skip welcome-bot chatter until our own message comes back.
	for {
		echo, err := expect(proto.TypeChat, proto.SubAll)
		if err != nil {
			return err
		}
		if echo.SourceStr() != *name {
			continue
		}
		if echo.MessageStr() != *text {
			return fmt.Errorf("unexpected echo: %s: %s", echo.SourceStr(), echo.MessageStr())
		}
		break
	}

	fmt.Println("smoke test passed")
	return nil
}
