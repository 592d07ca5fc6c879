// Interactive chat client for manual testing. Implements the slash-command
// grammar (/join, /me, /w, /ls) on top of the envelope protocol.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/dmelnik/roomcast/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8081/ws", "WebSocket address")
	name := flag.String("name", "cli-user", "display name to log on with")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(env proto.Envelope) {
		if writeErr := wsjson.Write(ctx, conn, env); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	send(proto.CommandLogon(*name))

	fmt.Printf("Connected to %s as %s\n", *addr, *name)
	fmt.Println("Commands: /join <room>, /me <emote>, /w <name> <text>, /ls. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn, *name, send)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var env proto.Envelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}
		printEnvelope(env)
	}
}

func printEnvelope(env proto.Envelope) {
	switch {
	case env.Type == proto.TypeServer && env.SubType == proto.SubLogon:
		fmt.Printf("* logon as %s: %s\n", env.SourceStr(), env.MessageStr())
	case env.Type == proto.TypeServer && env.SubType == proto.SubError:
		fmt.Printf("* server error: %s\n", env.MessageStr())
	case env.Type == proto.TypeServer && env.SubType == proto.SubClose:
		fmt.Println("* server closed the connection")
	case env.Type == proto.TypeChannel && env.SubType == proto.SubJoined:
		fmt.Printf("* joined %s: %s\n", env.SourceStr(), env.MessageStr())
	case env.Type == proto.TypeChannel && env.SubType == proto.SubClientJoin:
		fmt.Printf("[%s] %s joined\n", env.SourceStr(), env.MessageStr())
	case env.Type == proto.TypeChannel && env.SubType == proto.SubClientLeave:
		fmt.Printf("[%s] %s left\n", env.SourceStr(), env.MessageStr())
	case env.Type == proto.TypeChannel && env.SubType == proto.SubList:
		fmt.Printf("[%s] members: %s\n", env.SourceStr(), env.MessageStr())
	case env.Type == proto.TypeChat && env.SubType == proto.SubMe:
		fmt.Printf("* %s %s\n", env.SourceStr(), env.MessageStr())
	case env.Type == proto.TypeChat && env.SubType == proto.SubWhisper:
		fmt.Printf("(whisper) %s: %s\n", env.SourceStr(), env.MessageStr())
	case env.Type == proto.TypeChat:
		fmt.Printf("%s: %s\n", env.SourceStr(), env.MessageStr())
	case env.Type == proto.TypeLocal && env.SubType == proto.SubError:
		fmt.Printf("! %s\n", env.MessageStr())
	default:
		fmt.Printf("%s/%s %s %s\n", env.Type, env.SubType, env.SourceStr(), env.MessageStr())
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, name string, send func(proto.Envelope)) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			env, err := parseLine(name, text)
			if err != nil {
				// Client-local error, never sent on the wire.
				printEnvelope(proto.LocalError(err.Error()))
				continue
			}
			send(env)
		}
	}
}

// parseLine turns one input line into an envelope: slash commands become
// COMMAND envelopes, everything else is a public chat message.
func parseLine(name, text string) (proto.Envelope, error) {
	if !strings.HasPrefix(text, "/") {
		return proto.ChatText(text), nil
	}

	cmd, rest, _ := strings.Cut(text[1:], " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "join":
		if rest == "" {
			return proto.Envelope{}, errors.New("usage: /join <room>")
		}
		return proto.CommandJoin(rest), nil
	case "me", "emote":
		if rest == "" {
			return proto.Envelope{}, errors.New("usage: /me <emote>")
		}
		return proto.CommandEmote(name, rest), nil
	case "w", "whisper":
		target, msg, found := strings.Cut(rest, " ")
		if !found || target == "" || strings.TrimSpace(msg) == "" {
			return proto.Envelope{}, errors.New("usage: /w <name> <text>")
		}
		return proto.CommandWhisper(target, strings.TrimSpace(msg)), nil
	case "ls", "list":
		return proto.CommandList(), nil
	default:
		return proto.Envelope{}, fmt.Errorf("unknown command: /%s", cmd)
	}
}
