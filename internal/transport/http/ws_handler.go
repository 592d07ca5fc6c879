package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/dmelnik/roomcast/internal/core"
	"github.com/dmelnik/roomcast/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to core sessions.
// Each frame carries exactly one serialized envelope.
type WSHandler struct {
	reg       *core.Registry
	rateLimit int
	log       *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler. rateLimit caps inbound
// frames per minute per connection; 0 disables the cap.
func NewWSHandler(reg *core.Registry, rateLimit int, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{reg: reg, rateLimit: rateLimit, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	sess := h.reg.Connect()
	defer sess.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, sess)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, sess)
	}()

	err = <-errCh
	sess.Close() // stops any further deliveries and ends the write loop
	cancel()
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("session", sess.ID()).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, sess *core.Session) error {
	limiter := newRateLimiter(h.rateLimit, time.Minute)
	defer limiter.stop()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		if !limiter.allow() {
			h.log.Warn().Str("session", sess.ID()).Msg("inbound frame rate limit exceeded")
			return errors.New("rate limit exceeded")
		}

		env, err := proto.Decode(data)
		if err != nil {
			// A malformed frame costs this connection only.
			h.log.Warn().Err(err).Str("session", sess.ID()).Msg("dropping connection on malformed frame")
			return err
		}
		sess.Handle(env)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sess *core.Session) error {
	for {
		select {
		case env, ok := <-sess.Out():
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, env); err != nil {
				h.log.Warn().Err(err).Str("session", sess.ID()).Msg("write ws envelope")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
