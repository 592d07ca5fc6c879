package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/dmelnik/roomcast/internal/proto"
)

func benchmarkRoomBroadcast(b *testing.B, recipients int) {
	reg := testRegistry(Options{LogonGrace: time.Minute, SendBuffer: 16})
	defer reg.Close()

	sender := reg.Connect()
	reg.logon(sender, "sender")
	drainForever(sender)

	var target *Session
	for i := 0; i < recipients; i++ {
		s := reg.Connect()
		reg.logon(s, fmt.Sprintf("client-%d", i))
		if i == 0 {
			target = s
		} else {
			drainForever(s)
		}
	}

	drain(target)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sender.Handle(proto.ChatText("payload"))
		for env := range target.Out() {
			if env.Type == proto.TypeChat && env.SubType == proto.SubAll {
				break
			}
		}
	}
}

func drainForever(s *Session) {
	go func() {
		for range s.Out() {
		}
	}()
}

func BenchmarkRoomBroadcast_10(b *testing.B)  { benchmarkRoomBroadcast(b, 10) }
func BenchmarkRoomBroadcast_100(b *testing.B) { benchmarkRoomBroadcast(b, 100) }
func BenchmarkRoomBroadcast_500(b *testing.B) { benchmarkRoomBroadcast(b, 500) }
