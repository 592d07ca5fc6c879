package http

import "github.com/rs/zerolog"

func nopLogger() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
