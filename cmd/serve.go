package cmd

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/papertrade/server"
	"github.com/etnz/papertrade/session"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the account over HTTP" }
func (*serveCmd) Usage() string {
	return `pt serve [-addr <host:port>]

  Serves the account as a JSON API until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address. Defaults to PAPERTRADE_ADDR.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	addr := c.addr
	if addr == "" {
		addr = config.Addr
	}
	log := newLogger()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return withSession(ctx, func(s *session.Session) subcommands.ExitStatus {
		srv := server.New(server.Config{Addr: addr, Session: s, Log: log})

		errc := make(chan error, 1)
		go func() { errc <- srv.Start() }()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("server failed")
				return subcommands.ExitFailure
			}
		case <-ctx.Done():
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdown); err != nil {
				log.Error().Err(err).Msg("shutdown failed")
				return subcommands.ExitFailure
			}
		}
		log.Info().Msg("shutdown complete")
		return subcommands.ExitSuccess
	})
}
