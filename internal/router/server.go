package router

import (
	"context"
	"net"
	"net/http"
)

// NewServer wraps h in an http.Server whose request contexts are cancelled
// as soon as Shutdown starts, so long-lived streams end instead of holding
// the shutdown open until its deadline.
func NewServer(ctx context.Context, addr string, h http.Handler) *http.Server {
	base, cancel := context.WithCancel(ctx)
	srv := &http.Server{
		Addr:        addr,
		Handler:     h,
		BaseContext: func(net.Listener) context.Context { return base },
	}
	srv.RegisterOnShutdown(cancel)
	return srv
}
