// Package debug provides instrumentation and profiling tools for oledmon.
package debug

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPprofAddr is used when StartPprofServer gets an empty address.
const DefaultPprofAddr = "localhost:6060"

// StartPprofServer starts a pprof HTTP server at the given address and
// returns the bound address and a stop function that shuts it down.
func StartPprofServer(addr string, logger *logrus.Logger) (string, func(), error) {
	if addr == "" {
		addr = DefaultPprofAddr
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("pprof server failed: %w", err)
	}

	server := &http.Server{
		Handler:           http.DefaultServeMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	bound := ln.Addr().String()
	go func() {
		logger.WithField("addr", bound).Info("pprof server starting")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithField("error", err).Warn("pprof server stopped")
		}
	}()

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}

	return bound, stop, nil
}
