package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"go.uber.org/zap"
)

// Server hosts one run per TCP connection. Messages are line-delimited
// JSON: every ClientMessage gets exactly one ServerMessage back.
type Server struct {
	Addr    string
	Session SessionConfig // template for each connection's session
	Logger  *zap.Logger
}

// ListenAndServe listens on Addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then waits for
// open connections to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := s.logger()
	logger.Info("server listening", zap.String("addr", ln.Addr().String()))

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("server stopped")
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Handle(ctx, conn)
		}()
	}
}

// Handle serves a single connection until the peer hangs up or ctx ends.
func (s *Server) Handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	sess := NewSession(s.Session)
	logger := s.logger().With(
		zap.String("session", sess.ID),
		zap.String("remote", conn.RemoteAddr().String()),
	)
	logger.Info("client connected")

	enc := json.NewEncoder(conn)
	dec := json.NewDecoder(conn)
	over := false
	for {
		var msg ClientMessage
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				logger.Info("client disconnected")
			} else {
				logger.Warn("read message", zap.Error(err))
				_ = enc.Encode(ServerMessage{Type: ReplyError, Error: "malformed message"})
			}
			return
		}

		reply := sess.Apply(msg)
		if reply.Type == ReplyError {
			logger.Debug("rejected message", zap.String("type", msg.Type), zap.String("error", reply.Error))
		}
		if err := enc.Encode(reply); err != nil {
			logger.Warn("write reply", zap.Error(err))
			return
		}
		if reply.State == nil {
			continue
		}
		if reply.State.Over && !over {
			logger.Info("run finished",
				zap.Int("score", reply.State.Score),
				zap.Int("turn", reply.State.Turn),
				zap.Bool("new_best", reply.State.NewBest),
			)
		}
		over = reply.State.Over
	}
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
