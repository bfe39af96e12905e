package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	coregrpc "github.com/msto63/dashscript/pkg/core/grpc"
	"github.com/msto63/dashscript/pkg/core/logging"
)

// Config holds listener settings for Server
type Config struct {
	HTTPAddr        string
	GRPCAddr        string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Server runs the websocket and gRPC endpoints of one Editor
type Server struct {
	cfg    Config
	http   *http.Server
	grpc   *coregrpc.Server
	log    *logging.Logger
	httpLn net.Listener
	grpcLn net.Listener
}

// New creates a server for editor
func New(cfg Config, editor *Editor, log *logging.Logger) *Server {
	if log == nil {
		log = logging.New("server")
	}
	g := coregrpc.NewServer(coregrpc.DefaultServerConfig(cfg.GRPCAddr), log)
	RegisterEditorServer(g.GRPCServer(), NewGRPCEditor(editor))

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Handler:           NewHTTPHandler(editor, log),
			ReadHeaderTimeout: cfg.ReadTimeout,
		},
		grpc: g,
		log:  log,
	}
}

// Listen binds both addresses
func (s *Server) Listen() error {
	var err error
	if s.httpLn, err = net.Listen("tcp", s.cfg.HTTPAddr); err != nil {
		return mdwerror.Wrap(err, "failed to listen").
			WithCode(mdwerror.CodeConfig).
			WithOperation("server.Listen").
			WithDetail("addr", s.cfg.HTTPAddr)
	}
	if s.grpcLn, err = s.grpc.Listen(); err != nil {
		s.httpLn.Close()
		return err
	}
	return nil
}

// HTTPAddr returns the bound HTTP address
func (s *Server) HTTPAddr() string {
	if s.httpLn != nil {
		return s.httpLn.Addr().String()
	}
	return s.cfg.HTTPAddr
}

// GRPCAddr returns the bound gRPC address
func (s *Server) GRPCAddr() string {
	if s.grpcLn != nil {
		return s.grpcLn.Addr().String()
	}
	return s.cfg.GRPCAddr
}

// Run serves until ctx ends or either endpoint fails, then shuts both down.
// Listen is called first when it has not been.
func (s *Server) Run(ctx context.Context) error {
	if s.httpLn == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("HTTP server listening", "addr", s.HTTPAddr())
		if err := s.http.Serve(s.httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return s.grpc.Serve(s.grpcLn)
	})
	g.Go(func() error {
		<-gctx.Done()
		s.shutdown()
		return nil
	})
	return g.Wait()
}

func (s *Server) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.log.Info("shutting down", "timeout", s.cfg.ShutdownTimeout.String())
	if err := s.http.Shutdown(ctx); err != nil {
		s.log.Warn("HTTP shutdown incomplete", "error", err.Error())
	}
	s.grpc.StopWithTimeout(ctx)
}
