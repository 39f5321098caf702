// Package server exposes the transaction processor to clients over a socket.
// It stands in for the host ledger runtime at the storage-and-dispatch
// boundary: it owns the database, serializes delivery, and serves the
// read-only query surface.
package server

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/swth/dmkt/libs/log"
	"github.com/swth/dmkt/processor"
	"github.com/swth/dmkt/wire"
)

// Server accepts wire.Request frames and answers with wire.Response.
// Deliveries are serialized under one mutex: every ledger object is a single
// blob at a fixed address, so concurrent transactions on the same family
// must not interleave.
type Server struct {
	logger log.Logger
	addr   string
	proc   *processor.Processor
	store  processor.Store

	listener net.Listener

	connsMtx   sync.Mutex
	conns      map[int]net.Conn
	nextConnID int

	deliverMtx sync.Mutex

	wg sync.WaitGroup
}

// New builds a server delivering to proc and querying store on addr.
func New(logger log.Logger, addr string, proc *processor.Processor, store processor.Store) *Server {
	return &Server{
		logger: logger,
		addr:   addr,
		proc:   proc,
		store:  store,
		conns:  make(map[int]net.Conn),
	}
}

// Start begins listening. It returns once the listener is up; connections
// are served until ctx is canceled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.logger.Info("server listening", "addr", ln.Addr().String())

	s.wg.Add(1)
	go s.acceptLoop(ctx)
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener and every open connection and waits for the
// handlers to drain.
func (s *Server) Stop() {
	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.logger.Error("closing listener", "err", err)
		}
	}
	s.connsMtx.Lock()
	for id, conn := range s.conns {
		delete(s.conns, id)
		if err := conn.Close(); err != nil {
			s.logger.Error("closing connection", "id", id, "err", err)
		}
	}
	s.connsMtx.Unlock()
	s.wg.Wait()
}

func (s *Server) acceptLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				s.logger.Error("accept failed", "err", err)
			}
			return
		}
		id := s.addConn(conn)
		s.logger.Debug("accepted connection", "id", id, "remote", conn.RemoteAddr().String())
		s.wg.Add(1)
		go s.serveConn(id, conn)
	}
}

func (s *Server) addConn(conn net.Conn) int {
	s.connsMtx.Lock()
	defer s.connsMtx.Unlock()
	id := s.nextConnID
	s.nextConnID++
	s.conns[id] = conn
	return id
}

func (s *Server) rmConn(id int) {
	s.connsMtx.Lock()
	defer s.connsMtx.Unlock()
	if conn, ok := s.conns[id]; ok {
		delete(s.conns, id)
		conn.Close()
	}
}

func (s *Server) serveConn(id int, conn net.Conn) {
	defer s.wg.Done()
	defer s.rmConn(id)

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	for {
		var req wire.Request
		if err := wire.ReadMsg(r, &req); err != nil {
			s.logger.Debug("connection closed", "id", id, "err", err)
			return
		}
		resp := s.handle(req)
		if err := wire.WriteMsg(w, resp); err != nil {
			s.logger.Error("writing response", "id", id, "err", err)
			return
		}
	}
}

func (s *Server) handle(req wire.Request) wire.Response {
	switch {
	case req.Deliver != nil:
		s.deliverMtx.Lock()
		err := s.proc.Apply(*req.Deliver)
		s.deliverMtx.Unlock()
		if err != nil {
			return wire.Response{Code: wire.CodeErr, Log: err.Error()}
		}
		return wire.Response{Code: wire.CodeOK}
	case req.Query != nil:
		bz, err := s.store.Get(req.Query.Address)
		if err != nil {
			return wire.Response{Code: wire.CodeErr, Log: err.Error()}
		}
		if bz == nil {
			return wire.Response{Code: wire.CodeErr, Log: "no state at address"}
		}
		return wire.Response{Code: wire.CodeOK, Value: base64.StdEncoding.EncodeToString(bz)}
	default:
		return wire.Response{Code: wire.CodeErr, Log: "empty request"}
	}
}
