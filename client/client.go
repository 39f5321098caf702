// Package client prepares and submits market transactions and reads state
// over the daemon's socket protocol.
package client

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"net"

	"github.com/swth/dmkt/market"
	"github.com/swth/dmkt/wire"
)

// Client is a synchronous socket client. It is not safe for concurrent use;
// callers multiplexing submissions should hold their own lock or dial one
// client per goroutine.
type Client struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
}

// Dial connects to a daemon at addr.
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}
	return &Client{
		conn: conn,
		r:    bufio.NewReader(conn),
		w:    bufio.NewWriter(conn),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Submit delivers one signed envelope and waits for the verdict. A non-OK
// response surfaces as an error carrying the daemon's log line.
func (c *Client) Submit(env market.Envelope) error {
	req := wire.Request{Deliver: &env}
	if err := wire.WriteMsg(c.w, req); err != nil {
		return err
	}
	var resp wire.Response
	if err := wire.ReadMsg(c.r, &resp); err != nil {
		return err
	}
	if resp.Code != wire.CodeOK {
		return fmt.Errorf("transaction rejected: %s", resp.Log)
	}
	return nil
}

// Query fetches the blob stored at one state address.
func (c *Client) Query(address string) ([]byte, error) {
	req := wire.Request{Query: &wire.QueryRequest{Address: address}}
	if err := wire.WriteMsg(c.w, req); err != nil {
		return nil, err
	}
	var resp wire.Response
	if err := wire.ReadMsg(c.r, &resp); err != nil {
		return nil, err
	}
	if resp.Code != wire.CodeOK {
		return nil, fmt.Errorf("query failed: %s", resp.Log)
	}
	return base64.StdEncoding.DecodeString(resp.Value)
}
