// Package wire defines the socket protocol between the market daemon and its
// clients: length-prefixed CBOR frames carrying either a transaction
// envelope to deliver or a read-only state query.
package wire

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/swth/dmkt/market"
)

// MaxFrameSize bounds a single frame to keep a misbehaving peer from forcing
// an arbitrary allocation.
const MaxFrameSize = 1 << 22 // 4 MB

// Request is the client-to-daemon frame. Exactly one field is set.
type Request struct {
	Deliver *market.Envelope `cbor:"deliver,omitempty"`
	Query   *QueryRequest    `cbor:"query,omitempty"`
}

// QueryRequest asks for the blob persisted at one state address.
type QueryRequest struct {
	Address string `cbor:"address"`
}

// Response codes.
const (
	CodeOK uint32 = iota
	CodeErr
)

// Response is the daemon-to-client frame. Value carries the base64-wrapped
// blob for queries and is empty for delivers.
type Response struct {
	Code  uint32 `cbor:"code"`
	Log   string `cbor:"log,omitempty"`
	Value string `cbor:"value,omitempty"`
}

// WriteMsg writes v as a uvarint-length-prefixed CBOR frame.
func WriteMsg(w *bufio.Writer, v interface{}) error {
	bz, err := market.MarshalCBOR(v)
	if err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(bz)))
	if _, err := w.Write(lenBuf[:n]); err != nil {
		return err
	}
	if _, err := w.Write(bz); err != nil {
		return err
	}
	return w.Flush()
}

// ReadMsg reads one length-prefixed CBOR frame into v.
func ReadMsg(r *bufio.Reader, v interface{}) error {
	length, err := binary.ReadUvarint(r)
	if err != nil {
		return err
	}
	if length > MaxFrameSize {
		return fmt.Errorf("frame of %d bytes exceeds maximum %d", length, MaxFrameSize)
	}
	bz := make([]byte, length)
	if _, err := io.ReadFull(r, bz); err != nil {
		return err
	}
	if err := market.UnmarshalCBOR(bz, v); err != nil {
		return fmt.Errorf("decoding frame: %w", err)
	}
	return nil
}
