package wire

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// maxMessageSize bounds one delimited message. Snapshots are bounded in the
// thousands of elements, so anything larger indicates a corrupt stream.
const maxMessageSize = 16 << 20

// WriteDelimited frames msg with a uvarint length prefix.
func WriteDelimited(w io.Writer, msg []byte) error {
	var prefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(prefix[:], uint64(len(msg)))
	if _, err := w.Write(prefix[:n]); err != nil {
		return err
	}
	_, err := w.Write(msg)
	return err
}

// ReadDelimited reads one length-prefixed message. It returns io.EOF only
// when the stream ends cleanly on a message boundary.
func ReadDelimited(r *bufio.Reader) ([]byte, error) {
	size, err := binary.ReadUvarint(r)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read message length: %w", err)
	}
	if size > maxMessageSize {
		return nil, fmt.Errorf("message length %d exceeds limit", size)
	}
	msg := make([]byte, size)
	if _, err := io.ReadFull(r, msg); err != nil {
		return nil, fmt.Errorf("read message body: %w", err)
	}
	return msg, nil
}
