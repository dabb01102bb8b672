// network/connection.go
package network

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Packet is one framed message: 2 bytes message id, 2 bytes payload
// length, payload.
type Packet struct {
	MsgID  uint16
	Data   []byte
	Length uint16
}

const headerSize = 4

var (
	ErrShortPacket     = errors.New("packet shorter than its header")
	ErrPacketTooLong   = errors.New("packet payload exceeds the length field")
	ErrPayloadTooLarge = errors.New("payload does not fit the length field")
)

// EncodePacket frames a payload for the wire. The length field is 16 bits,
// so payloads over 64 KiB are rejected rather than truncated.
func EncodePacket(msgID uint16, data []byte) ([]byte, error) {
	if len(data) > math.MaxUint16 {
		return nil, ErrPayloadTooLarge
	}

	packet := make([]byte, headerSize+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[headerSize:], data)
	return packet, nil
}

// DecodePacket parses one framed message.
func DecodePacket(raw []byte) (*Packet, error) {
	if len(raw) < headerSize {
		return nil, ErrShortPacket
	}

	msgID := binary.BigEndian.Uint16(raw[0:2])
	length := binary.BigEndian.Uint16(raw[2:4])

	if len(raw) < headerSize+int(length) {
		return nil, ErrPacketTooLong
	}

	return &Packet{
		MsgID:  msgID,
		Length: length,
		Data:   raw[headerSize : headerSize+int(length)],
	}, nil
}

// Connection is one client link, transport-agnostic for the callers.
type Connection interface {
	Send(msgID uint16, data []byte) error
	SendJSON(msgID uint16, v interface{}) error
	Close() error
	RemoteAddr() net.Addr
	SetHeartbeat(interval time.Duration)
	ReadPacket() (*Packet, error)
}

// WSConnection frames packets over a websocket. Send is safe for
// concurrent use; ReadPacket belongs to a single reader goroutine.
type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
	heartbeat time.Duration
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

func (c *WSConnection) Send(msgID uint16, data []byte) error {
	packet, err := EncodePacket(msgID, data)
	if err != nil {
		return err
	}

	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	return c.conn.WriteMessage(websocket.BinaryMessage, packet)
}

// SendJSON marshals v into the packet payload.
func (c *WSConnection) SendJSON(msgID uint16, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Send(msgID, data)
}

func (c *WSConnection) ReadPacket() (*Packet, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	packet, err := DecodePacket(data)
	if err != nil {
		return nil, err
	}

	if c.heartbeat > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.heartbeat * 2))
	}
	return packet, nil
}

// SetHeartbeat arms the read deadline: a client silent for two intervals
// is dropped by the next read.
func (c *WSConnection) SetHeartbeat(interval time.Duration) {
	c.heartbeat = interval
	c.conn.SetReadDeadline(time.Now().Add(interval * 2))
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
