package speech

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// protocolVersion is the volcengine binary websocket framing version.
const protocolVersion = 0b0001

// MessageType identifies the frame kind within the binary protocol.
type MessageType uint8

const (
	// FullClientRequest carries the JSON request parameters.
	FullClientRequest MessageType = 0b0001
	// FullServerResponse carries JSON metadata, possibly with inline audio.
	FullServerResponse MessageType = 0b1001
	// AudioOnlyServerResponse carries a raw audio chunk.
	AudioOnlyServerResponse MessageType = 0b1011
	// ErrorMessage carries a server-side failure payload.
	ErrorMessage MessageType = 0b1111
)

// MessageFlags modify how the four bytes after the header are interpreted.
type MessageFlags uint8

const (
	NoSequenceNumber       MessageFlags = 0b0000
	PositiveSequenceNumber MessageFlags = 0b0001
	LastPacketNoSequence   MessageFlags = 0b0010
	NegativeSequenceNumber MessageFlags = 0b0011
	// WithEvent marks frames that carry event metadata before the payload.
	WithEvent MessageFlags = 0b0100
)

// EventType is the server-side lifecycle event attached to WithEvent frames.
type EventType int32

const (
	EventTypeNone               EventType = 0
	EventTypeStartConnection    EventType = 1
	EventTypeFinishConnection   EventType = 2
	EventTypeConnectionStarted  EventType = 50
	EventTypeConnectionFailed   EventType = 51
	EventTypeConnectionFinished EventType = 52
	EventTypeSessionStarted     EventType = 150
	EventTypeSessionFinished    EventType = 152
	EventTypeSessionFailed      EventType = 153
)

// SerializationMethod declares how the payload is serialized.
type SerializationMethod uint8

const (
	NoSerialization   SerializationMethod = 0b0000
	JSONSerialization SerializationMethod = 0b0001
)

// CompressionMethod declares how the payload is compressed.
type CompressionMethod uint8

const (
	NoCompression   CompressionMethod = 0b0000
	GzipCompression CompressionMethod = 0b0001
)

// Header is the fixed four-byte frame header.
type Header struct {
	ProtocolVersion     uint8
	HeaderSize          uint8
	MessageType         MessageType
	MessageFlags        MessageFlags
	SerializationMethod SerializationMethod
	CompressionMethod   CompressionMethod
	Reserved            uint8
}

// Message is one decoded protocol frame.
type Message struct {
	Header      Header
	Sequence    int32
	EventType   EventType
	SessionID   string
	ConnectID   string
	ErrorCode   uint32
	PayloadSize uint32
	Payload     []byte
}

func newHeader(msgType MessageType, flags MessageFlags, serialization SerializationMethod, compression CompressionMethod) Header {
	return Header{
		ProtocolVersion:     protocolVersion,
		HeaderSize:          0b0001, // header is one 4-byte unit
		MessageType:         msgType,
		MessageFlags:        flags,
		SerializationMethod: serialization,
		CompressionMethod:   compression,
	}
}

// Encode packs the header into its four-byte wire form.
func (h *Header) Encode() []byte {
	return []byte{
		(h.ProtocolVersion << 4) | h.HeaderSize,
		(uint8(h.MessageType) << 4) | uint8(h.MessageFlags),
		(uint8(h.SerializationMethod) << 4) | uint8(h.CompressionMethod),
		h.Reserved,
	}
}

// DecodeHeader parses the four-byte wire header.
func DecodeHeader(data []byte) (*Header, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("header data too short: got %d, need 4", len(data))
	}

	header := &Header{
		ProtocolVersion:     (data[0] >> 4) & 0x0F,
		HeaderSize:          data[0] & 0x0F,
		MessageType:         MessageType((data[1] >> 4) & 0x0F),
		MessageFlags:        MessageFlags(data[1] & 0x0F),
		SerializationMethod: SerializationMethod((data[2] >> 4) & 0x0F),
		CompressionMethod:   CompressionMethod(data[2] & 0x0F),
		Reserved:            data[3],
	}

	if header.ProtocolVersion != protocolVersion {
		return nil, fmt.Errorf("unsupported protocol version: %d", header.ProtocolVersion)
	}

	return header, nil
}

// EncodeMessage serializes a frame for transmission.
func EncodeMessage(msg *Message) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	buf.Write(msg.Header.Encode())

	switch msg.Header.MessageFlags & 0b0011 {
	case PositiveSequenceNumber, NegativeSequenceNumber:
		if err := binary.Write(buf, binary.BigEndian, uint32(msg.Sequence)); err != nil {
			return nil, fmt.Errorf("failed to write sequence: %w", err)
		}
	}

	if msg.Header.MessageFlags&WithEvent == WithEvent {
		if err := binary.Write(buf, binary.BigEndian, uint32(msg.EventType)); err != nil {
			return nil, fmt.Errorf("failed to write event type: %w", err)
		}
		if !eventSkipsSessionID(msg.EventType) {
			writeSizedString(buf, msg.SessionID)
		}
		if eventHasConnectID(msg.EventType) {
			writeSizedString(buf, msg.ConnectID)
		}
	}

	if err := binary.Write(buf, binary.BigEndian, msg.PayloadSize); err != nil {
		return nil, fmt.Errorf("failed to write payload size: %w", err)
	}
	if len(msg.Payload) > 0 {
		buf.Write(msg.Payload)
	}

	return buf.Bytes(), nil
}

// DecodeMessage parses one frame from the reader.
func DecodeMessage(reader io.Reader) (*Message, error) {
	headerBytes := make([]byte, 4)
	if _, err := io.ReadFull(reader, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	header, err := DecodeHeader(headerBytes)
	if err != nil {
		return nil, err
	}

	msg := &Message{Header: *header}

	// Skip any extended header bytes beyond the fixed four.
	if extra := int(header.HeaderSize)*4 - 4; extra > 0 {
		if _, err := io.CopyN(io.Discard, reader, int64(extra)); err != nil {
			return nil, fmt.Errorf("failed to read extended header: %w", err)
		}
	}

	switch header.MessageFlags & 0b0011 {
	case PositiveSequenceNumber, NegativeSequenceNumber:
		var seq uint32
		if err := binary.Read(reader, binary.BigEndian, &seq); err != nil {
			return nil, fmt.Errorf("failed to read sequence: %w", err)
		}
		msg.Sequence = int32(seq)
	}

	if header.MessageFlags&WithEvent == WithEvent {
		var eventRaw int32
		if err := binary.Read(reader, binary.BigEndian, &eventRaw); err != nil {
			return nil, fmt.Errorf("failed to read event type: %w", err)
		}
		msg.EventType = EventType(eventRaw)

		if !eventSkipsSessionID(msg.EventType) {
			if msg.SessionID, err = readSizedString(reader); err != nil {
				return nil, fmt.Errorf("failed to read session id: %w", err)
			}
		}
		if eventHasConnectID(msg.EventType) {
			if msg.ConnectID, err = readSizedString(reader); err != nil {
				return nil, fmt.Errorf("failed to read connect id: %w", err)
			}
		}
	}

	if header.MessageType == ErrorMessage {
		if err := binary.Read(reader, binary.BigEndian, &msg.ErrorCode); err != nil {
			return nil, fmt.Errorf("failed to read error code: %w", err)
		}
	}

	if err := binary.Read(reader, binary.BigEndian, &msg.PayloadSize); err != nil {
		return nil, fmt.Errorf("failed to read payload size: %w", err)
	}

	if msg.PayloadSize > 0 {
		msg.Payload = make([]byte, msg.PayloadSize)
		if _, err := io.ReadFull(reader, msg.Payload); err != nil {
			return nil, fmt.Errorf("failed to read payload (expected %d bytes): %w", msg.PayloadSize, err)
		}
	}

	return msg, nil
}

// NewFullClientRequest wraps a JSON payload into a request frame.
func NewFullClientRequest(payload []byte, compression CompressionMethod) *Message {
	return &Message{
		Header:      newHeader(FullClientRequest, NoSequenceNumber, JSONSerialization, compression),
		PayloadSize: uint32(len(payload)),
		Payload:     payload,
	}
}

// IsLastPacket reports whether the frame terminates the response stream.
func (m *Message) IsLastPacket() bool {
	switch m.Header.MessageFlags & 0b0011 {
	case LastPacketNoSequence, NegativeSequenceNumber:
		return true
	default:
		return false
	}
}

// IsErrorMessage reports whether the frame carries a server error.
func (m *Message) IsErrorMessage() bool {
	return m.Header.MessageType == ErrorMessage
}

func writeSizedString(buf *bytes.Buffer, s string) {
	size := make([]byte, 4)
	binary.BigEndian.PutUint32(size, uint32(len(s)))
	buf.Write(size)
	if s != "" {
		buf.WriteString(s)
	}
}

func readSizedString(reader io.Reader) (string, error) {
	var size uint32
	if err := binary.Read(reader, binary.BigEndian, &size); err != nil {
		return "", err
	}
	if size == 0 {
		return "", nil
	}
	raw := make([]byte, size)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return "", err
	}
	return string(raw), nil
}

func eventSkipsSessionID(event EventType) bool {
	switch event {
	case EventTypeStartConnection, EventTypeFinishConnection,
		EventTypeConnectionStarted, EventTypeConnectionFailed,
		EventTypeConnectionFinished:
		return true
	default:
		return false
	}
}

func eventHasConnectID(event EventType) bool {
	switch event {
	case EventTypeConnectionStarted, EventTypeConnectionFailed, EventTypeConnectionFinished:
		return true
	default:
		return false
	}
}
