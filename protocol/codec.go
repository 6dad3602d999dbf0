package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmpty          = errors.New("empty datagram")
	ErrUnknownCommand = errors.New("unknown command")
	ErrShortBuffer    = errors.New("datagram shorter than command layout")
)

// Message is a datagram body. Its payload layout is declared once by fields
// and both Encode and Decode walk that same list.
type Message interface {
	Command() Command
	fields() []field
}

// field binds one wire slot to a struct member. ptr must be one of
// *float32, *uint32, *int32, *uint64 or *int64.
type field struct {
	name string
	ptr  any
}

func (f field) width() int {
	switch f.ptr.(type) {
	case *float32, *uint32, *int32:
		return 4
	case *uint64, *int64:
		return 8
	}
	panic(fmt.Sprintf("protocol: field %s has unsupported type %T", f.name, f.ptr))
}

func layoutSize(fs []field) int {
	n := 0
	for _, f := range fs {
		n += f.width()
	}
	return n
}

// Size returns the full datagram length for a message, command byte included
func Size(m Message) int {
	return 1 + layoutSize(m.fields())
}

// Encode serializes m in network byte order
func Encode(m Message) []byte {
	fs := m.fields()
	buf := make([]byte, 1, 1+layoutSize(fs))
	buf[0] = byte(m.Command())
	for _, f := range fs {
		switch v := f.ptr.(type) {
		case *float32:
			buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(*v))
		case *uint32:
			buf = binary.BigEndian.AppendUint32(buf, *v)
		case *int32:
			buf = binary.BigEndian.AppendUint32(buf, uint32(*v))
		case *uint64:
			buf = binary.BigEndian.AppendUint64(buf, *v)
		case *int64:
			buf = binary.BigEndian.AppendUint64(buf, uint64(*v))
		}
	}
	return buf
}

// Decode parses one datagram. A buffer shorter than the layout implied by
// its command is rejected before any field is read; trailing bytes are
// ignored.
func Decode(buf []byte) (Message, error) {
	if len(buf) == 0 {
		return nil, ErrEmpty
	}
	m := newMessage(Command(buf[0]))
	if m == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCommand, buf[0])
	}
	fs := m.fields()
	if need := 1 + layoutSize(fs); len(buf) < need {
		return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrShortBuffer, m.Command(), need, len(buf))
	}
	off := 1
	for _, f := range fs {
		switch v := f.ptr.(type) {
		case *float32:
			*v = math.Float32frombits(binary.BigEndian.Uint32(buf[off:]))
		case *uint32:
			*v = binary.BigEndian.Uint32(buf[off:])
		case *int32:
			*v = int32(binary.BigEndian.Uint32(buf[off:]))
		case *uint64:
			*v = binary.BigEndian.Uint64(buf[off:])
		case *int64:
			*v = int64(binary.BigEndian.Uint64(buf[off:]))
		}
		off += f.width()
	}
	return m, nil
}

func newMessage(c Command) Message {
	switch c {
	case CmdError:
		return &Error{}
	case CmdStateUpdate:
		return &StateUpdate{}
	case CmdAllUpdate:
		return &AllUpdate{}
	case CmdReqFire:
		return &ReqFire{}
	case CmdRspFire:
		return &RspFire{}
	case CmdAsteroidSpawn:
		return &AsteroidSpawn{}
	case CmdAsteroidDestroy:
		return &AsteroidDestroy{}
	case CmdReqConnect:
		return &ReqConnect{}
	case CmdRspConnect:
		return &RspConnect{}
	case CmdGameStart:
		return &GameStart{}
	case CmdGameEnd:
		return &GameEnd{}
	case CmdTimeSync:
		return &TimeSync{}
	}
	return nil
}
