package protocol

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strconv"
)

// Version is the only protocol version spoken on the wire.
const Version uint32 = 1

// HeaderSize is the encoded size of Header.
const HeaderSize = 2 * WordSize

// Operation selects the payload that follows the header.
type Operation uint32

const (
	OpSubmitJob Operation = 0
	// OpQueryResults is the default code for result retrieval. The scheduler
	// owns this assignment; session.Config can override it.
	OpQueryResults Operation = 2
	OpQueryWork    Operation = 3
	OpSubmitWork   Operation = 4
	OpShutdown     Operation = 5
)

// Known reports whether o is one of the built-in operation codes.
func (o Operation) Known() bool {
	switch o {
	case OpSubmitJob, OpQueryResults, OpQueryWork, OpSubmitWork, OpShutdown:
		return true
	default:
		return false
	}
}

func (o Operation) String() string {
	switch o {
	case OpSubmitJob:
		return "submit_job"
	case OpQueryResults:
		return "query_results"
	case OpQueryWork:
		return "query_work"
	case OpSubmitWork:
		return "submit_work"
	case OpShutdown:
		return "shutdown"
	default:
		return "operation(" + strconv.FormatUint(uint64(o), 10) + ")"
	}
}

// Header is the fixed two-word message header.
type Header struct {
	Version   uint32
	Operation Operation
}

// NewHeader returns a header for op at the current protocol version.
func NewHeader(op Operation) Header {
	return Header{Version: Version, Operation: op}
}

func (h Header) MarshalBinary() ([]byte, error) {
	return AppendU32(make([]byte, 0, HeaderSize), h.Version, uint32(h.Operation)), nil
}

// DecodeHeader parses exactly HeaderSize bytes. The operation must be a
// built-in code or one of extra, which carries a reassigned results op.
func DecodeHeader(b []byte, extra ...Operation) (Header, error) {
	if len(b) != HeaderSize {
		return Header{}, fmt.Errorf("%w: header is %d bytes", ErrInvalidLength, len(b))
	}
	h := Header{
		Version:   binary.BigEndian.Uint32(b[0:4]),
		Operation: Operation(binary.BigEndian.Uint32(b[4:8])),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if !h.Operation.Known() && !slices.Contains(extra, h.Operation) {
		return Header{}, fmt.Errorf("%w: %d", ErrUnknownOperation, uint32(h.Operation))
	}
	return h, nil
}

// Status is the scheduler's reported job state.
type Status uint32

const (
	StatusDone       Status = 0
	StatusNotFound   Status = 1
	StatusInProgress Status = 2
)

func (s Status) Valid() bool {
	return s <= StatusInProgress
}

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusNotFound:
		return "not_found"
	case StatusInProgress:
		return "in_progress"
	default:
		return "status(" + strconv.FormatUint(uint64(s), 10) + ")"
	}
}

// Limits bounds allocations sized by counts read from the network.
type Limits struct {
	MaxChainSteps uint32
	MaxItems      uint32
}

func DefaultLimits() Limits {
	return Limits{
		MaxChainSteps: 4096,
		MaxItems:      1 << 20,
	}
}
