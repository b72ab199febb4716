package pdu

import "fmt"

// UnknownCommandError is returned by Decoder.Decode when a PDU header
// names a command_id the library doesn't recognize. It carries enough
// of the header for the caller to answer with a generic_nack bearing the
// offending sequence number instead of dropping the connection.
type UnknownCommandError struct {
	CommandID uint32
	Seq       uint32
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("smpp: unknown command_id 0x%08x (seq %d)", e.CommandID, e.Seq)
}

// PDUTooLargeError is returned when a header's command_length exceeds the
// Decoder's configured maximum.
type PDUTooLargeError struct {
	Length uint32
	Max    uint32
}

func (e *PDUTooLargeError) Error() string {
	return fmt.Sprintf("smpp: pdu length %d exceeds max %d", e.Length, e.Max)
}
