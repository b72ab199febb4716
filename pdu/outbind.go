package pdu

import "fmt"

// Outbind is sent by an SMSC to an ESME to request that the ESME bind to
// the SMSC. It has no response of its own: the ESME answers by opening a
// normal bind_transceiver/bind_receiver exchange on the same connection.
type Outbind struct {
	SystemID string
	Password string
}

// CommandID implements pdu.PDU interface.
func (p Outbind) CommandID() CommandID {
	return OutbindID
}

// MarshalBinary implements encoding.BinaryMarshaler interface.
func (p Outbind) MarshalBinary() ([]byte, error) {
	out := writeCString(p.SystemID)
	out = append(out, writeCString(p.Password)...)
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler interface.
func (p *Outbind) UnmarshalBinary(body []byte) error {
	buf := newBuffer(body)
	var err error
	if p.SystemID, err = buf.ReadCString(16); err != nil {
		return fmt.Errorf("smpp/pdu: decoding system_id %s", err)
	}
	if p.Password, err = buf.ReadCString(9); err != nil {
		return fmt.Errorf("smpp/pdu: decoding password %s", err)
	}
	return nil
}
