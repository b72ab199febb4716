package pdu

import "fmt"

// CancelSm cancels a previously submitted short message that is still
// pending delivery.
type CancelSm struct {
	ServiceType     string
	MessageID       string
	SourceAddrTon   int
	SourceAddrNpi   int
	SourceAddr      string
	DestAddrTon     int
	DestAddrNpi     int
	DestinationAddr string
}

// CommandID implements pdu.PDU interface.
func (p CancelSm) CommandID() CommandID {
	return CancelSmID
}

// Response creates new CancelSmResp.
func (p CancelSm) Response() *CancelSmResp {
	return &CancelSmResp{}
}

// MarshalBinary implements encoding.BinaryMarshaler interface.
func (p CancelSm) MarshalBinary() ([]byte, error) {
	out := writeCString(p.ServiceType)
	out = append(out, writeCString(p.MessageID)...)
	out = append(out, byte(p.SourceAddrTon), byte(p.SourceAddrNpi))
	out = append(out, writeCString(p.SourceAddr)...)
	out = append(out, byte(p.DestAddrTon), byte(p.DestAddrNpi))
	out = append(out, writeCString(p.DestinationAddr)...)
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler interface.
func (p *CancelSm) UnmarshalBinary(body []byte) error {
	buf := newBuffer(body)
	var err error
	if p.ServiceType, err = buf.ReadCString(6); err != nil {
		return fmt.Errorf("smpp/pdu: decoding service_type %s", err)
	}
	if p.MessageID, err = buf.ReadCString(65); err != nil {
		return fmt.Errorf("smpp/pdu: decoding message_id %s", err)
	}
	b, err := buf.ReadByte()
	if err != nil {
		return fmt.Errorf("smpp/pdu: decoding source_addr_ton %s", err)
	}
	p.SourceAddrTon = int(b)
	if b, err = buf.ReadByte(); err != nil {
		return fmt.Errorf("smpp/pdu: decoding source_addr_npi %s", err)
	}
	p.SourceAddrNpi = int(b)
	if p.SourceAddr, err = buf.ReadCString(21); err != nil {
		return fmt.Errorf("smpp/pdu: decoding source_addr %s", err)
	}
	if b, err = buf.ReadByte(); err != nil {
		return fmt.Errorf("smpp/pdu: decoding dest_addr_ton %s", err)
	}
	p.DestAddrTon = int(b)
	if b, err = buf.ReadByte(); err != nil {
		return fmt.Errorf("smpp/pdu: decoding dest_addr_npi %s", err)
	}
	p.DestAddrNpi = int(b)
	if p.DestinationAddr, err = buf.ReadCString(21); err != nil {
		return fmt.Errorf("smpp/pdu: decoding destination_addr %s", err)
	}
	return nil
}

// CancelSmResp holds response to cancel_sm PDU. It carries no body.
type CancelSmResp struct{}

// CommandID implements pdu.PDU interface.
func (p CancelSmResp) CommandID() CommandID {
	return CancelSmRespID
}

// MarshalBinary implements encoding.BinaryMarshaler interface.
func (p CancelSmResp) MarshalBinary() ([]byte, error) {
	return nil, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler interface.
func (p *CancelSmResp) UnmarshalBinary(body []byte) error {
	return nil
}
