package pdu

import "fmt"

// AlertNotification is sent by an SMSC to an ESME to advise that a
// subscriber the ESME previously tried to reach has become available.
// It is fire-and-forget: the protocol defines no response PDU for it.
type AlertNotification struct {
	SourceAddrTon int
	SourceAddrNpi int
	SourceAddr    string
	EsmeAddrTon   int
	EsmeAddrNpi   int
	EsmeAddr      string
	Options       *Options
}

// CommandID implements pdu.PDU interface.
func (p AlertNotification) CommandID() CommandID {
	return AlertNotificationID
}

// MarshalBinary implements encoding.BinaryMarshaler interface.
func (p AlertNotification) MarshalBinary() ([]byte, error) {
	out := []byte{byte(p.SourceAddrTon), byte(p.SourceAddrNpi)}
	out = append(out, writeCString(p.SourceAddr)...)
	out = append(out, byte(p.EsmeAddrTon), byte(p.EsmeAddrNpi))
	out = append(out, writeCString(p.EsmeAddr)...)
	if p.Options == nil {
		return out, nil
	}
	opts, err := p.Options.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(out, opts...), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler interface.
func (p *AlertNotification) UnmarshalBinary(body []byte) error {
	buf := newBuffer(body)
	b, err := buf.ReadByte()
	if err != nil {
		return fmt.Errorf("smpp/pdu: decoding source_addr_ton %s", err)
	}
	p.SourceAddrTon = int(b)
	if b, err = buf.ReadByte(); err != nil {
		return fmt.Errorf("smpp/pdu: decoding source_addr_npi %s", err)
	}
	p.SourceAddrNpi = int(b)
	if p.SourceAddr, err = buf.ReadCString(65); err != nil {
		return fmt.Errorf("smpp/pdu: decoding source_addr %s", err)
	}
	if b, err = buf.ReadByte(); err != nil {
		return fmt.Errorf("smpp/pdu: decoding esme_addr_ton %s", err)
	}
	p.EsmeAddrTon = int(b)
	if b, err = buf.ReadByte(); err != nil {
		return fmt.Errorf("smpp/pdu: decoding esme_addr_npi %s", err)
	}
	p.EsmeAddrNpi = int(b)
	if p.EsmeAddr, err = buf.ReadCString(65); err != nil {
		return fmt.Errorf("smpp/pdu: decoding esme_addr %s", err)
	}
	if buf.Len() == 0 {
		return nil
	}
	p.Options = NewOptions()
	return p.Options.UnmarshalBinary(buf.Bytes())
}
