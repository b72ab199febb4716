package pdu

import (
	"fmt"
	"time"

	smpptime "github.com/smppkit/smpp/time"
)

// ReplaceSm replaces the short message, schedule or validity of a
// message that is still pending delivery.
type ReplaceSm struct {
	MessageID            string
	SourceAddrTon        int
	SourceAddrNpi        int
	SourceAddr           string
	ScheduleDeliveryTime time.Time
	ValidityPeriod       time.Time
	RegisteredDelivery   RegisteredDelivery
	SmDefaultMsgID       int
	ShortMessage         string
}

// CommandID implements pdu.PDU interface.
func (p ReplaceSm) CommandID() CommandID {
	return ReplaceSmID
}

// Response creates new ReplaceSmResp.
func (p ReplaceSm) Response() *ReplaceSmResp {
	return &ReplaceSmResp{}
}

// MarshalBinary implements encoding.BinaryMarshaler interface.
func (p ReplaceSm) MarshalBinary() ([]byte, error) {
	out := writeCString(p.MessageID)
	out = append(out, byte(p.SourceAddrTon), byte(p.SourceAddrNpi))
	out = append(out, writeCString(p.SourceAddr)...)
	tm, err := writeTime(smpptime.Absolute, p.ScheduleDeliveryTime)
	if err != nil {
		return nil, err
	}
	out = append(out, tm...)
	tm, err = writeTime(smpptime.Absolute, p.ValidityPeriod)
	if err != nil {
		return nil, err
	}
	out = append(out, tm...)
	out = append(out, p.RegisteredDelivery.Byte(), byte(p.SmDefaultMsgID))
	out = append(out, writeString(p.ShortMessage)...)
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler interface.
func (p *ReplaceSm) UnmarshalBinary(body []byte) error {
	buf := newBuffer(body)
	var err error
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
	res, err := buf.ReadCString(17)
	if err != nil {
		return fmt.Errorf("smpp/pdu: decoding schedule_delivery_time %s", err)
	}
	t, err := smpptime.Parse([]byte(res))
	if err != nil {
		return fmt.Errorf("smpp/pdu: decoding schedule_delivery_time %s", err)
	}
	p.ScheduleDeliveryTime = t
	if res, err = buf.ReadCString(17); err != nil {
		return fmt.Errorf("smpp/pdu: decoding validity_period %s", err)
	}
	if t, err = smpptime.Parse([]byte(res)); err != nil {
		return fmt.Errorf("smpp/pdu: decoding validity_period %s", err)
	}
	p.ValidityPeriod = t
	if b, err = buf.ReadByte(); err != nil {
		return fmt.Errorf("smpp/pdu: decoding registered_delivery %s", err)
	}
	p.RegisteredDelivery = ParseRegisteredDelivery(b)
	if b, err = buf.ReadByte(); err != nil {
		return fmt.Errorf("smpp/pdu: decoding sm_default_msg_id %s", err)
	}
	p.SmDefaultMsgID = int(b)
	sm, err := buf.ReadString(254)
	if err != nil {
		return fmt.Errorf("smpp/pdu: decoding short_message %s", err)
	}
	p.ShortMessage = sm
	return nil
}

// ReplaceSmResp holds response to replace_sm PDU. It carries no body.
type ReplaceSmResp struct{}

// CommandID implements pdu.PDU interface.
func (p ReplaceSmResp) CommandID() CommandID {
	return ReplaceSmRespID
}

// MarshalBinary implements encoding.BinaryMarshaler interface.
func (p ReplaceSmResp) MarshalBinary() ([]byte, error) {
	return nil, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler interface.
func (p *ReplaceSmResp) UnmarshalBinary(body []byte) error {
	return nil
}
