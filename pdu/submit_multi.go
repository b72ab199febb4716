package pdu

import (
	"encoding/binary"
	"fmt"
	"time"

	smpptime "github.com/smppkit/smpp/time"
)

// Destination flags used in submit_multi's destination address list.
const (
	DestFlagSMEAddress       = 1
	DestFlagDistributionList = 2
)

// MultiDest is one entry of a submit_multi destination list: either an
// SME address or the name of a predefined distribution list.
type MultiDest struct {
	DestFlag int
	Address  Address
	DLName   string
}

func (d MultiDest) marshal() ([]byte, error) {
	switch d.DestFlag {
	case DestFlagSMEAddress:
		addr, err := d.Address.marshal(21)
		if err != nil {
			return nil, err
		}
		return append([]byte{byte(DestFlagSMEAddress)}, addr...), nil
	case DestFlagDistributionList:
		return append([]byte{byte(DestFlagDistributionList)}, writeCString(d.DLName)...), nil
	default:
		return nil, fmt.Errorf("smpp/pdu: invalid dest_flag %d", d.DestFlag)
	}
}

func unmarshalMultiDest(buf *pduReader) (MultiDest, error) {
	flag, err := buf.ReadByte()
	if err != nil {
		return MultiDest{}, fmt.Errorf("smpp/pdu: decoding dest_flag %s", err)
	}
	switch int(flag) {
	case DestFlagSMEAddress:
		addr, err := unmarshalAddress(buf, 21)
		if err != nil {
			return MultiDest{}, err
		}
		return MultiDest{DestFlag: DestFlagSMEAddress, Address: addr}, nil
	case DestFlagDistributionList:
		name, err := buf.ReadCString(21)
		if err != nil {
			return MultiDest{}, fmt.Errorf("smpp/pdu: decoding dl_name %s", err)
		}
		return MultiDest{DestFlag: DestFlagDistributionList, DLName: name}, nil
	default:
		return MultiDest{}, fmt.Errorf("smpp/pdu: invalid dest_flag %d", flag)
	}
}

// SubmitMulti submits a short message to multiple recipients or
// distribution lists in a single PDU.
type SubmitMulti struct {
	ServiceType          string
	SourceAddrTon        int
	SourceAddrNpi        int
	SourceAddr           string
	Dests                []MultiDest
	EsmClass             EsmClass
	ProtocolID           int
	PriorityFlag         int
	ScheduleDeliveryTime time.Time
	ValidityPeriod       time.Time
	RegisteredDelivery   RegisteredDelivery
	ReplaceIfPresentFlag int
	DataCoding           DataCoding
	SmDefaultMsgID       int
	ShortMessage         string
	Options              *Options
}

// CommandID implements pdu.PDU interface.
func (p SubmitMulti) CommandID() CommandID {
	return SubmitMultiID
}

// MarshalBinary implements encoding.BinaryMarshaler interface.
func (p SubmitMulti) MarshalBinary() ([]byte, error) {
	out := writeCString(p.ServiceType)
	out = append(out, byte(p.SourceAddrTon), byte(p.SourceAddrNpi))
	out = append(out, writeCString(p.SourceAddr)...)
	if len(p.Dests) > 255 {
		return nil, fmt.Errorf("smpp/pdu: submit_multi supports at most 255 destinations, got %d", len(p.Dests))
	}
	out = append(out, byte(len(p.Dests)))
	for _, d := range p.Dests {
		b, err := d.marshal()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	out = append(out, p.EsmClass.Byte(), byte(p.ProtocolID), byte(p.PriorityFlag))
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
	out = append(out, p.RegisteredDelivery.Byte(), byte(p.ReplaceIfPresentFlag), byte(p.DataCoding), byte(p.SmDefaultMsgID))
	out = append(out, writeString(p.ShortMessage)...)
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
func (p *SubmitMulti) UnmarshalBinary(body []byte) error {
	buf := newBuffer(body)
	var err error
	if p.ServiceType, err = buf.ReadCString(6); err != nil {
		return fmt.Errorf("smpp/pdu: decoding service_type %s", err)
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
	n, err := buf.ReadByte()
	if err != nil {
		return fmt.Errorf("smpp/pdu: decoding number_of_dests %s", err)
	}
	p.Dests = make([]MultiDest, 0, n)
	for i := 0; i < int(n); i++ {
		d, err := unmarshalMultiDest(buf)
		if err != nil {
			return err
		}
		p.Dests = append(p.Dests, d)
	}
	if b, err = buf.ReadByte(); err != nil {
		return fmt.Errorf("smpp/pdu: decoding esm_class %s", err)
	}
	p.EsmClass = ParseEsmClass(b)
	if b, err = buf.ReadByte(); err != nil {
		return fmt.Errorf("smpp/pdu: decoding protocol_id %s", err)
	}
	p.ProtocolID = int(b)
	if b, err = buf.ReadByte(); err != nil {
		return fmt.Errorf("smpp/pdu: decoding priority_flag %s", err)
	}
	p.PriorityFlag = int(b)
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
		return fmt.Errorf("smpp/pdu: decoding replace_if_present_flag %s", err)
	}
	p.ReplaceIfPresentFlag = int(b)
	if b, err = buf.ReadByte(); err != nil {
		return fmt.Errorf("smpp/pdu: decoding data_coding %s", err)
	}
	p.DataCoding = DataCoding(b)
	if b, err = buf.ReadByte(); err != nil {
		return fmt.Errorf("smpp/pdu: decoding sm_default_msg_id %s", err)
	}
	p.SmDefaultMsgID = int(b)
	sm, err := buf.ReadString(254)
	if err != nil {
		return fmt.Errorf("smpp/pdu: decoding short_message %s", err)
	}
	p.ShortMessage = sm
	if buf.Len() == 0 {
		return nil
	}
	p.Options = NewOptions()
	return p.Options.UnmarshalBinary(buf.Bytes())
}

// UnsuccessSme describes one destination submit_multi_resp could not
// deliver to.
type UnsuccessSme struct {
	DestAddrTon     int
	DestAddrNpi     int
	DestinationAddr string
	ErrorStatusCode Status
}

// SubmitMultiResp holds response to submit_multi PDU.
type SubmitMultiResp struct {
	MessageID   string
	Unsuccesses []UnsuccessSme
}

// CommandID implements pdu.PDU interface.
func (p SubmitMultiResp) CommandID() CommandID {
	return SubmitMultiRespID
}

// MarshalBinary implements encoding.BinaryMarshaler interface.
func (p SubmitMultiResp) MarshalBinary() ([]byte, error) {
	out := writeCString(p.MessageID)
	if len(p.Unsuccesses) > 255 {
		return nil, fmt.Errorf("smpp/pdu: submit_multi_resp supports at most 255 unsuccessful deliveries, got %d", len(p.Unsuccesses))
	}
	out = append(out, byte(len(p.Unsuccesses)))
	for _, u := range p.Unsuccesses {
		out = append(out, byte(u.DestAddrTon), byte(u.DestAddrNpi))
		out = append(out, writeCString(u.DestinationAddr)...)
		code := make([]byte, 4)
		binary.BigEndian.PutUint32(code, uint32(u.ErrorStatusCode))
		out = append(out, code...)
	}
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler interface.
func (p *SubmitMultiResp) UnmarshalBinary(body []byte) error {
	buf := newBuffer(body)
	var err error
	if p.MessageID, err = buf.ReadCString(65); err != nil {
		return fmt.Errorf("smpp/pdu: decoding message_id %s", err)
	}
	n, err := buf.ReadByte()
	if err != nil {
		return fmt.Errorf("smpp/pdu: decoding no_unsuccess %s", err)
	}
	p.Unsuccesses = make([]UnsuccessSme, 0, n)
	for i := 0; i < int(n); i++ {
		var u UnsuccessSme
		b, err := buf.ReadByte()
		if err != nil {
			return fmt.Errorf("smpp/pdu: decoding dest_addr_ton %s", err)
		}
		u.DestAddrTon = int(b)
		if b, err = buf.ReadByte(); err != nil {
			return fmt.Errorf("smpp/pdu: decoding dest_addr_npi %s", err)
		}
		u.DestAddrNpi = int(b)
		if u.DestinationAddr, err = buf.ReadCString(21); err != nil {
			return fmt.Errorf("smpp/pdu: decoding destination_addr %s", err)
		}
		var code [4]byte
		if _, err := buf.Read(code[:]); err != nil {
			return fmt.Errorf("smpp/pdu: decoding error_status_code %s", err)
		}
		u.ErrorStatusCode = FromCode(binary.BigEndian.Uint32(code[:]))
		p.Unsuccesses = append(p.Unsuccesses, u)
	}
	return nil
}
