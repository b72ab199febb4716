package pdu

import "fmt"

// Address is the (ton, npi, address) tuple SMPP uses for source and
// destination parties. PDU structs keep their flat Ton/Npi/Addr fields
// for backward compatible access; Address exists for code that wants to
// pass the tuple around as a single value, e.g. submit_multi's
// destination list.
type Address struct {
	Ton     int
	Npi     int
	Address string
}

// String renders the address in ton/npi/address form, handy for logging.
func (a Address) String() string {
	return fmt.Sprintf("%d/%d/%s", a.Ton, a.Npi, a.Address)
}

func (a Address) marshal(limit int) ([]byte, error) {
	if len(a.Address) > limit {
		return nil, fmt.Errorf("smpp/pdu: address %q exceeds %d octets", a.Address, limit)
	}
	out := []byte{byte(a.Ton), byte(a.Npi)}
	return append(out, writeCString(a.Address)...), nil
}

func unmarshalAddress(buf *pduReader, limit int) (Address, error) {
	ton, err := buf.ReadByte()
	if err != nil {
		return Address{}, fmt.Errorf("smpp/pdu: decoding addr_ton %s", err)
	}
	npi, err := buf.ReadByte()
	if err != nil {
		return Address{}, fmt.Errorf("smpp/pdu: decoding addr_npi %s", err)
	}
	addr, err := buf.ReadCString(limit)
	if err != nil {
		return Address{}, fmt.Errorf("smpp/pdu: decoding addr %s", err)
	}
	return Address{Ton: int(ton), Npi: int(npi), Address: addr}, nil
}
