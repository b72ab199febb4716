package pdu

import "golang.org/x/text/encoding/charmap"

// iso8859_1 codecs back every C-Octet string and Address on the wire.
// Using the real codec instead of a raw byte cast matters once an
// address or short message carries a byte in the 0x80-0xFF range: a
// naive string(b) conversion produces invalid UTF-8 for those bytes,
// while charmap.ISO8859_1 maps them onto their correct Unicode code
// points.
var (
	iso88591Decoder = charmap.ISO8859_1.NewDecoder()
	iso88591Encoder = charmap.ISO8859_1.NewEncoder()
)

func decodeISO88591(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	out, err := iso88591Decoder.Bytes(b)
	if err != nil {
		// Every byte value has an ISO-8859-1 mapping, so the decoder
		// itself can't fail; fall back defensively rather than panic.
		return string(b)
	}
	return string(out)
}

func encodeISO88591(s string) []byte {
	if s == "" {
		return nil
	}
	out, err := iso88591Encoder.Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}
