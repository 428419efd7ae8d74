package protocol

import (
	"strconv"
	"strings"
)

// Fields is the protocol-specific breakdown of a decoded bit sequence.
type Fields struct {
	Protocol       string
	Values         map[string]string // field name -> bit string
	Interpretation string
}

// ExtractFields splits decoded bits into protocol-specific fields for the
// identified protocol. Unrecognized protocols get a generic breakdown.
func ExtractFields(protocolName string, bits []int) Fields {
	result := Fields{
		Protocol: protocolName,
		Values:   map[string]string{},
	}
	if len(bits) == 0 {
		return result
	}

	switch strings.ToLower(protocolName) {
	case "keeloq":
		result.Values = keeloqFields(bits)
		result.Interpretation = "KeeLoq rolling code with encrypted counter"
	case "princeton", "fixed code":
		result.Values = princetonFields(bits)
		result.Interpretation = "Fixed code with device ID and button pattern"
	case "came":
		result.Values = cameFields(bits)
		result.Interpretation = "CAME protocol with device address"
	default:
		result.Values = genericFields(bits)
		result.Interpretation = "Generic " + protocolName + " protocol data"
	}
	return result
}

// keeloqFields splits a KeeLoq frame: 32-bit encrypted counter, 28-bit
// serial number, then button state bits.
func keeloqFields(bits []int) map[string]string {
	fields := map[string]string{}
	if len(bits) < 66 {
		return fields
	}
	fields["encrypted_counter"] = bitString(bits[:32])
	fields["serial_number"] = bitString(bits[32:60])
	if len(bits) >= 64 {
		fields["button_state"] = bitString(bits[60:64])
	}
	return fields
}

// princetonFields splits a Princeton PT2262 frame into address and data.
func princetonFields(bits []int) map[string]string {
	fields := map[string]string{}
	if len(bits) < 20 {
		return fields
	}
	split := 16
	if len(bits) < split {
		split = 12
	}
	fields["address"] = bitString(bits[:split])
	fields["data"] = bitString(bits[split:])
	return fields
}

func cameFields(bits []int) map[string]string {
	fields := map[string]string{}
	if len(bits) >= 12 {
		fields["device_code"] = bitString(bits)
	}
	return fields
}

func genericFields(bits []int) map[string]string {
	return map[string]string{
		"raw_bits":  bitString(bits),
		"bit_count": strconv.Itoa(len(bits)),
	}
}

func bitString(bits []int) string {
	var sb strings.Builder
	sb.Grow(len(bits))
	for _, b := range bits {
		sb.WriteByte('0' + byte(b))
	}
	return sb.String()
}
