package telegram

// Terminator closes every telegram after the checksum.
const Terminator = "NN"

const nibbleBase = 0x61 // 'a'

// Checksum returns the two checksum characters expected by the receiving device: the two's
// complement of the mod-256 byte sum, high nibble first, each nibble offset by 'a'.
func Checksum(body []byte) [2]byte {
	var sum byte
	for _, b := range body {
		sum += b
	}
	r := -sum
	return [2]byte{r>>4 + nibbleBase, r&0x0F + nibbleBase}
}

// AppendChecksum terminates body with its checksum and "NN".
func AppendChecksum(body string) Telegram {
	cs := Checksum([]byte(body))
	return Telegram(body + string(cs[:]) + Terminator)
}
