package codec

// CRC16XModem computes the CRC-16/XMODEM checksum: polynomial 0x1021,
// initial value 0x0000, no input/output reflection, no final XOR. No
// package in the surrounding ecosystem implements this exact variant
// (CRC-16/CCITT-FALSE and CRC-16/ARC are common; XMODEM's zero init and
// lack of reflection rule both out), so it is hand-rolled here the same
// way mode.go hand-rolls S_IF* bit twiddling rather than reaching for a
// library.
func CRC16XModem(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
