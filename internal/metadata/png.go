package metadata

import (
	"bytes"
	"encoding/binary"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func isPNG(data []byte) bool {
	return bytes.HasPrefix(data, pngSignature)
}

// pngExif returns the payload of the first eXIf chunk, which is a raw TIFF
// structure. Chunks are scanned up to IEND; a truncated or malformed
// chunk list yields false.
func pngExif(data []byte) ([]byte, bool) {
	off := len(pngSignature)
	for off+8 <= len(data) {
		n := int(binary.BigEndian.Uint32(data[off : off+4]))
		typ := string(data[off+4 : off+8])
		start := off + 8
		end := start + n
		if n < 0 || end+4 > len(data) {
			return nil, false
		}

		switch typ {
		case "eXIf":
			return data[start:end], true
		case "IEND":
			return nil, false
		}
		off = end + 4 // skip CRC
	}
	return nil, false
}
