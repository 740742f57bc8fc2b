package synth

import "encoding/binary"

const (
	wavHeaderSize    = 44
	wavNumChannels   = 1
	wavBitsPerSample = 16
	wavSubchunkSize  = 16
	wavAudioFormat   = 1 // PCM
)

// EncodeWAV serializes mono float samples as 16-bit little-endian PCM in a
// canonical 44-byte-header RIFF/WAVE container. Samples are clamped to
// [-1, 1] before quantization.
func EncodeWAV(samples []float64, sampleRate int) []byte {
	bytesPerSample := wavBitsPerSample / 8
	dataSize := len(samples) * wavNumChannels * bytesPerSample
	byteRate := sampleRate * wavNumChannels * bytesPerSample
	blockAlign := wavNumChannels * bytesPerSample

	buf := make([]byte, wavHeaderSize+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], wavSubchunkSize)
	binary.LittleEndian.PutUint16(buf[20:22], wavAudioFormat)
	binary.LittleEndian.PutUint16(buf[22:24], wavNumChannels)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], wavBitsPerSample)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	offset := wavHeaderSize
	for _, sample := range samples {
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		binary.LittleEndian.PutUint16(buf[offset:offset+2], uint16(int16(sample*32767)))
		offset += 2
	}

	return buf
}
