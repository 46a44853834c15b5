package media

// Helpers shared by the AAC and ALAC paths: every decoder in this package
// ultimately produces stereo float64 frames in [-1, 1).

// int16Frames converts interleaved int16 PCM to stereo float frames.
// Mono input is duplicated onto both channels.
func int16Frames(pcm []int16, channels int) [][2]float64 {
	if channels == 2 {
		frames := make([][2]float64, len(pcm)/2)
		for i := range frames {
			frames[i][0] = float64(pcm[i*2]) / 32768.0
			frames[i][1] = float64(pcm[i*2+1]) / 32768.0
		}
		return frames
	}
	frames := make([][2]float64, len(pcm))
	for i, sample := range pcm {
		v := float64(sample) / 32768.0
		frames[i][0] = v
		frames[i][1] = v
	}
	return frames
}

// pcm16Frames converts little-endian 16-bit PCM bytes to stereo float frames.
func pcm16Frames(data []byte, channels int) [][2]float64 {
	bytesPerFrame := 2 * channels
	count := len(data) / bytesPerFrame
	frames := make([][2]float64, count)

	for i := range count {
		off := i * bytesPerFrame
		left := int16(data[off]) | int16(data[off+1])<<8

		right := left
		if channels == 2 {
			right = int16(data[off+2]) | int16(data[off+3])<<8
		}

		frames[i][0] = float64(left) / 32768.0
		frames[i][1] = float64(right) / 32768.0
	}
	return frames
}

// pcm24Frames converts little-endian 24-bit PCM bytes to stereo float frames.
func pcm24Frames(data []byte, channels int) [][2]float64 {
	bytesPerFrame := 3 * channels
	count := len(data) / bytesPerFrame
	frames := make([][2]float64, count)

	for i := range count {
		off := i * bytesPerFrame
		left := int32(data[off]) | int32(data[off+1])<<8 | int32(data[off+2])<<16
		if left&0x800000 != 0 {
			left |= ^0xFFFFFF // sign extend
		}

		right := left
		if channels == 2 {
			right = int32(data[off+3]) | int32(data[off+4])<<8 | int32(data[off+5])<<16
			if right&0x800000 != 0 {
				right |= ^0xFFFFFF
			}
		}

		frames[i][0] = float64(left) / 8388608.0 // 2^23
		frames[i][1] = float64(right) / 8388608.0
	}
	return frames
}
