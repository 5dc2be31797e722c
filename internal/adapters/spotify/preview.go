package spotify

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// silenceFloor is the loudness reported for an all-zero preview.
const silenceFloor = -60.0

var previewClient = &http.Client{Timeout: 15 * time.Second}

// previewLoudness decodes a 30 s MP3 preview and returns its RMS level in dBFS.
func previewLoudness(ctx context.Context, previewURL string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, previewURL, nil)
	if err != nil {
		return 0, fmt.Errorf("preview request failed: %w", err)
	}

	// #nosec G107 -- URL comes from the Spotify track payload
	resp, err := previewClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("preview fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("preview fetch status %d", resp.StatusCode)
	}

	decoder, err := mp3.NewDecoder(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("preview decode failed: %w", err)
	}

	return pcmLoudness(decoder)
}

// pcmLoudness reads signed 16-bit little-endian PCM until EOF.
func pcmLoudness(r io.Reader) (float64, error) {
	buf := make([]byte, 4096)
	var sumSquares float64
	var count float64
	var carry []byte

	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := append(carry, buf[:n]...)
			i := 0
			for ; i+1 < len(chunk); i += 2 {
				sample := int16(uint16(chunk[i]) | uint16(chunk[i+1])<<8)
				val := float64(sample)
				sumSquares += val * val
				count++
			}
			carry = append(carry[:0], chunk[i:]...)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return 0, fmt.Errorf("preview read failed: %w", err)
		}
	}

	if count == 0 {
		return 0, fmt.Errorf("preview contains no samples")
	}

	return rmsToDecibels(math.Sqrt(sumSquares / count)), nil
}

func rmsToDecibels(rms float64) float64 {
	if rms <= 0 {
		return silenceFloor
	}
	db := 20 * math.Log10(rms/32768.0)
	if db < silenceFloor {
		return silenceFloor
	}
	if db > 0 {
		return 0
	}
	return db
}
