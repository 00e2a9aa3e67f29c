package agentloop

import (
	"bytes"
	"encoding/base64"
	"image/jpeg"
	"image/png"
)

// encodeJPEGBase64 re-encodes a PNG screenshot (adb screencap's native
// format) as a base64 JPEG payload for the LLM client, standardizing the
// format the agent loop hands to agentctx.Builder regardless of what the
// device transport produced. No ecosystem imaging library appears
// anywhere in the example pack, so this uses the standard library's
// image/png and image/jpeg — see DESIGN.md for this stdlib exception.
func encodeJPEGBase64(pngBytes []byte, quality int) (string, error) {
	img, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
