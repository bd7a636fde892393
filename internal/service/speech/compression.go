package speech

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// DecompressPayload reverses the frame's declared payload compression.
func DecompressPayload(data []byte, method CompressionMethod) ([]byte, error) {
	switch method {
	case NoCompression:
		return data, nil
	case GzipCompression:
		return decompressGzip(data)
	default:
		return nil, fmt.Errorf("unsupported compression method: %d", method)
	}
}

func decompressGzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip reader creation failed: %w", err)
	}
	defer reader.Close()

	result, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("gzip read failed: %w", err)
	}

	return result, nil
}
