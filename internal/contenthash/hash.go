// Package contenthash computes content digests for backup deduplication.
//
// The digest is MD5: it only has to detect content change between scans,
// it is not a security boundary. Collisions are treated as identical
// content, which matches the dedup contract.
package contenthash

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

const chunkSize = 8 * 1024

// Hash streams the file at path through an MD5 accumulator in fixed-size
// chunks, so memory use is constant regardless of file size. Any read
// failure means the file's identity is unknown; callers must not copy.
func Hash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for hashing: %w", err)
	}
	defer file.Close()

	digest := md5.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(digest, file, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}
