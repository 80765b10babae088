package vcs

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"unicode/utf8"

	"github.com/minio/sha256-simd"
)

// BlobID returns the content address of data: hex(sha256("blob " + data)).
func BlobID(data []byte) string {
	h := sha256.New()
	h.Write([]byte("blob "))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CommitID derives a commit id from its message, creation time and parent.
// parent is empty for a root commit.
func CommitID(message string, createdAtMs int64, parent string) string {
	h := sha256.New()
	h.Write([]byte("v1\n"))
	h.Write([]byte(message))
	h.Write([]byte("\n"))
	h.Write([]byte(strconv.FormatInt(createdAtMs, 10)))
	h.Write([]byte("\n"))
	if parent != "" {
		h.Write([]byte(parent))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// IsBinary reports whether data should be treated as opaque bytes:
// it contains a NUL or is not valid UTF-8.
func IsBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data)
}
