package omnitable

import (
	"crypto/md5" //nolint:gosec // MD5 matches S3 ETags, not used for security
	"encoding/hex"
	"fmt"
	"strings"
)

// MD5Hex returns the lowercase hex MD5 of data.
func MD5Hex(data []byte) string {
	sum := md5.Sum(data) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// IsMultipartETag returns true for S3 multipart ETags ("<md5>-<parts>"),
// which are not a content MD5.
func IsMultipartETag(etag string) bool {
	return strings.Contains(etag, "-")
}

// VerifyETag checks data against an ETag from a listing.
// Empty and multipart ETags cannot be verified and are accepted.
func VerifyETag(data []byte, etag string) error {
	etag = strings.Trim(etag, "\"")
	if etag == "" || IsMultipartETag(etag) {
		return nil
	}
	if got := MD5Hex(data); !strings.EqualFold(got, etag) {
		return fmt.Errorf("%w: etag %s, content md5 %s", ErrChecksumMismatch, etag, got)
	}
	return nil
}
