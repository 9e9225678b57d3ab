package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	"jet/internal/options"
	"jet/internal/persist"
	"jet/internal/source"
	"jet/internal/unit"
)

// programDigest keys the disk cache: options, schema and every unit's
// path and content hash, in load order.
func programDigest(opts *options.CompilerOptions, units []*unit.CompilationUnit) string {
	h := sha256.New()
	h.Write([]byte(opts.Digest()))
	h.Write([]byte{byte(persist.SchemaVersion >> 8), byte(persist.SchemaVersion)})
	for _, u := range units {
		h.Write([]byte(filepath.ToSlash(u.Path())))
		h.Write([]byte{0})
		f := u.File()
		h.Write([]byte{byte(f.Flags & source.FileUnreadable)})
		h.Write(f.Hash[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
