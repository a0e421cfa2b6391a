package replay

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/sha3"
)

// desyncMagic tags a desync bundle file.
var desyncMagic = [5]byte{'D', 'S', 'Y', 'N', 'C'}

// DesyncBundle is written the first time a peer reports a world hash that
// diverges from the local hash at the same tick (spec §7). It carries
// enough context to diagnose the divergence offline: both hashes, the
// peer that reported it, and a content hash of the bundle's own fields so
// a corrupted bundle is detectable on read.
type DesyncBundle struct {
	Tick      uint64
	LocalHash uint64
	PeerHash  uint64
	PeerID    uint32
}

// contentHash covers every field except itself, giving the bundle a
// self-check independent of the filesystem.
func (b DesyncBundle) contentHash() [32]byte {
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], b.Tick)
	binary.BigEndian.PutUint64(buf[8:16], b.LocalHash)
	binary.BigEndian.PutUint64(buf[16:24], b.PeerHash)
	var withPeer [28]byte
	copy(withPeer[:24], buf[:])
	binary.BigEndian.PutUint32(withPeer[24:28], b.PeerID)
	return sha3.Sum256(withPeer[:])
}

// BundleFileName returns the spec-named file for a divergence at tick.
func BundleFileName(tick uint64) string {
	return fmt.Sprintf("desync_bundle_%d.tlv", tick)
}

// WriteDesyncBundle writes b to dir/desync_bundle_<tick>.tlv. Per spec
// §7 this only ever happens the first time a divergence is observed at a
// given tick; callers are responsible for that once-per-tick gating
// (e.g. checking the file does not already exist).
func WriteDesyncBundle(dir string, b DesyncBundle) (string, error) {
	path := filepath.Join(dir, BundleFileName(b.Tick))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("replay: create desync bundle: %w", err)
	}
	defer f.Close()
	if err := EncodeDesyncBundle(f, b); err != nil {
		return "", err
	}
	return path, nil
}

// EncodeDesyncBundle writes b's TLV encoding to w: magic, the four fixed
// fields, then its SHA3-256 content hash.
func EncodeDesyncBundle(w io.Writer, b DesyncBundle) error {
	if _, err := w.Write(desyncMagic[:]); err != nil {
		return err
	}
	var buf [28]byte
	binary.BigEndian.PutUint64(buf[0:8], b.Tick)
	binary.BigEndian.PutUint64(buf[8:16], b.LocalHash)
	binary.BigEndian.PutUint64(buf[16:24], b.PeerHash)
	binary.BigEndian.PutUint32(buf[24:28], b.PeerID)
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}
	hash := b.contentHash()
	if _, err := w.Write(hash[:]); err != nil {
		return err
	}
	return nil
}

// ReadDesyncBundle parses a bundle previously written by
// EncodeDesyncBundle/WriteDesyncBundle and verifies its content hash.
func ReadDesyncBundle(r io.Reader) (DesyncBundle, error) {
	var got [5]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return DesyncBundle{}, fmt.Errorf("replay: read desync magic: %w", err)
	}
	if got != desyncMagic {
		return DesyncBundle{}, fmt.Errorf("replay: bad desync magic %q", got)
	}
	var buf [28]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return DesyncBundle{}, fmt.Errorf("replay: read desync body: %w", err)
	}
	b := DesyncBundle{
		Tick:      binary.BigEndian.Uint64(buf[0:8]),
		LocalHash: binary.BigEndian.Uint64(buf[8:16]),
		PeerHash:  binary.BigEndian.Uint64(buf[16:24]),
		PeerID:    binary.BigEndian.Uint32(buf[24:28]),
	}
	var wantHash [32]byte
	if _, err := io.ReadFull(r, wantHash[:]); err != nil {
		return DesyncBundle{}, fmt.Errorf("replay: read desync content hash: %w", err)
	}
	if b.contentHash() != wantHash {
		return DesyncBundle{}, fmt.Errorf("replay: desync bundle content hash mismatch")
	}
	return b, nil
}
