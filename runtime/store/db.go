// Package store implements bbolt-backed persistence for the runtime
// kernel: per-tick world hash records, the durable command log, snapshot
// blobs, and desync bundles. It mirrors the teacher's node/store/db.go
// shape verbatim: a fixed bucket set created up front, big-endian uint64
// keys, and manual byte-slice encode/decode inside Update/View
// transactions, re-themed from block/header/UTXO/undo storage to
// tick/command/snapshot/desync storage.
package store

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketTicks      = []byte("ticks_by_tick")
	bucketCommands   = []byte("commands_by_tick_seq")
	bucketSnapshots  = []byte("snapshots_by_tick")
	bucketDesyncs    = []byte("desync_bundles_by_tick")
)

// TickRecord is the durable per-tick summary persisted to bucketTicks.
type TickRecord struct {
	Tick            uint64
	WorldHash       uint64
	CommandsApplied uint32
	CommandsDropped uint32
}

// Encode serializes r as a fixed-width big-endian record.
func (r TickRecord) Encode() []byte {
	buf := make([]byte, 8+8+4+4)
	binary.BigEndian.PutUint64(buf[0:8], r.Tick)
	binary.BigEndian.PutUint64(buf[8:16], r.WorldHash)
	binary.BigEndian.PutUint32(buf[16:20], r.CommandsApplied)
	binary.BigEndian.PutUint32(buf[20:24], r.CommandsDropped)
	return buf
}

// DecodeTickRecord parses a record previously written by Encode.
func DecodeTickRecord(b []byte) (TickRecord, error) {
	if len(b) != 24 {
		return TickRecord{}, fmt.Errorf("store: tick record: want 24 bytes, got %d", len(b))
	}
	return TickRecord{
		Tick:            binary.BigEndian.Uint64(b[0:8]),
		WorldHash:       binary.BigEndian.Uint64(b[8:16]),
		CommandsApplied: binary.BigEndian.Uint32(b[16:20]),
		CommandsDropped: binary.BigEndian.Uint32(b[20:24]),
	}, nil
}

// DB is a bbolt-backed store for one runtime instance.
type DB struct {
	path string
	db   *bolt.DB
}

// Open creates (if absent) and opens the KV file under dir, creating every
// fixed bucket up front, per the teacher's Open.
func Open(dir string) (*DB, error) {
	if dir == "" {
		return nil, fmt.Errorf("store: dir required")
	}
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "runtime.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bbolt: %w", err)
	}

	d := &DB{path: path, db: bdb}
	if err := d.db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketTicks, bucketCommands, bucketSnapshots, bucketDesyncs} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("store: create bucket %s: %w", string(b), err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}
	return d, nil
}

// Close releases the underlying bbolt handle.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Path returns the on-disk database file path.
func (d *DB) Path() string { return d.path }

func tickKey(tick uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], tick)
	return buf[:]
}

// PutTick persists a tick record, keyed by its tick number.
func (d *DB) PutTick(r TickRecord) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTicks).Put(tickKey(r.Tick), r.Encode())
	})
}

// GetTick retrieves a previously persisted tick record.
func (d *DB) GetTick(tick uint64) (TickRecord, bool, error) {
	var out TickRecord
	var found bool
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketTicks).Get(tickKey(tick))
		if v == nil {
			return nil
		}
		r, err := DecodeTickRecord(v)
		if err != nil {
			return err
		}
		out, found = r, true
		return nil
	})
	return out, found, err
}

func commandKey(tick uint64, sequence uint64) []byte {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], tick)
	binary.BigEndian.PutUint64(buf[8:16], sequence)
	return buf[:]
}

// PutCommand persists a raw command payload under its (tick, sequence)
// key, forming the durable command log a replay can be rebuilt from.
func (d *DB) PutCommand(tick, sequence uint64, payload []byte) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCommands).Put(commandKey(tick, sequence), payload)
	})
}

// GetCommand retrieves a previously persisted command payload.
func (d *DB) GetCommand(tick, sequence uint64) ([]byte, bool, error) {
	var out []byte
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketCommands).Get(commandKey(tick, sequence))
		if v == nil {
			return nil
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, out != nil, err
}

// PutSnapshot persists an opaque snapshot blob keyed by tick.
func (d *DB) PutSnapshot(tick uint64, blob []byte) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put(tickKey(tick), blob)
	})
}

// GetSnapshot retrieves a previously persisted snapshot blob.
func (d *DB) GetSnapshot(tick uint64) ([]byte, bool, error) {
	var out []byte
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSnapshots).Get(tickKey(tick))
		if v == nil {
			return nil
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, out != nil, err
}

// PutDesyncBundle persists a desync bundle's raw bytes keyed by the tick it
// was captured at (see runtime/replay for bundle construction).
func (d *DB) PutDesyncBundle(tick uint64, blob []byte) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDesyncs).Put(tickKey(tick), blob)
	})
}

// GetDesyncBundle retrieves a previously persisted desync bundle.
func (d *DB) GetDesyncBundle(tick uint64) ([]byte, bool, error) {
	var out []byte
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketDesyncs).Get(tickKey(tick))
		if v == nil {
			return nil
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, out != nil, err
}
