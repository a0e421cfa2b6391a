package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Julesc013/dominium-sub020/runtime/replay"
)

func writeReplay(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "run.drpl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create replay: %v", err)
	}
	defer f.Close()
	w, err := replay.NewWriter(f, replay.Header{UPS: 30, RunID: 1, InstanceID: 1})
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	for i := uint64(0); i < 3; i++ {
		if err := w.WriteRecord(replay.Record{Tick: i, SchemaID: 0, SourcePeer: 1, Sequence: i}); err != nil {
			t.Fatalf("write record: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	return path
}

func TestRunDrivesToLastScheduledTick(t *testing.T) {
	replayPath := writeReplay(t)
	storeDir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := run([]string{"-replay=" + replayPath, "-store-dir=" + storeDir}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "DOMINIUM_RUNTIME_RESOLVE_V1") {
		t.Fatalf("missing header: %s", out)
	}
	if !strings.Contains(out, "final_tick=3") {
		t.Fatalf("expected final_tick=3: %s", out)
	}
	if !strings.Contains(out, "records_loaded=3") {
		t.Fatalf("expected records_loaded=3: %s", out)
	}
}

func TestRunTwoIndependentRunsAgree(t *testing.T) {
	replayPath := writeReplay(t)
	var out1, out2, stderr bytes.Buffer
	code1 := run([]string{"-replay=" + replayPath, "-store-dir=" + t.TempDir()}, &out1, &stderr)
	code2 := run([]string{"-replay=" + replayPath, "-store-dir=" + t.TempDir()}, &out2, &stderr)
	if code1 != 0 || code2 != 0 {
		t.Fatalf("exit codes = %d, %d", code1, code2)
	}
	hash1 := extractFinalHash(t, out1.String())
	hash2 := extractFinalHash(t, out2.String())
	if hash1 != hash2 {
		t.Fatalf("independent runs diverged: %q vs %q", hash1, hash2)
	}
}

func extractFinalHash(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "final_world_hash=") {
			return line
		}
	}
	t.Fatalf("no final_world_hash line in %q", out)
	return ""
}

func TestRunSnapshotEveryVerifiesRoundTrip(t *testing.T) {
	replayPath := writeReplay(t)
	storeDir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := run([]string{"-replay=" + replayPath, "-store-dir=" + storeDir, "-snapshot-every=1"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "snapshot_tick=1 verified=1") {
		t.Fatalf("expected a verified snapshot at tick 1: %s", out)
	}
	if !strings.Contains(out, "snapshots_verified=3") {
		t.Fatalf("expected snapshots_verified=3: %s", out)
	}
}

func TestRunMissingReplayFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-store-dir=" + t.TempDir()}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestRunMissingStoreDirAndEnv(t *testing.T) {
	t.Setenv("DOMINIUM_RUN_ROOT", "")
	replayPath := writeReplay(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"-replay=" + replayPath}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}
