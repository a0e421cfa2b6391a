package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/Julesc013/dominium-sub020/domain"
)

const sampleFixture = `DOMINIUM_ECONOMY_FIXTURE_V1
region=1
container1_id=1
container1_goods_total=12.5
storage1_id=1
storage1_stored=8.0
storage1_capacity=10.0
market1_id=1
offer1_id=1
offer1_market=1
offer1_price=2.0
offer1_expiry_tick=10
bid1_id=1
bid1_market=1
bid1_price=2.1
bid1_expiry_tick=10
bid2_id=2
bid2_market=1
bid2_price=2.2
bid2_expiry_tick=10
bid3_id=3
bid3_market=1
bid3_price=2.3
bid3_expiry_tick=10
bid4_id=4
bid4_market=1
bid4_price=2.4
bid4_expiry_tick=10
bid5_id=5
bid5_market=1
bid5_price=2.5
bid5_expiry_tick=10
`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.txt")
	if err := os.WriteFile(path, []byte(sampleFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestRunValidate(t *testing.T) {
	path := writeFixture(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"validate", "-fixture=" + path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "bid_count=5") {
		t.Fatalf("missing bid_count: %s", stdout.String())
	}
}

func TestRunResolveShortage(t *testing.T) {
	path := writeFixture(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"resolve", "-fixture=" + path, "-region=1", "-tick=1"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "DOMINIUM_ECONOMY_RESOLVE_V1") {
		t.Fatalf("missing header: %s", out)
	}
	// bid_count(5) > offer_count(1) > 0 => SHORTAGE must be set (spec §4.6.1).
	if !strings.Contains(out, "flags=") {
		t.Fatalf("missing flags: %s", out)
	}
	var flags uint64
	for _, line := range strings.Split(out, "\n") {
		if v, ok := strings.CutPrefix(line, "flags="); ok {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				t.Fatalf("bad flags line %q: %v", line, err)
			}
			flags = n
		}
	}
	if uint32(flags)&domain.ResultShortage == 0 {
		t.Fatalf("flags = %d, want SHORTAGE bit set: %s", flags, out)
	}
}

func TestRunMissingFixtureFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"validate"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}
