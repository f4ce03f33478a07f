// Package testutil holds helpers shared by package tests.
package testutil

import (
	"os"
	"testing"
)

// SkipIfNoNetwork skips the test if UPLINK_TEST_SKIP_NETWORK is set.
// Use this for tests that listen on local TCP ports, which sandboxed
// environments may forbid.
func SkipIfNoNetwork(t *testing.T) {
	t.Helper()
	if os.Getenv("UPLINK_TEST_SKIP_NETWORK") != "" {
		t.Skip("skipping network test: UPLINK_TEST_SKIP_NETWORK is set")
	}
}
