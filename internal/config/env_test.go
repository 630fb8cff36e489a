package config

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "3")
	t.Setenv("TEST_BAD_INT", "three")
	t.Setenv("TEST_DURATION", "90m")

	if n, err := envInt("TEST_INT", 0); err != nil || n != 3 {
		t.Errorf("envInt(TEST_INT) = %d, %v", n, err)
	}
	if n, err := envInt("TEST_UNSET_INT", 7); err != nil || n != 7 {
		t.Errorf("envInt(unset) = %d, %v", n, err)
	}
	if _, err := envInt("TEST_BAD_INT", 0); err == nil {
		t.Error("envInt(TEST_BAD_INT) should fail")
	}
	if d, err := envDuration("TEST_DURATION", time.Hour); err != nil || d != 90*time.Minute {
		t.Errorf("envDuration() = %v, %v", d, err)
	}
	if got := envString("TEST_UNSET_STRING", "ssd"); got != "ssd" {
		t.Errorf("envString() = %q", got)
	}
}
