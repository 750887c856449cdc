package zipcode

import (
	"testing"
	"time"
)

func TestLockedOn(t *testing.T) {
	z := ZipCode{Code: "1011AB", LockdownDay: 1}

	if !z.LockedOn(time.Monday) {
		t.Fatal("expected lockdown on Monday")
	}
	if z.LockedOn(time.Tuesday) {
		t.Fatal("did not expect lockdown on Tuesday")
	}
}

func TestLockedOnNeverLocked(t *testing.T) {
	z := ZipCode{Code: "2511CV", LockdownDay: -1}

	for day := time.Sunday; day <= time.Saturday; day++ {
		if z.LockedOn(day) {
			t.Fatalf("expected no lockdown on %s", day)
		}
	}
}
