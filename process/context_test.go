package process

import (
	"context"
	"os"
	"testing"
	"time"
)

// missingPID is larger than any PID Linux or Windows hands out.
const missingPID = 0x7ffffffe

func TestExitCtx_ProcessMissing(t *testing.T) {
	ctx, cancelFn := ExitCtx(context.Background(), missingPID, time.Millisecond)
	defer cancelFn()

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("expected context to be done")
	}
}

func TestExitCtx_ProcessRunning(t *testing.T) {
	ctx, cancelFn := ExitCtx(context.Background(), uint32(os.Getpid()), time.Millisecond)
	defer cancelFn()

	select {
	case <-ctx.Done():
		t.Fatal("context should not be done while the process is running")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestExitCtx_ParentCancelled(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())

	ctx, cancelFn := ExitCtx(parent, uint32(os.Getpid()), time.Hour)
	defer cancelFn()

	cancelParent()

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("expected context to be done")
	}
}
