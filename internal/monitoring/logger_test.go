package monitoring

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetLogWriters(t *testing.T) {
	defer Mute()

	var ops, diag, trace bytes.Buffer
	SetLogWriters(LogWriters{Ops: &ops, Diag: &diag, Trace: &trace})

	Opsf("ops message: %d", 1)
	Diagf("diag message: %d", 2)
	Tracef("trace message: %d", 3)

	if !strings.Contains(ops.String(), "ops message: 1") {
		t.Errorf("ops output = %q, want to contain 'ops message: 1'", ops.String())
	}
	if !strings.Contains(diag.String(), "diag message: 2") {
		t.Errorf("diag output = %q, want to contain 'diag message: 2'", diag.String())
	}
	if !strings.Contains(trace.String(), "trace message: 3") {
		t.Errorf("trace output = %q, want to contain 'trace message: 3'", trace.String())
	}
	if !strings.Contains(ops.String(), logPrefix) {
		t.Errorf("ops output = %q, want prefix %q", ops.String(), logPrefix)
	}
}

func TestStreamsAreIndependent(t *testing.T) {
	defer Mute()

	var ops bytes.Buffer
	SetLogWriters(LogWriters{Ops: &ops})

	Diagf("should not appear")
	Tracef("should not appear")
	if ops.Len() != 0 {
		t.Errorf("ops stream received diag/trace output: %q", ops.String())
	}
	if TraceEnabled() {
		t.Error("TraceEnabled() = true with nil trace writer")
	}
}

func TestMute(t *testing.T) {
	var ops bytes.Buffer
	SetLogWriters(LogWriters{Ops: &ops, Trace: &ops})
	Mute()

	// Must not panic with every stream disabled.
	Opsf("muted")
	Diagf("muted")
	Tracef("muted")

	if ops.Len() != 0 {
		t.Errorf("output after Mute = %q, want empty", ops.String())
	}
}
