package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{out: &buf}

	l.Debugf("hidden %d\n", 1)
	l.Infof("styled %d pages\n", 2)
	l.Warnf("no match\n")
	l.Errorf("broken\n")

	assert.Equal(t, "[INFO] styled 2 pages\n[WARN] no match\n[ERROR] broken\n", buf.String())

	buf.Reset()
	l.Debug = true
	l.Debugf("shown\n")
	assert.Equal(t, "[DEBUG] shown\n", buf.String())
}

func TestFileBarCompletesOnMarkDone(t *testing.T) {
	var buf bytes.Buffer
	pm := NewProgressManager(&buf)
	fb := pm.Register("worldcat")

	fb.Update(0, 3, 0)
	fb.Update(2, 3, 2048)
	fb.MarkDone()
	fb.MarkDone()

	finished := make(chan struct{})
	go func() {
		pm.Close()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("progress manager did not finish after MarkDone")
	}
}
