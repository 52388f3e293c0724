package ui

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/enabling-languages/vernacular/internal/util"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// MPBProgressManager owns the terminal area the file bars are drawn in.
type MPBProgressManager struct {
	p *mpb.Progress
}

func NewProgressManager(out io.Writer) *MPBProgressManager {
	if out == nil {
		out = os.Stderr
	}
	return &MPBProgressManager{
		p: mpb.New(
			mpb.WithWidth(48),
			mpb.WithOutput(out),
			mpb.WithRefreshRate(150*time.Millisecond),
		),
	}
}

// Close blocks until every registered bar has been marked done.
func (pm *MPBProgressManager) Close() {
	pm.p.Wait()
}

// Register adds a bar counting rewritten files, labelled with the rule
// profile that is being applied.
func (pm *MPBProgressManager) Register(label string) *FileBar {
	fb := &FileBar{}
	fb.bar = pm.p.New(0,
		mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding(" ").Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(label, decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d/%d files", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Any(func(decor.Statistics) string {
				return util.Human(fb.bytes.Load())
			}, decor.WCSyncSpace),
			decor.OnComplete(decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncSpace), " done"),
		),
	)
	return fb
}

// FileBar implements batch.Progress on top of an mpb bar.
type FileBar struct {
	bar   *mpb.Bar
	total atomic.Int64
	bytes atomic.Int64
	done  atomic.Bool
}

func (fb *FileBar) Update(done, total int, bytes int64) {
	if fb.done.Load() {
		return
	}
	if total > 0 && int64(total) != fb.total.Load() {
		fb.total.Store(int64(total))
		fb.bar.SetTotal(int64(total), false)
	}
	fb.bytes.Store(bytes)
	fb.bar.SetCurrent(int64(done))
}

// MarkDone completes the bar even when the run stopped early, so Close
// never waits on it.
func (fb *FileBar) MarkDone() {
	if fb.done.Swap(true) {
		return
	}
	fb.bar.SetTotal(fb.bar.Current(), true)
}

// NopProgress satisfies the progress contract without drawing anything.
type NopProgress struct{}

func (NopProgress) Update(int, int, int64) {}
func (NopProgress) MarkDone()              {}
