package pipeline

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// progress advances a step bar. A nil writer makes every call a no-op.
type progress struct {
	bar   *progressbar.ProgressBar
	begun bool
}

func newProgress(w io.Writer, total int) *progress {
	if w == nil {
		return &progress{}
	}
	return &progress{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)}
}

// step marks the previous step done and names the next one.
func (p *progress) step(desc string) {
	if p.bar == nil {
		return
	}
	if p.begun {
		p.bar.Add(1)
	}
	p.begun = true
	p.bar.Describe(desc)
}

func (p *progress) finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}

// stepCount returns how many steps Run will announce for req.
func stepCount(req Request, archs []string) int {
	n := 3 + len(archs) // depot_tools, skia, deps, per-arch builds
	if req.Fuses() {
		n++
	}
	if req.XCFramework {
		n += 1 + len(req.ios().BuildArchs()) + 2
	} else {
		n++
	}
	n++ // summary
	if req.ZipAll {
		n++
	}
	return n
}
