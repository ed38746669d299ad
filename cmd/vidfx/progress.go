package main

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/keagan/vidfx/internal/ffmpeg"
	"github.com/keagan/vidfx/internal/logging"
)

// progressBar shows encode progress on stderr. It does nothing when stderr
// is not a terminal.
type progressBar struct {
	bar *progressbar.ProgressBar
}

func newProgressBar(description string) *progressBar {
	if !logging.IsTerminal(os.Stderr.Fd()) {
		return &progressBar{}
	}
	return &progressBar{bar: progressbar.NewOptions(100,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)}
}

func (p *progressBar) update(progress *ffmpeg.Progress) {
	if p.bar == nil || progress == nil {
		return
	}
	pct := int(progress.Percentage)
	if pct > 100 {
		pct = 100
	}
	_ = p.bar.Set(pct)
}

func (p *progressBar) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}
