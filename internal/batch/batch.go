// Package batch rewrites saved catalog pages on disk with a bounded pool
// of workers.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/enabling-languages/vernacular/internal/adjuster"
	"github.com/enabling-languages/vernacular/internal/util"
)

var ErrDuplicateDestination = errors.New("duplicate output path")

type Logger interface {
	Debugf(string, ...any)
	Errorf(string, ...any)
}

type Progress interface {
	Update(done, total int, bytes int64)
	MarkDone()
}

type Processor struct {
	adj        *adjuster.Adjuster
	log        Logger
	outputDir  string
	inPlace    bool
	skipBroken bool
	dryRun     bool
}

type Options struct {
	OutputDir  string
	InPlace    bool
	SkipBroken bool
	DryRun     bool
}

func New(adj *adjuster.Adjuster, log Logger, opts Options) *Processor {
	return &Processor{
		adj:        adj,
		log:        log,
		outputDir:  opts.OutputDir,
		inPlace:    opts.InPlace,
		skipBroken: opts.SkipBroken,
		dryRun:     opts.DryRun,
	}
}

type Summary struct {
	Files      int
	Bytes      int64
	Containers int
	Marked     int
	Overridden map[string]int
	Failed     []error
}

func (s *Summary) add(res adjuster.Result, n int64) {
	s.Files++
	s.Bytes += n
	s.Containers += res.ContainersStyled
	s.Marked += res.Marked
	for lang, c := range res.Overridden {
		s.Overridden[lang] += c
	}
}

// Destination is where in is written.
func (p *Processor) Destination(in Input) string {
	if p.inPlace {
		return in.Path
	}
	return filepath.Join(p.outputDir, in.Rel)
}

// checkDestinations refuses a run in which two inputs would be written to
// the same file, e.g. a/index.html and b/index.html named directly.
func (p *Processor) checkDestinations(inputs []Input) error {
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		dst := filepath.Clean(p.Destination(in))
		if abs, err := filepath.Abs(dst); err == nil {
			dst = abs
		}
		if prev, ok := seen[dst]; ok {
			return fmt.Errorf("%w: %s and %s both write %s (pass their common parent directory instead)",
				ErrDuplicateDestination, prev, in.Path, p.Destination(in))
		}
		seen[dst] = in.Path
	}
	return nil
}

func (p *Processor) Run(ctx context.Context, inputs []Input, maxParallel int, ph Progress) (Summary, error) {
	sum := Summary{Overridden: map[string]int{}}

	if err := p.checkDestinations(inputs); err != nil {
		ph.MarkDone()
		return sum, err
	}

	total := len(inputs)
	if maxParallel < 1 {
		maxParallel = 1
	}
	if maxParallel > total && total > 0 {
		maxParallel = total
	}

	var mu sync.Mutex
	done := 0
	ph.Update(0, total, 0)

	jobs := make(chan Input)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for in := range jobs {
			res, n, err := p.processFile(in)

			mu.Lock()
			done++
			if err != nil {
				sum.Failed = append(sum.Failed, fmt.Errorf("%s: %w", in.Path, err))
				p.log.Errorf("%s: %v\n", in.Path, err)
			} else {
				sum.add(res, n)
				p.log.Debugf("%s -> %s (%s)\n", in.Path, p.Destination(in), res)
			}
			ph.Update(done, total, sum.Bytes)
			mu.Unlock()
		}
	}

	wg.Add(maxParallel)
	for w := 0; w < maxParallel; w++ {
		go worker()
	}

	for _, in := range inputs {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			ph.MarkDone()
			return sum, ctx.Err()
		case jobs <- in:
		}
	}

	close(jobs)
	wg.Wait()
	ph.MarkDone()

	if len(sum.Failed) > 0 && !p.skipBroken {
		return sum, fmt.Errorf("failed %d/%d files (use --skip-broken to continue)", len(sum.Failed), total)
	}

	return sum, nil
}

func (p *Processor) processFile(in Input) (adjuster.Result, int64, error) {
	f, err := os.Open(in.Path)
	if err != nil {
		return adjuster.Result{}, 0, err
	}

	doc, err := goquery.NewDocumentFromReader(f)
	_ = f.Close()
	if err != nil {
		return adjuster.Result{}, 0, fmt.Errorf("parse: %w", err)
	}

	res := p.adj.Apply(doc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc.Get(0)); err != nil {
		return res, 0, fmt.Errorf("render: %w", err)
	}

	if p.dryRun {
		return res, int64(buf.Len()), nil
	}

	if err := util.WriteFileAtomic(p.Destination(in), buf.Bytes(), 0644); err != nil {
		return res, 0, fmt.Errorf("write: %w", err)
	}

	return res, int64(buf.Len()), nil
}
