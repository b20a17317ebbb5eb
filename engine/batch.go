package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoDocuments is returned by DiscoverJobs when a directory holds no
// .html files.
var ErrNoDocuments = errors.New("no .html documents found")

// Job is one document to render to a PNG file. CSSPath may be empty.
type Job struct {
	Name       string
	HTMLPath   string
	CSSPath    string
	OutputPath string
}

// DiscoverJobs returns a job for every .html file in dir, paired with the
// .css file of the same base name when one exists, writing into outDir.
// Jobs are sorted by name.
func DiscoverJobs(dir, outDir string) ([]Job, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoDocuments)
	}
	sort.Strings(matches)

	jobs := make([]Job, 0, len(matches))
	for _, htmlPath := range matches {
		name := strings.TrimSuffix(filepath.Base(htmlPath), ".html")
		job := Job{
			Name:       name,
			HTMLPath:   htmlPath,
			OutputPath: filepath.Join(outDir, name+".png"),
		}
		cssPath := filepath.Join(dir, name+".css")
		if info, err := os.Stat(cssPath); err == nil && !info.IsDir() {
			job.CSSPath = cssPath
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// RenderBatch renders jobs with at most concurrency renders in flight. The
// first failure cancels the jobs that have not started and is returned.
func (e *Engine) RenderBatch(ctx context.Context, jobs []Job, concurrency int) error {
	if concurrency <= 0 {
		concurrency = 1
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	e.logger.Info("Starting batch", zap.Int("jobs", len(jobs)), zap.Int("concurrency", concurrency))
	for _, job := range jobs {
		if groupCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			return e.renderJob(job)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// Cancellation of the parent context before any job failed.
	return ctx.Err()
}

func (e *Engine) renderJob(job Job) error {
	res, err := e.RenderFiles(job.HTMLPath, job.CSSPath)
	if err != nil {
		return fmt.Errorf("job %s: %w", job.Name, err)
	}
	if err := res.Canvas.SavePNG(job.OutputPath); err != nil {
		return fmt.Errorf("job %s: writing %s: %w", job.Name, job.OutputPath, err)
	}
	e.logger.Info("Rendered", zap.String("job", job.Name), zap.String("output", job.OutputPath))
	return nil
}
