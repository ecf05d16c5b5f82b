package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/dgallion1/notepen/internal/doctree"
	"github.com/dgallion1/notepen/internal/note"
	"github.com/dgallion1/notepen/internal/parser"
	"github.com/dgallion1/notepen/internal/wordcount"
)

// Worker turns one uploaded file into a saved note.
type Worker struct {
	repo    *note.Repository
	log     *slog.Logger
	opts    parser.Options
	backoff func(int) time.Duration
}

func NewWorker(repo *note.Repository, log *slog.Logger, opts parser.Options) *Worker {
	return &Worker{
		repo:    repo,
		log:     log,
		opts:    opts,
		backoff: Backoff,
	}
}

// Process runs the full import pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.opts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	imp, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.SetContentHash(ContentHashHex([]byte(imp.Body)))
	// Jobs outlive processing by JobTTL; later phases only need the body.
	job.SetFileData(nil)

	// Phase 2: Build the note
	job.SetStatus(StatusBuilding, "building")
	title := imp.Title
	if job.Title != "" {
		title = job.Title
	}
	n := &note.Note{
		Title:  title,
		Header: html.EscapeString(title),
		Body:   imp.Body,
	}
	words, err := countWords(n.Body)
	if err != nil {
		log.Error("count words", "error", err)
		job.AddError(fmt.Sprintf("count: %s", err))
		job.SetStatus(StatusFailed, "building")
		return
	}
	job.SetCounts(imp.Paragraphs, words)
	log.Info("built note", "paragraphs", imp.Paragraphs, "words", words)

	// Phase 3: Store
	job.SetStatus(StatusStoring, "storing")
	err = withRetry(ctx, log, w.backoff, func() error {
		return w.repo.Save(ctx, n)
	})
	if err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	job.SetNoteID(n.ID)
	job.SetStatus(StatusCompleted, "done")
	log.Info("import complete", "note_id", n.ID)
}

// countWords counts block by block so adjacent paragraphs don't run together.
func countWords(body string) (int, error) {
	doc, err := doctree.New("", body)
	if err != nil {
		return 0, err
	}
	return wordcount.Count(doctree.BlockText(doc.Content)), nil
}
