package analyzer

import (
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/commentgraph/commentgraph/internal/anonymize"
	"github.com/commentgraph/commentgraph/internal/cache"
	"github.com/commentgraph/commentgraph/internal/config"
	"github.com/commentgraph/commentgraph/internal/links"
	"github.com/commentgraph/commentgraph/internal/snapshot"
	"github.com/commentgraph/commentgraph/internal/types"
	"github.com/commentgraph/commentgraph/internal/youtube"
)

// Stats counts what one run saw and what it dropped. The malformed-link
// counter is the diagnostic for the "no silent loss" property: total
// links found = tally total + links malformed.
type Stats struct {
	PagesParsed    int
	PagesSkipped   int
	CommentsSeen   int
	CommentsKept   int
	LinksKept      int
	LinksMalformed int
	FromCache      bool
}

// Result is everything a finished run produced.
type Result struct {
	Pages []types.Page
	Tally *links.Tally
	Stats Stats
}

// Analyzer drives one single-pass batch run: enumerate snapshots, locate
// comments, filter to target users, normalize, and aggregate. Strictly
// sequential; the only shared state is the accumulators it owns.
type Analyzer struct {
	cfg      *config.Config
	registry *anonymize.Registry
	loader   *snapshot.Loader
	locators []youtube.Locator
	logger   *slog.Logger
}

// New creates an analyzer.
func New(cfg *config.Config, registry *anonymize.Registry, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		registry: registry,
		loader:   snapshot.NewLoader(cfg.Snapshots.Pattern, logger),
		locators: youtube.Locators(logger),
		logger:   logger.With("component", "analyzer"),
	}
}

// Run processes every snapshot in folder and returns the aggregated
// result. Per-document failures are warnings; only an empty folder is
// fatal here.
func (a *Analyzer) Run(folder string) (*Result, error) {
	res := &Result{Tally: links.NewTally()}

	store := cache.New(filepath.Join(a.cfg.Output.Dir, "cache"), a.logger)
	if a.cfg.Snapshots.Cache {
		if pages, ok := store.Load(); ok {
			res.Pages = pages
			res.Stats.FromCache = true
			a.tallyPages(res)
			a.logSummary(res.Stats)
			return res, nil
		}
	}

	files, err := a.loader.List(folder)
	if err != nil {
		return nil, err
	}

	for _, path := range files {
		page, err := a.extractPage(path, &res.Stats)
		if err != nil {
			res.Stats.PagesSkipped++
			a.logger.Warn("snapshot skipped", "file", path, "reason", err)
			continue
		}
		res.Stats.PagesParsed++
		if len(page.Comments) == 0 {
			a.logger.Info("no comments by target users", "file", page.File)
		}
		res.Pages = append(res.Pages, page)
	}

	a.tallyPages(res)

	if a.cfg.Snapshots.Cache {
		if err := store.Save(res.Pages); err != nil {
			a.logger.Warn("cache save failed", "error", err)
		}
	}

	a.logSummary(res.Stats)
	return res, nil
}

// extractPage loads one snapshot and keeps the comments whose authors
// are in the target registry, normalized and pseudonymized.
func (a *Analyzer) extractPage(path string, stats *Stats) (types.Page, error) {
	snap, err := a.loader.Load(path)
	if err != nil {
		return types.Page{}, err
	}

	var raws []types.RawComment
	for _, loc := range a.locators {
		if raws = loc.Locate(snap.Doc); len(raws) > 0 {
			a.logger.Debug("comments located", "file", snap.Name(), "adapter", loc.Name(), "count", len(raws))
			break
		}
	}
	if len(raws) == 0 {
		return types.Page{}, &types.ParseError{File: path, Err: types.ErrNoComments}
	}

	page := types.Page{
		File:  snap.Name(),
		Title: snap.Title(),
		URL:   snap.VideoURL(),
	}

	for _, raw := range raws {
		stats.CommentsSeen++
		hash, ok := a.registry.IsTarget(raw.Author)
		if !ok {
			continue
		}
		page.Comments = append(page.Comments, types.Comment{
			AuthorHash: hash,
			Pseudonym:  a.registry.Pseudonym(hash),
			Permalink:  raw.Permalink,
			Text:       normalizeText(a.registry.Redact(raw.Text, raw.Mentions)),
			Links:      raw.Links,
		})
	}
	return page, nil
}

// tallyPages folds every retained comment's links into the tally.
func (a *Analyzer) tallyPages(res *Result) {
	for _, page := range res.Pages {
		for _, c := range page.Comments {
			res.Stats.CommentsKept++
			for _, raw := range c.Links {
				err := res.Tally.Add(c.Pseudonym, a.registry.Color(c.AuthorHash), raw)
				switch {
				case err == nil:
					res.Stats.LinksKept++
				case errors.Is(err, types.ErrNotLink):
					// Link-shaped noise, not worth a warning.
				default:
					res.Stats.LinksMalformed++
					a.logger.Warn("malformed link skipped", "source", page.File, "target", raw)
				}
			}
		}
	}
}

func (a *Analyzer) logSummary(s Stats) {
	a.logger.Info("run complete",
		"pages_parsed", s.PagesParsed,
		"pages_skipped", s.PagesSkipped,
		"comments_seen", s.CommentsSeen,
		"comments_kept", s.CommentsKept,
		"links_kept", s.LinksKept,
		"links_malformed", s.LinksMalformed,
		"from_cache", s.FromCache,
	)
}
