package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"adiwals/cinegate-api/internal/model"
	"adiwals/cinegate-api/internal/storage"
	"adiwals/cinegate-api/util"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// A single release may sit in the seedbox queue for a long while; the
// whole resolve+mirror pass gets one generous deadline instead of
// per-call timeouts.
const releaseDeadline = 45 * time.Minute

type Runner struct {
	db     *gorm.DB
	store  storage.Store
	scrape *Scraper
	debrid *DebridClient
	ppd    *PPDClient
	tmdb   *TMDBClient

	// Notify posts to the admin chat when set. Left nil when the bot
	// is disabled.
	Notify func(string)

	jobs chan uint
}

func NewRunner(db *gorm.DB, store storage.Store) *Runner {
	return &Runner{
		db:     db,
		store:  store,
		scrape: NewScraper(),
		debrid: NewDebrid(),
		ppd:    NewPPD(),
		tmdb:   NewTMDB(),
		jobs:   make(chan uint, 64),
	}
}

// StartWorkerPool launches the bounded set of release workers. Jobs are
// release row ids, so a restart never loses work: anything still marked
// found gets re-enqueued by the next Run.
func (r *Runner) StartWorkerPool() {
	for range max(viper.GetInt("pipeline.workers"), 1) {
		go r.worker()
	}
}

func (r *Runner) worker() {
	for id := range r.jobs {
		r.process(id)
	}
}

// Run scrapes the forum, records new releases and enqueues everything
// waiting to be processed. Called on the cron schedule and by the manual
// admin trigger.
func (r *Runner) Run() error {
	scraped, err := r.scrape.Scrape()
	if err != nil {
		return fmt.Errorf("failed to scrape forum, %w", err)
	}

	zap.L().Info("Scrape finished", zap.Int("releases", len(scraped)))

	for _, s := range scraped {
		var existing model.Release
		err := r.db.Where("source_url = ?", s.SourceURL).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Warn("Failed to check for existing release", zap.Error(err))
			continue
		}

		rel := model.Release{
			SourceURL: s.SourceURL,
			Title:     s.Title,
			Year:      s.Year,
			Magnet:    s.Magnet,
			Quality:   s.Quality,
			SizeGB:    s.SizeGB,
			Status:    "found",
		}

		if _, ok := Evaluate(s.Title, s.Quality, s.SizeGB); !ok {
			rel.Status = "skipped"
		}

		if err := r.db.Create(&rel).Error; err != nil {
			zap.L().Warn("Failed to record release", zap.Error(err), zap.String("source", s.SourceURL))
		}
	}

	var pending []model.Release
	err = r.db.
		Where("status = ?", "found").
		Order("created_at asc").
		Find(&pending).
		Error
	if err != nil {
		return fmt.Errorf("failed to load pending releases, %w", err)
	}

	sortPending(pending)

	for _, rel := range pending {
		select {
		case r.jobs <- rel.ID:
		default:
			zap.L().Warn("Release queue full, leaving for next run", zap.Uint("release", rel.ID))
		}
	}

	return nil
}

func (r *Runner) process(id uint) {
	var rel model.Release
	if err := r.db.First(&rel, id).Error; err != nil {
		zap.L().Error("Failed to load release", zap.Uint("release", id), zap.Error(err))
		return
	}

	if rel.Status != "found" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), releaseDeadline)
	defer cancel()

	movieID, err := r.processOne(ctx, &rel)
	if err != nil {
		zap.L().Error("Release failed", zap.Uint("release", id), zap.String("title", rel.Title), zap.Error(err))
		r.setStatus(&rel, "failed", err.Error())
		return
	}

	rel.MovieID = movieID
	r.setStatus(&rel, "done", "")

	zap.L().Info("Release finished", zap.String("title", rel.Title), zap.String("movie", movieID))

	if r.Notify != nil {
		r.Notify(fmt.Sprintf("New movie added: %s (%d) %s", rel.Title, rel.Year, rel.Quality))
	}
}

func (r *Runner) processOne(ctx context.Context, rel *model.Release) (string, error) {
	r.setStatus(rel, "resolving", "")

	torrentID, err := r.debrid.AddMagnet(ctx, rel.Magnet)
	if err != nil {
		return "", err
	}

	// Poster lookup runs while the seedbox downloads
	posterCh := make(chan *PosterInfo, 1)
	go func() {
		info, err := r.tmdb.Search(ctx, cleanTitle(rel.Title), rel.Year)
		if err != nil {
			zap.L().Warn("TMDB lookup failed", zap.String("title", rel.Title), zap.Error(err))
		}
		posterCh <- info
	}()

	directLink, err := r.debrid.WaitForLink(ctx, torrentID)
	if err != nil {
		return "", err
	}

	r.setStatus(rel, "uploading", "")

	mirror, err := r.ppd.RemoteUpload(ctx, directLink, fmt.Sprintf("%s_%d.mkv", cleanTitle(rel.Title), rel.Year))
	if err != nil {
		return "", err
	}

	poster := <-posterCh

	movieID, err := gonanoid.New(12)
	if err != nil {
		return "", err
	}

	movie := model.Movie{
		ID:          movieID,
		Title:       cleanTitle(rel.Title),
		Year:        rel.Year,
		Quality:     rel.Quality,
		WatchURL:    mirror.WatchURL,
		DownloadURL: mirror.DownloadURL,
		Source:      "pipeline",
	}

	if poster != nil {
		movie.Description = poster.Overview
		movie.Rating = poster.Rating

		if poster.PosterURL != "" {
			if key, err := r.storePoster(ctx, poster.PosterURL); err != nil {
				zap.L().Warn("Failed to store poster", zap.String("title", rel.Title), zap.Error(err))
			} else {
				movie.PosterPath = r.store.URL(key)
			}
		}
	}

	if err := r.db.Create(&movie).Error; err != nil {
		return "", fmt.Errorf("failed to insert movie, %w", err)
	}

	return movieID, nil
}

func (r *Runner) storePoster(ctx context.Context, posterURL string) (string, error) {
	resp, err := r.tmdb.FetchPoster(ctx, posterURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	key := "poster_" + util.RandStr(12) + ".jpg"

	err = r.store.Put(ctx, key, resp.Body, resp.ContentLength, "image/jpeg")
	if err != nil {
		return "", err
	}

	return key, nil
}

func (r *Runner) setStatus(rel *model.Release, status, errText string) {
	rel.Status = status
	rel.Error = errText

	err := r.db.
		Model(model.Release{}).
		Where("id = ?", rel.ID).
		Updates(map[string]any{"status": status, "error": errText, "updated_at": time.Now()}).
		Error
	if err != nil {
		zap.L().Error("Failed to update release status", zap.Uint("release", rel.ID), zap.Error(err))
	}
}

// sortPending orders releases best-first before they hit the queue:
// selection window priority, then preferred source tags as the tie
// break. The queue itself stays FIFO, so when it fills up mid-run the
// best releases are the ones already in.
func sortPending(rels []model.Release) {
	sort.SliceStable(rels, func(i, j int) bool {
		pi, _ := Evaluate(rels[i].Title, rels[i].Quality, rels[i].SizeGB)
		pj, _ := Evaluate(rels[j].Title, rels[j].Quality, rels[j].SizeGB)
		if pi != pj {
			return pi < pj
		}

		return PreferScore(rels[i].Title) > PreferScore(rels[j].Title)
	})
}

// cleanTitle strips the bracketed junk forum titles carry so TMDB
// lookups and catalog rows get a readable name.
func cleanTitle(title string) string {
	t := title

	for _, cut := range []string{"[", "("} {
		if i := strings.Index(t, cut); i > 0 {
			t = t[:i]
		}
	}

	return strings.TrimSpace(t)
}
