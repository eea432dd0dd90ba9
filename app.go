package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/wordkeeper/internal/bot"
	"github.com/example/wordkeeper/internal/capture"
	"github.com/example/wordkeeper/internal/config"
	"github.com/example/wordkeeper/internal/database"
	"github.com/example/wordkeeper/internal/export"
	"github.com/example/wordkeeper/internal/frequency"
	"github.com/example/wordkeeper/internal/importer"
	"github.com/example/wordkeeper/internal/logger"
	"github.com/example/wordkeeper/internal/review"
	"github.com/example/wordkeeper/internal/scheduler"
	"github.com/example/wordkeeper/internal/spaced_repetition"
	"github.com/example/wordkeeper/internal/storage"
	"github.com/example/wordkeeper/internal/vocabulary"
	"github.com/example/wordkeeper/pkg/models"
)

var errUsage = errors.New("usage")

// app wires the configured backend to the commands
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	kv    storage.Store
	redis *storage.RedisStore
	words *vocabulary.Store

	in      io.Reader
	out     io.Writer
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log, in: os.Stdin, out: os.Stdout}

	switch cfg.Storage.Driver {
	case "memory":
		a.kv = storage.NewMemoryStore()
	case "sqlite", "postgres":
		driver := database.DriverSQLite
		if cfg.Storage.Driver == "postgres" {
			driver = database.DriverPostgres
		}
		db, err := database.Connect(driver, cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.kv = database.NewKVRepository(db)
	case "redis":
		rs, err := storage.NewRedisStore(ctx, log, cfg.Storage.RedisAddr, cfg.Storage.RedisChannel)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rs.Close)
		a.redis = rs
		a.kv = rs
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	var opts []vocabulary.Option
	if cfg.Storage.OptimisticLocking {
		opts = append(opts, vocabulary.WithOptimisticLocking(cfg.Storage.MaxRetries))
	}
	a.words = vocabulary.NewStore(a.kv, log, opts...)

	log.Debug("storage ready", "driver", cfg.Storage.Driver)
	return a, nil
}

// Close releases the storage backend
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("failed to close storage", "error", err)
		}
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "serve":
		return a.serve(ctx)
	case "add":
		return a.add(ctx, args)
	case "import":
		return a.importFile(ctx, args)
	case "export":
		return a.export(ctx, args)
	case "due":
		return a.due(ctx)
	case "review":
		return a.review(ctx)
	case "stats":
		return a.stats(ctx)
	case "remind":
		return a.remind(ctx, args)
	default:
		return errUsage
	}
}

func (a *app) corpus() (*frequency.Corpus, error) {
	if a.cfg.Frequency.CorpusPath == "" {
		return nil, nil
	}
	c, err := frequency.LoadCorpusFile(a.cfg.Frequency.CorpusPath)
	if err != nil {
		return nil, err
	}
	a.log.Debug("frequency corpus loaded", "words", c.Len())
	return c, nil
}

func (a *app) newScheduler(notifier scheduler.Notifier) *scheduler.Scheduler {
	return scheduler.New(notifier, a.words, a.kv, a.log,
		scheduler.WithCheckInterval(a.cfg.Reminder.CheckInterval),
		scheduler.WithDefaultTime(a.cfg.Reminder.DefaultTime),
	)
}

func (a *app) serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	cancel, ok := a.words.OnChange(func(records []models.VocabularyRecord) {
		a.log.Info("vocabulary changed", "words", len(records))
	})
	defer cancel()
	if !ok {
		a.log.Warn("storage does not report changes")
	}

	if a.redis != nil {
		g.Go(func() error {
			return a.redis.Listen(ctx)
		})
	}

	if a.cfg.Reminder.Enabled {
		var notifier scheduler.Notifier = scheduler.LogNotifier{Log: a.log}
		var tg *bot.Bot
		if a.cfg.Reminder.TelegramToken != "" {
			b, err := bot.New(a.cfg.Reminder.TelegramToken, a.cfg.Reminder.ChatID, a.words, a.log)
			if err != nil {
				return err
			}
			notifier, tg = b, b
		}

		sched := a.newScheduler(notifier)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		if tg != nil {
			tg.AttachSchedule(sched)
			g.Go(func() error {
				return tg.Run(ctx)
			})
		}
	}

	a.log.Info("wordkeeper started, press Ctrl+C to stop")
	g.Go(func() error {
		<-ctx.Done()
		return nil
	})

	err := g.Wait()
	a.log.Info("wordkeeper stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	translation := fs.String("t", "", "translation")
	source := fs.String("context", "", "text the word was taken from")
	phonetic := fs.String("phonetic", "", "transcription")
	if len(args) == 0 {
		return errUsage
	}
	word := args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}

	c, err := a.corpus()
	if err != nil {
		return err
	}
	var tiers capture.TierLookup
	if c != nil {
		tiers = c
	}

	sel := capture.Selection{Text: word, Translation: *translation, Source: *source}
	if *phonetic != "" {
		sel.Phonetic = &models.Phonetic{Text: *phonetic}
	}
	rec, err := capture.NewCapturer(a.words, tiers, a.log).Capture(ctx, sel)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added %s: %s (%s)\n", rec.Text, rec.Translation, rec.FrequencyTier.Name)
	return nil
}

func (a *app) importFile(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	res, err := importer.New(a.log).ImportPath(ctx, args[0])
	for _, msg := range res.Errors {
		fmt.Fprintln(a.out, msg)
	}
	if err != nil {
		return err
	}

	merged, err := a.words.AddBatch(ctx, res.Items)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "imported %d, skipped %d duplicates, %d rows rejected\n", merged.Added, merged.Skipped, len(res.Errors))
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	format, err := export.ParseFormat(args[0])
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	dir := fs.String("o", ".", "output directory")
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}

	records, err := a.words.GetAll(ctx)
	if err != nil {
		return err
	}

	path := filepath.Join(*dir, export.FileName(format, a.words.Now()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %v", err)
	}
	if err := export.Write(f, format, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "exported %d words to %s\n", len(records), path)
	return nil
}

func (a *app) due(ctx context.Context) error {
	records, err := a.words.GetDueToday(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(a.out, "nothing to review today")
		return nil
	}
	for _, r := range records {
		fmt.Fprintf(a.out, "%s\t%s\t%s\n", r.Text, r.Translation, r.FrequencyTier.CEFRLevel)
	}
	return nil
}

func (a *app) review(ctx context.Context) error {
	session, err := review.NewSession(ctx, a.words, a.words.Now)
	if err != nil {
		return err
	}
	if session.Done() {
		fmt.Fprintln(a.out, "nothing to review today")
		return nil
	}

	scanner := bufio.NewScanner(a.in)
	for !session.Done() {
		rec, _ := session.Current()
		fmt.Fprintf(a.out, "\n%s  (%d left)\n", rec.Text, session.Remaining())
		if rec.Context != "" {
			fmt.Fprintf(a.out, "  %s\n", rec.Context)
		}
		fmt.Fprint(a.out, "press Enter to reveal")
		if !scanner.Scan() {
			break
		}
		fmt.Fprintf(a.out, "%s\ngrade 0-5: ", rec.Translation)

		q, ok := readGrade(scanner)
		if !ok {
			break
		}
		updated, err := session.Grade(ctx, q)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "next review %s\n", updated.ReviewState.DueDate.Local().Format("2006-01-02"))
	}

	st := session.Stats()
	fmt.Fprintf(a.out, "\nreviewed %d of %d, %d%% good (%s)\n",
		session.Completed(), st.TotalWords, st.GoodPercentage(), st.PerformanceLevel())
	return scanner.Err()
}

func readGrade(scanner *bufio.Scanner) (spaced_repetition.QualityResponse, bool) {
	for scanner.Scan() {
		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if q := spaced_repetition.QualityResponse(n); err == nil && q.IsValid() {
			return q, true
		}
	}
	return 0, false
}

func (a *app) stats(ctx context.Context) error {
	st, err := a.words.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "total\t%d\ndue\t%d\nmastered\t%d\n", st.Total, st.DueToday, st.Mastered)
	for _, tier := range append(models.FrequencyTiers(), models.UndefinedTier("", "")) {
		if n := st.ByTier[tier.NameEn]; n > 0 {
			fmt.Fprintf(a.out, "%s\t%d\n", tier.NameEn, n)
		}
	}
	return nil
}

func (a *app) remind(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("remind", flag.ContinueOnError)
	at := fs.String("at", "", "daily reminder time, HH:MM")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *at != "" {
		if err := scheduler.SetNotificationTime(ctx, a.kv, *at); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "reminder time set to %s\n", *at)
		return nil
	}

	var notifier scheduler.Notifier = scheduler.LogNotifier{Log: a.log}
	if a.cfg.Reminder.TelegramToken != "" {
		b, err := bot.New(a.cfg.Reminder.TelegramToken, a.cfg.Reminder.ChatID, a.words, a.log)
		if err != nil {
			return err
		}
		notifier = b
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return a.newScheduler(notifier).RunManualCheck(ctx)
}
