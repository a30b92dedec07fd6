package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"TrendScreener/internal/chart"
	"TrendScreener/internal/metrics"
	"TrendScreener/internal/model"
	"TrendScreener/internal/notifier"
	"TrendScreener/internal/scheduler"
	"TrendScreener/internal/screener"
	"TrendScreener/internal/scrips"
	"TrendScreener/internal/store"
)

func fetchAction(ctx context.Context, cmd *cli.Command, a *app) error {
	list, err := a.scripList(cmd)
	if err != nil {
		return err
	}
	start, end, err := a.dateRange(cmd)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(list),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Fetching"),
		progressbar.OptionShowCount())
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Ticker", "Bars", "First", "Last"})

	var errs error
	for _, s := range list {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		bars, err := a.collector.Bars(ctx, s.Ticker, start, end)
		_ = bar.Add(1)
		if err != nil {
			errs = multierr.Append(errs, err)
			t.AppendRow(table.Row{s.Ticker, 0, "-", "-"})
			continue
		}
		t.AppendRow(table.Row{s.Ticker, len(bars),
			bars[0].Time.Format("2006-01-02"), bars[len(bars)-1].Time.Format("2006-01-02")})
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	t.Render()
	return errs
}

func analyzeAction(ctx context.Context, cmd *cli.Command, a *app) error {
	if cmd.Args().Len() == 0 {
		return errors.New("analyze: symbol required")
	}
	start, end, err := a.dateRange(cmd)
	if err != nil {
		return err
	}
	for _, sym := range cmd.Args().Slice() {
		ds, err := a.collector.Dataset(ctx, scrips.Rename(sym), start, end)
		if err != nil {
			return err
		}
		res, err := screener.Analyze(ds)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", sym, err)
		}
		screener.RenderAnalysis(os.Stdout, res)
	}
	return nil
}

func screenAction(ctx context.Context, cmd *cli.Command, a *app) error {
	list, err := a.scripList(cmd)
	if err != nil {
		return err
	}
	r, err := a.runner(cmd, nil)
	if err != nil {
		return err
	}
	res, runErr := r.Run(ctx, list)
	if res == nil {
		return runErr
	}
	if runErr != nil {
		for _, e := range multierr.Errors(runErr) {
			a.log.Warn("symbol skipped", zap.Error(e))
		}
	}
	screener.RenderResult(os.Stdout, res)

	if err := a.history.RecordRun(ctx, res); err != nil {
		a.log.Error("record screen run", zap.Error(err))
	}
	if cmd.Bool("notify") && a.cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.log)
		if err := tn.SendWithRetry(ctx, notifier.FormatScreenReport(res), 3); err != nil {
			return err
		}
	}
	if errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func plotAction(ctx context.Context, cmd *cli.Command, a *app) error {
	if cmd.Args().Len() == 0 {
		return errors.New("plot: symbol required")
	}
	start, end, err := a.dateRange(cmd)
	if err != nil {
		return err
	}
	outDir := a.cfg.Chart.OutputDir
	if cmd.IsSet("out") {
		outDir = cmd.String("out")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	for _, sym := range cmd.Args().Slice() {
		ds, err := a.collector.Dataset(ctx, scrips.Rename(sym), start, end)
		if err != nil {
			return err
		}
		fig, err := chart.Dashboard(ds, a.cfg.Chart.Width, a.cfg.Chart.PanelHeight)
		if err != nil {
			return fmt.Errorf("plot %s: %w", sym, err)
		}
		path := filepath.Join(outDir, ds.Symbol+".png")
		if err := fig.Save(path); err != nil {
			return err
		}
		a.log.Info("chart written", zap.String("symbol", ds.Symbol), zap.String("path", path))
	}
	return nil
}

func exportAction(ctx context.Context, cmd *cli.Command, a *app) error {
	list, err := a.scripList(cmd)
	if err != nil {
		return err
	}
	start, end, err := a.dateRange(cmd)
	if err != nil {
		return err
	}
	bars := make(map[string][]model.OHLCV, len(list))
	var errs error
	for _, s := range list {
		b, err := a.collector.Bars(ctx, s.Ticker, start, end)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		bars[s.Ticker] = b
	}
	if len(bars) == 0 {
		return multierr.Append(errors.New("export: nothing to write"), errs)
	}
	out := cmd.String("out")
	if err := store.NewParquetExporter().Export(ctx, bars, out); err != nil {
		return err
	}
	a.log.Info("parquet written", zap.String("path", out), zap.Int("symbols", len(bars)))
	return errs
}

func scripsListAction(_ context.Context, cmd *cli.Command, a *app) error {
	list, err := a.scripList(cmd)
	if err != nil {
		return err
	}
	for _, s := range list {
		fmt.Printf("%s\t%s\n", s.Ticker, s.Name)
	}
	return nil
}

func scripsExtractAction(_ context.Context, cmd *cli.Command) error {
	seen := map[int]bool{}
	var ids []int
	for _, path := range cmd.Args().Slice() {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		found, err := scrips.ExtractScreenerIDs(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, id := range found {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

func scripsJoinAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("join: one id file required")
	}
	ids, err := readIDs(cmd.Args().First())
	if err != nil {
		return err
	}
	bse, err := os.Open(cmd.String("bse"))
	if err != nil {
		return err
	}
	defer bse.Close()

	out := os.Stdout
	if p := cmd.String("out"); p != "" {
		if out, err = os.Create(p); err != nil {
			return err
		}
		defer out.Close()
	}
	n, err := scrips.JoinBSE(ids, bse, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d of %d ids matched\n", n, len(ids))
	return nil
}

// readIDs takes the first integer on every line.
func readIDs(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ids []int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		field := strings.FieldsFunc(sc.Text(), func(r rune) bool { return r < '0' || r > '9' })
		if len(field) == 0 {
			continue
		}
		id, err := strconv.Atoi(field[0])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, sc.Err()
}

func serveAction(ctx context.Context, cmd *cli.Command, a *app) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.NewMetrics(prometheus.NewRegistry())
	r, err := a.runner(cmd, m)
	if err != nil {
		return err
	}
	r.Progress = false

	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if a.cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.log)
		sender = tn
	}
	source := func() ([]model.Scrip, error) { return a.scripList(cmd) }
	sched := scheduler.NewScheduler(ctx, r, source, sender, a.history, a.log)
	if err := sched.Register(a.cfg.Schedule.ScreenCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		a.log.Info("telegram polling started")
	}
	if cmd.Bool("run-on-start") || os.Getenv("RUN_ON_START") == "true" {
		go func() {
			if _, err := sched.RunNow(); err != nil {
				a.log.Warn("initial screen", zap.Error(err))
			}
		}()
	}

	a.log.Info("screener service running", zap.String("cron", a.cfg.Schedule.ScreenCron))
	return m.Serve(ctx, a.cfg.Metrics.Listen, a.log)
}
