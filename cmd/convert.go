package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/brogergvhs/storyd/internal/config"
	"github.com/brogergvhs/storyd/internal/downloader"
	"github.com/brogergvhs/storyd/internal/fetch"
	"github.com/brogergvhs/storyd/internal/providers"
	"github.com/brogergvhs/storyd/internal/providers/literotica"
	"github.com/brogergvhs/storyd/internal/proxy"
	"github.com/brogergvhs/storyd/internal/ui"
	"github.com/brogergvhs/storyd/internal/util"

	"github.com/spf13/cobra"
)

var (
	// selection
	flagURL     string
	flagChapter string
	flagRange   string
	flagList    string

	// runtime
	flagOutput       string
	flagProxies      []string
	flagMaxAttempts  int
	flagTimeout      time.Duration
	flagChapterDelay time.Duration
	flagDryRun       bool

	// headers/auth
	flagCookie     string
	flagCookieFile string
	flagUserAgent  string
	flagCloudflare bool
)

func init() {
	convertCmd := &cobra.Command{
		Use:   "convert [url]",
		Short: "Download a story or series and package it as one EPUB. Uses the defaults from the selected config, overwritten by CLI flags",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConvert,
	}

	// selection
	convertCmd.Flags().StringVar(&flagURL, "url", "", "story or series page URL")
	convertCmd.Flags().StringVar(&flagChapter, "chapter", "", "convert a single chapter by title or index")
	convertCmd.Flags().StringVar(&flagRange, "range", "", "convert a range of chapters by index (e.g. 2-5)")
	convertCmd.Flags().StringVar(&flagList, "list", "", "convert specific chapter indices (e.g. 1,3,5)")

	// runtime
	convertCmd.Flags().StringVar(&flagOutput, "output", "", "output folder for the EPUB file")
	convertCmd.Flags().StringArrayVar(&flagProxies, "proxy", nil, "relay endpoint template, repeatable (target URL is appended or replaces {url})")
	convertCmd.Flags().IntVar(&flagMaxAttempts, "max-attempts", 0, "fetch attempts per page across relays")
	convertCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "timeout of a single fetch attempt")
	convertCmd.Flags().DurationVar(&flagChapterDelay, "chapter-delay", downloader.DefaultChapterDelay, "pause between two chapters")
	convertCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "list the chapters that would be converted, don't download them")

	// headers/auth
	convertCmd.Flags().StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	convertCmd.Flags().StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	convertCmd.Flags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	convertCmd.Flags().BoolVar(&flagCloudflare, "cloudflare", false, "use a Cloudflare-friendly TLS transport")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if flagURL == "" && len(args) == 1 {
		flagURL = args[0]
	}

	cfg, usedPath, err := config.LoadMerged(config.Options{
		IgnoreConfig:     flagIgnoreConfig,
		Debug:            flagDebug,
		Output:           flagOutput,
		DefaultURL:       flagURL,
		DefaultChapter:   flagChapter,
		DefaultRange:     flagRange,
		DefaultList:      flagList,
		Proxies:          flagProxies,
		MaxAttempts:      flagMaxAttempts,
		RequestTimeout:   flagTimeout,
		Cookie:           flagCookie,
		CookieFile:       flagCookieFile,
		UserAgent:        flagUserAgent,
		CloudflareBypass: flagCloudflare,
	})
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("chapter-delay") {
		cfg.ChapterDelay = flagChapterDelay
	}

	logSvc := ui.NewLogger(cfg.Debug)
	logSvc.Debugf("Config file: %s\n", usedPath)
	if cfg.Debug {
		fmt.Println("Full config:")
		cfg.Print()
		fmt.Println()
	}

	if cfg.DefaultURL == "" {
		return &providers.InvalidInputError{Reason: "missing --url and no default_url in config"}
	}

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:          cfg.RequestTimeout,
		UserAgent:        util.PickUserAgent(cfg.UserAgent),
		Cookie:           cfg.Cookie,
		CookieFile:       cfg.CookieFile,
		CloudflareBypass: cfg.CloudflareBypass,
		DebugLogger:      logSvc,
	})
	if err != nil {
		return err
	}

	fetcher := fetch.New(client, proxy.NewRotator(cfg.Proxies), logSvc, fetch.Options{
		MaxAttempts:   cfg.MaxAttempts,
		Timeout:       cfg.RequestTimeout,
		Backoff:       cfg.Backoff,
		MinBodyLength: cfg.MinBodyLength,
		Headers: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
	})

	scr, err := literotica.NewScraper(fetcher, logSvc, literotica.Options{
		SeriesSelector:   cfg.SeriesSelector,
		ContentSelectors: cfg.ContentSelectors,
		MaxAttempts:      cfg.MaxAttempts,
	})
	if err != nil {
		return err
	}

	conv := downloader.New(scr, logSvc, downloader.Options{
		ChapterDelay: cfg.ChapterDelay,
		Chapter:      cfg.DefaultChapter,
		Range:        cfg.DefaultRange,
		List:         cfg.DefaultList,
		Language:     cfg.Language,
	})

	ctx, cancel := util.SetupInterruptHandler(context.Background(), cfg.Output)
	defer cancel()

	if flagDryRun {
		refs, err := conv.Discover(ctx, cfg.DefaultURL)
		if err != nil {
			return err
		}

		fmt.Printf("Dry-run: %d chapters selected.\n\n", len(refs))
		for i, ch := range refs {
			fmt.Printf("%3d) %s\n    %s\n", i+1, ch.Title, ch.URL)
		}
		return nil
	}

	logSvc.Infof("Converting %s\n", cfg.DefaultURL)

	pm := ui.NewProgressManager()
	handle := pm.Register("Chapters")
	stats := &ui.Stats{}
	start := time.Now()

	res, err := conv.Convert(ctx, cfg.DefaultURL, handle)
	pm.Close()
	if err != nil {
		logSvc.Errorf("Conversion failed\n")
		return err
	}

	path, err := util.WriteArchive(res.Data, cfg.Output, res.FileName)
	if err != nil {
		return err
	}

	stats.TotalChapters.Add(int64(res.Chapters))
	stats.TotalBytes.Add(int64(len(res.Data)))
	logSvc.Successf("Saved %q to %s\n", res.Title, path)

	fmt.Println()
	fmt.Println("Conversion Summary:")
	fmt.Printf("Title:    %s\n", res.Title)
	fmt.Printf("Chapters: %d\n", stats.TotalChapters.Load())
	fmt.Printf("EPUB:     %s\n", util.Human(stats.TotalBytes.Load()))
	fmt.Printf("Text:     %s\n", util.Human(res.Bytes))
	fmt.Printf("Time:     %s\n", time.Since(start).Round(time.Second))

	return nil
}
