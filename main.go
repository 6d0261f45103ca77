package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/whisper-darkly/stream-scout/browser"
	"github.com/whisper-darkly/stream-scout/catalog"
	"github.com/whisper-darkly/stream-scout/logger"
	"github.com/whisper-darkly/stream-scout/pipeline"
	"github.com/whisper-darkly/stream-scout/source"
	"github.com/whisper-darkly/stream-scout/units"
)

// Set via ldflags at build time: -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// CLI flags: --long-name / -s shorthand
	searchTerm := flag.StringP("search", "S", "", "Search the catalog by title and pick a match")
	all := flag.Bool("all", false, "Process every catalog entry (batch mode)")
	random := flag.BoolP("random", "r", false, "Randomize batch order")

	play := flag.Bool("play", false, "Verify candidates in VLC interactively")
	auto := flag.Bool("auto", false, "Verify candidates in VLC automatically (timed checkpoints)")
	writeManifest := flag.Bool("manifest", false, "Verify and append an entry to the channel manifest")
	saveLink := flag.Bool("save-link", false, "Verify and write the working link to <title>.txt")

	vidhideHD := flag.Bool("vidhide-hd", false, "Only try the vidhide HD source")
	filemoonHD := flag.Bool("filemoon-hd", false, "Only try the filemoon HD source")
	voesxHD := flag.Bool("voesx-hd", false, "Only try the voesx HD source")
	vidhideCAM := flag.Bool("vidhide-cam", false, "Only try the vidhide CAM source")
	filemoonCAM := flag.Bool("filemoon-cam", false, "Only try the filemoon CAM source")
	voesxCAM := flag.Bool("voesx-cam", false, "Only try the voesx CAM source")

	catalogPath := flag.String("catalog", envOrDefault("SCOUT_CATALOG", "movie_links.txt"), "Catalog file (title | url per line)")
	manifestPath := flag.String("manifest-file", envOrDefault("SCOUT_MANIFEST", "RokuChannelList.xml"), "Channel manifest output file")
	historyPath := flag.String("history-file", envOrDefault("SCOUT_HISTORY", "MainHistory.txt"), "Processed-titles history file")

	headless := flag.Bool("headless", envOrDefault("SCOUT_HEADLESS", "true") != "false", "Run the browser headless")
	logFile := flag.String("log-file", envOrDefault("SCOUT_LOG_FILE", "scraper.log"), "Log file path (empty = console only)")
	logLevel := flag.String("log-level", envOrDefault("SCOUT_LOG_LEVEL", "info"), "Log level: debug, info, warn, error, fatal")

	pageTimeout := flag.String("page-timeout", "", "Page-load ceiling (default 00:02:00, e.g. 120, 2m)")
	optionTimeout := flag.String("option-timeout", "", "Per-source-option element wait (default 00:00:20, e.g. 20, 20s)")

	crawl := flag.Int("crawl", 0, "Crawl N catalog pages into --catalog, then exit")
	baseURL := flag.String("base-url", envOrDefault("SCOUT_BASE_URL", "https://www.cuevana3.eu"), "Catalog site base URL (crawl mode)")

	showVersion := flag.BoolP("version", "V", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "stream-scout %s\n\n", version)
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [url]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Extract and verify stream URLs from movie pages.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nDurations: hh:mm:ss | 2m30s | plain seconds.\n")
		fmt.Fprintf(os.Stderr, "Without --play/--auto/--manifest/--save-link, harvested links are printed unverified.\n")
	}

	if len(os.Args) == 1 {
		flag.Usage()
		os.Exit(0)
	}

	flag.Parse()

	if *showVersion {
		fmt.Println("stream-scout", version)
		os.Exit(0)
	}

	// Nothing to do: print usage before the log file or any other side
	// effect exists.
	if !hasWork(*all, *crawl, *searchTerm, flag.NArg()) {
		flag.Usage()
		os.Exit(0)
	}

	// Create logger early so all validation messages use it
	log := logger.New(logger.ParseLevel(*logLevel))
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal("open log file: %v", err)
		}
		defer f.Close()
		log.SetFile(f)
	}

	bcfg := browser.DefaultConfig(log)
	bcfg.Headless = *headless
	bcfg.PageTimeout = durationVal(*pageTimeout, "SCOUT_PAGE_TIMEOUT", 120*time.Second, log)

	if *crawl > 0 {
		crawler := catalog.NewCrawler(*baseURL, *crawl, *catalogPath, bcfg, log)
		if err := crawler.Run(); err != nil {
			log.Fatal("crawl: %v", err)
		}
		return
	}

	cfg := pipeline.Config{
		Browser: bcfg,
		Source: source.Config{
			VidhideHD:   *vidhideHD,
			FilemoonHD:  *filemoonHD,
			VoesxHD:     *voesxHD,
			VidhideCAM:  *vidhideCAM,
			FilemoonCAM: *filemoonCAM,
			VoesxCAM:    *voesxCAM,
		},
		Play:          *play,
		Auto:          *auto,
		WriteManifest: *writeManifest,
		SaveLink:      *saveLink,
		ManifestPath:  *manifestPath,
		HistoryPath:   *historyPath,
		OptionTimeout: durationVal(*optionTimeout, "SCOUT_OPTION_TIMEOUT", 20*time.Second, log),
		Log:           log,
	}
	p := pipeline.New(cfg)

	switch {
	case *all:
		targets, err := catalog.Load(*catalogPath)
		if err != nil {
			log.Fatal("load catalog: %v", err)
		}
		if len(targets) == 0 {
			log.Fatal("catalog %s is empty; run --crawl first", *catalogPath)
		}
		if err := p.RunBatch(targets, *random); err != nil {
			log.Fatal("%v", err)
		}

	case *searchTerm != "":
		targets, err := catalog.Load(*catalogPath)
		if err != nil {
			log.Fatal("load catalog: %v", err)
		}
		t, ok := pickTarget(catalog.Search(targets, *searchTerm), os.Stdin, os.Stdout)
		if !ok {
			log.Fatal("no catalog entry matched %q", *searchTerm)
		}
		runSingle(p, t, log)

	default:
		url := flag.Arg(0)
		runSingle(p, catalog.Target{Title: titleFromURL(url), URL: url}, log)
	}
}

// hasWork reports whether the invocation names anything to do: a batch, a
// crawl, a search term, or a positional target URL.
func hasWork(all bool, crawl int, searchTerm string, nargs int) bool {
	return all || crawl > 0 || searchTerm != "" || nargs > 0
}

func runSingle(p *pipeline.Pipeline, t catalog.Target, log *logger.Logger) {
	out, err := p.RunTarget(t)

	// Whatever the run discovered survives a verification failure: the
	// details and harvested links are printed even when err is set.
	printSummary(os.Stdout, out)

	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

// printSummary writes the scraped details and the run's link outcome.
func printSummary(w io.Writer, out *pipeline.Outcome) {
	if out == nil {
		return
	}
	if out.Details != nil {
		fmt.Fprintf(w, "\nTitle: %s\n", out.Details.Title)
		if out.Details.Info != "" {
			fmt.Fprintf(w, "Info:  %s\n", out.Details.Info)
		}
		if len(out.Details.Genres) > 0 {
			fmt.Fprintf(w, "Genres: %s\n", strings.Join(out.Details.Genres, ", "))
		}
	}
	if out.Result.Verified {
		fmt.Fprintf(w, "\nVerified stream:\n  %s\n", out.Result.Link)
		return
	}
	if len(out.Links) > 0 {
		fmt.Fprintf(w, "\nHarvested links (unverified):\n")
		for _, l := range out.Links {
			fmt.Fprintf(w, "  %s\n", l)
		}
	}
}

// pickTarget resolves a search result set: zero matches fail, one match is
// taken directly, several prompt for a number.
func pickTarget(matches []catalog.Target, in io.Reader, outw io.Writer) (catalog.Target, bool) {
	switch len(matches) {
	case 0:
		return catalog.Target{}, false
	case 1:
		return matches[0], true
	}

	fmt.Fprintf(outw, "Multiple matches:\n")
	for i, m := range matches {
		fmt.Fprintf(outw, "  %d) %s\n", i+1, m.Title)
	}
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintf(outw, "Pick [1-%d, q to quit]: ", len(matches))
		if !sc.Scan() {
			return catalog.Target{}, false
		}
		answer := strings.TrimSpace(sc.Text())
		if strings.EqualFold(answer, "q") {
			return catalog.Target{}, false
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(matches) {
			return matches[n-1], true
		}
	}
}

// titleFromURL derives a display title from a page URL's last path segment.
func titleFromURL(url string) string {
	s := strings.TrimRight(url, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.ReplaceAll(s, "-", " ")
	if s == "" {
		return url
	}
	return s
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// durationVal resolves a time.Duration from: CLI string (if non-empty) → ENV → default.
// Uses units.ParseDuration for flexible format support (hh:mm:ss, Go-style, plain seconds).
func durationVal(cliVal, envKey string, def time.Duration, log *logger.Logger) time.Duration {
	if cliVal != "" {
		d, err := units.ParseDuration(cliVal)
		if err != nil {
			log.Fatal("invalid duration for %s: %v", envKey, err)
		}
		return d
	}
	if v := os.Getenv(envKey); v != "" {
		d, err := units.ParseDuration(v)
		if err != nil {
			log.Fatal("invalid duration in %s: %v", envKey, err)
		}
		return d
	}
	return def
}
