package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/errors"

	"github.com/bobg/direncode/config"
	"github.com/bobg/direncode/dsync"
	"github.com/bobg/direncode/encoder"
	"github.com/bobg/direncode/encoder/hb"
	"github.com/bobg/direncode/encoder/logging"
	"github.com/bobg/direncode/journal"
	_ "github.com/bobg/direncode/journal/pg"
	_ "github.com/bobg/direncode/journal/sqlite3"
	"github.com/bobg/direncode/prefs"
)

func main() {
	var (
		watch         bool
		configFile    = flag.String("config", "", "path to config file (default: user config dir)")
		prefsFile     = flag.String("prefs", "", "path to preference file (default: from config)")
		encoderPath   = flag.String("encoder", "", "path to encoder binary")
		suppressRetry = flag.Bool("suppress-retry", false, "do not retry failed encodes")
		interval      = flag.Duration("interval", 0, "watch polling interval (default: from config)")
		journalType   = flag.String("journal", "", "journal type (sqlite3, pg)")
		journalConn   = flag.String("journal-conn", "", "journal connection string")
	)
	flag.BoolVar(&watch, "w", false, "keep watching for changes")
	flag.BoolVar(&watch, "watch", false, "keep watching for changes")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if *prefsFile != "" {
		cfg.PrefsFile = *prefsFile
	}
	if *suppressRetry {
		cfg.SuppressRetry = true
	}
	if *interval > 0 {
		cfg.Watch.Interval.Duration = *interval
	}
	if *journalType != "" {
		cfg.Journal = map[string]interface{}{"type": *journalType}
	}
	if *journalConn != "" {
		if len(cfg.Journal) == 0 {
			log.Fatal("-journal-conn requires a journal type")
		}
		cfg.Journal["conn"] = *journalConn
	}

	src, dst, err := roots(flag.Arg(0), flag.Arg(1))
	if err != nil {
		log.Fatal(err)
	}

	p, err := prefs.Load(cfg.PrefsFile)
	if err != nil {
		log.Fatal(err)
	}

	path, err := resolveEncoder(*encoderPath, cfg, p)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("got signal %s", sig)
		cancel()
	}()

	err = run(ctx, cfg, path, src, dst, watch)
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [flags] [-w|--watch] SOURCE_DIR DEST_DIR\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

func run(ctx context.Context, cfg *config.Config, encoderPath, src, dst string, watch bool) error {
	unlock, err := dsync.Lock(dst)
	if err != nil {
		return errors.Wrapf(err, "locking %s", dst)
	}
	defer func() {
		if err := unlock(); err != nil {
			log.Printf("ERROR unlocking %s: %s", dst, err)
		}
	}()

	var enc encoder.Encoder = logging.New(hb.New(encoderPath, *cfg.Encoder.Extra))

	if typ := cfg.JournalType(); typ != "" {
		j, err := journal.Create(ctx, typ, cfg.Journal)
		if err != nil {
			return errors.Wrapf(err, "creating %s-type journal", typ)
		}
		if c, ok := j.(io.Closer); ok {
			defer c.Close()
		}
		enc = journal.NewRecorder(enc, j)
	}

	t := &dsync.Tree{
		Src:           src,
		Dst:           dst,
		Encoder:       enc,
		SuppressRetry: cfg.SuppressRetry,
	}

	if watch {
		return t.Watch(ctx, cfg.Watch.Interval.Duration)
	}
	_, err = t.Sync(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path, true)
	}
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(path, false)
}

// roots makes src and dst absolute,
// so the symlinks created in dst point to the right place,
// and checks that they can be synchronized.
func roots(src, dst string) (string, string, error) {
	src, err := filepath.Abs(src)
	if err != nil {
		return "", "", errors.Wrapf(err, "making %s absolute", src)
	}
	dst, err = filepath.Abs(dst)
	if err != nil {
		return "", "", errors.Wrapf(err, "making %s absolute", dst)
	}

	for _, dir := range []string{src, dst} {
		info, err := os.Stat(dir)
		if err != nil {
			return "", "", errors.Wrapf(err, "statting %s", dir)
		}
		if !info.IsDir() {
			return "", "", fmt.Errorf("%s is not a directory", dir)
		}
	}

	rel, err := filepath.Rel(src, dst)
	if err == nil && (rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))) {
		return "", "", fmt.Errorf("destination %s is inside source %s", dst, src)
	}

	return src, dst, nil
}

func resolveEncoder(flagPath string, cfg *config.Config, p *prefs.Store) (string, error) {
	path, err := config.ResolveEncoder(flagPath, cfg, p, nil)
	if !errors.Is(err, config.ErrEncoderUnresolved) || !isTerminal(os.Stdin) {
		return path, err
	}

	fmt.Fprint(os.Stderr, "Path to HandBrakeCLI: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.Wrap(err, "reading encoder path")
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", config.ErrEncoderUnresolved
	}
	return config.ResolveEncoder(line, cfg, p, nil)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
