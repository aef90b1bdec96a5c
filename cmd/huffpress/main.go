// Command huffpress compresses text with a Huffman code built from the text
// itself, and decompresses the result.
//
// The default is to compress stdin to stdout.  Text is split into tokens,
// either characters or space-terminated words; decompression must use the
// same token type as compression.
//
// Usage:
//
//	huffpress [-mode compress|decompress] [-tokens chars|words] [-in PATH] [-out PATH]
//	          [-workers N] [-stats] [-v]
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/chronos-tachyon/huffman/v2"
	"github.com/chronos-tachyon/huffman/v2/payload"
	"github.com/chronos-tachyon/huffman/v2/tokenize"
)

const (
	modeCompress   = "compress"
	modeDecompress = "decompress"

	tokensChars = "chars"
	tokensWords = "words"
)

type config struct {
	mode    string
	tokens  string
	in      string
	out     string
	workers int
	stats   bool
	verbose bool
}

func (cfg config) validate() error {
	switch cfg.mode {
	case modeCompress, modeDecompress:
	default:
		return fmt.Errorf("-mode must be %q or %q, got %q", modeCompress, modeDecompress, cfg.mode)
	}
	switch cfg.tokens {
	case tokensChars, tokensWords:
	default:
		return fmt.Errorf("-tokens must be %q or %q, got %q", tokensChars, tokensWords, cfg.tokens)
	}
	if cfg.workers < 1 {
		return fmt.Errorf("-workers must be at least 1, got %d", cfg.workers)
	}
	return nil
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("huffpress", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.mode, "mode", modeCompress, "compress or decompress")
	fs.StringVar(&cfg.tokens, "tokens", tokensChars, "token type: chars or words")
	fs.StringVar(&cfg.in, "in", "", "input file (default stdin)")
	fs.StringVar(&cfg.out, "out", "", "output file (default stdout)")
	fs.IntVar(&cfg.workers, "workers", runtime.GOMAXPROCS(0), "number of segments to code in parallel")
	fs.BoolVar(&cfg.stats, "stats", false, "print sizes and compression ratio to stderr")
	fs.BoolVar(&cfg.verbose, "v", false, "log codec events")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() != 0 {
		return cfg, fmt.Errorf("unexpected arguments: %q", fs.Args())
	}
	return cfg, cfg.validate()
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err != nil {
		logger.Error("invalid flags", "err", err)
		return 1
	}

	if err := runWithConfig(ctx, cfg, logger, stdin, stdout, stderr); err != nil {
		logger.Error("huffpress failed", "mode", cfg.mode, "err", err)
		return 1
	}
	return 0
}

func runWithConfig(ctx context.Context, cfg config, logger *slog.Logger, stdin io.Reader, stdout, stderr io.Writer) error {
	// All input is read before the output is opened, so -in and -out may
	// name the same file.
	input, err := readInput(cfg.in, stdin)
	if err != nil {
		return err
	}

	opts := []huffman.Option{
		huffman.WithWorkers(cfg.workers),
		huffman.WithObserver(eventLogger(logger)),
	}

	var output bytes.Buffer
	r := bytes.NewReader(input)
	switch {
	case cfg.mode == modeCompress && cfg.tokens == tokensChars:
		err = compress(ctx, r, &output, tokenize.CheckUTF8, tokenize.Chars, payload.Runes{}, opts)
	case cfg.mode == modeCompress:
		err = compress(ctx, r, &output, nil, tokenize.Words, payload.Strings{}, opts)
	case cfg.tokens == tokensChars:
		err = decompress(ctx, r, &output, payload.Runes{}, tokenize.JoinRunes, opts)
	default:
		err = decompress(ctx, r, &output, payload.Strings{}, tokenize.JoinWords, opts)
	}
	if err != nil {
		return err
	}

	if err := writeOutput(cfg.out, stdout, output.Bytes()); err != nil {
		return err
	}

	logger.Debug("done", "mode", cfg.mode, "tokens", cfg.tokens, "in", len(input), "out", output.Len())
	if cfg.stats {
		printStats(stderr, cfg.mode, int64(len(input)), int64(output.Len()))
	}
	return nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// compress runs check, if non-nil, on the input lines before coding them.
func compress[T comparable](ctx context.Context, r io.Reader, w io.Writer, check func([]string) error, split func(string) []T, tc payload.TokenCodec[T], opts []huffman.Option) error {
	lines, err := tokenize.ReadLines(r)
	if err != nil {
		return err
	}
	if check != nil {
		if err := check(lines); err != nil {
			return err
		}
	}
	codec, err := huffman.NewCodec(tokenize.Count(lines, split), opts...)
	if err != nil {
		return err
	}
	p, err := codec.Compress(ctx, tokenize.Segments(lines, split))
	if err != nil {
		return err
	}
	return payload.Marshal(w, p, tc)
}

func decompress[T comparable](ctx context.Context, r io.Reader, w io.Writer, tc payload.TokenCodec[T], join func([][]T) string, opts []huffman.Option) error {
	p, table, err := payload.Unmarshal(r, tc)
	if err != nil {
		return err
	}
	segments, err := huffman.DecompressWithTable(ctx, p, table, opts...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, join(segments))
	return err
}

func eventLogger(logger *slog.Logger) huffman.Observer {
	return huffman.ObserverFunc(func(ev huffman.Event) {
		logger.Debug("codec event",
			"kind", ev.Kind,
			"tokens", ev.Tokens,
			"internals", ev.Internals,
			"bits", ev.Bits,
			"segments", ev.Segments,
			"minSize", ev.MinSize,
			"maxSize", ev.MaxSize)
	})
}

func printStats(w io.Writer, mode string, in, out int64) {
	p := message.NewPrinter(language.English) // For commas between thousands
	p.Fprintf(w, "%s: %d bytes in, %d bytes out\n", mode, in, out)
	if mode == modeCompress && in != 0 {
		p.Fprintf(w, "compression ratio: %.1f%%\n", 100*float64(out)/float64(in))
	}
}
