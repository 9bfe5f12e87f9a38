package ingest

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"eventlog/internal/logger"
	"eventlog/internal/models"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// DefaultPattern selects .log files directly under the log directory.
const DefaultPattern = "*.log"

const maxLineSize = 1 << 20

var (
	ErrNoDir      = errors.New("log directory is not set")
	ErrBadPattern = errors.New("invalid log file pattern")

	ErrLineTooLong = errors.New("line too long")
)

// Options configure LoadDir.
type Options struct {
	Dir     string
	Pattern string // doublestar pattern relative to Dir, matched case-insensitively
	Workers int    // concurrent file readers; <= 0 means one
	Logger  *logger.Logger
}

// Report summarizes one load.
type Report struct {
	Files        int       `json:"files"`
	Records      int       `json:"records"`
	SkippedLines int       `json:"skipped_lines"`
	LoadedAt     time.Time `json:"loaded_at"`
}

type fileResult struct {
	records  []models.Record
	skipped  int
	firstErr error // first undecodable line, for diagnostics
}

// LoadDir decodes every matching file under opts.Dir. Undecodable lines are
// skipped and counted. Records come back ordered by file path, then line.
func LoadDir(ctx context.Context, opts Options) ([]models.Record, Report, error) {
	if opts.Dir == "" {
		return nil, Report{}, ErrNoDir
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	pattern = strings.ToLower(filepath.ToSlash(pattern))
	if !doublestar.ValidatePattern(pattern) {
		return nil, Report{}, fmt.Errorf("%w: %q", ErrBadPattern, opts.Pattern)
	}

	files, err := findFiles(opts.Dir, pattern)
	if err != nil {
		return nil, Report{}, err
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))
	for i, path := range files {
		g.Go(func() error {
			res, err := decodeFile(gctx, path, opts.Logger)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Report{}, err
	}

	rep := Report{Files: len(files), LoadedAt: time.Now().UTC()}
	for _, res := range results {
		rep.Records += len(res.records)
		rep.SkippedLines += res.skipped
	}
	records := make([]models.Record, 0, rep.Records)
	for _, res := range results {
		records = append(records, res.records...)
	}

	if opts.Logger != nil {
		opts.Logger.Infow("ingest_completed",
			"dir", opts.Dir, "files", rep.Files, "records", rep.Records, "skipped_lines", rep.SkippedLines)
	}
	return records, rep, nil
}

// findFiles lists regular files under dir whose slash-separated relative path
// matches pattern, sorted.
func findFiles(dir, pattern string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if ok, _ := doublestar.Match(pattern, strings.ToLower(filepath.ToSlash(rel))); ok {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	slices.Sort(out)
	return out, nil
}

func decodeFile(ctx context.Context, path string, log *logger.Logger) (fileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileResult{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	res, err := decode(ctx, f)
	if err != nil {
		return fileResult{}, fmt.Errorf("read %s: %w", path, err)
	}
	if res.skipped > 0 && log != nil {
		log.Warnw("ingest_file_skipped_lines", "file", path, "skipped", res.skipped, "first_error", res.firstErr)
	}
	return res, nil
}

// decode reads records from r. Blank lines are ignored; bad lines, including
// lines longer than maxLineSize, are counted. Only I/O failures and
// cancellation are returned as errors.
func decode(ctx context.Context, r io.Reader) (fileResult, error) {
	var res fileResult
	br := bufio.NewReaderSize(r, 64*1024)
	for n := 1; ; n++ {
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return fileResult{}, err
			}
		}
		line, tooLong, err := readLine(br)
		if err != nil && !errors.Is(err, io.EOF) {
			return fileResult{}, err
		}
		eof := err != nil
		if eof && len(line) == 0 && !tooLong {
			break
		}

		switch {
		case tooLong:
			res.skip(n, fmt.Errorf("%w: over %d bytes", ErrLineTooLong, maxLineSize))
		case strings.TrimSpace(string(line)) == "":
		default:
			rec, perr := ParseLine(string(line))
			if perr != nil {
				res.skip(n, perr)
			} else {
				res.records = append(res.records, rec)
			}
		}
		if eof {
			break
		}
	}
	return res, ctx.Err()
}

func (res *fileResult) skip(n int, err error) {
	res.skipped++
	if res.firstErr == nil {
		res.firstErr = fmt.Errorf("line %d: %w", n, err)
	}
}

// readLine returns the next line without its terminator. A line over
// maxLineSize is drained up to the next newline and returned empty with
// tooLong set, so decoding resumes on the following line.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		var chunk []byte
		chunk, err = br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxLineSize+len("\r\n") {
				line, tooLong = nil, true
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		line = bytes.TrimSuffix(line, []byte("\n"))
		line = bytes.TrimSuffix(line, []byte("\r"))
		return line, tooLong, err
	}
}
