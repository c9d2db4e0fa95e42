// Package ingestion provides source adapters that read operational text
// from files or stdin and hand structured entries to the agents.
package ingestion

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/nxadm/tail"
	"go.uber.org/zap"

	agenterrors "opsaix/internal/errors"
	"opsaix/internal/models"
	"opsaix/internal/parser"
)

// Source is a stream of parsed log entries.
type Source interface {
	// Read parses entries and sends them to the channel. It returns when
	// the context is cancelled or the source is exhausted.
	Read(ctx context.Context, entries chan<- *models.LogEntry) error

	// Name returns a human-readable name for this source.
	Name() string

	// Close releases any resources held by the source.
	Close() error
}

// FileSource reads entries from a file, either as a one-shot batch or
// by following the file for new lines.
type FileSource struct {
	path    string
	tail    bool
	parsers *parser.Registry
	logger  *zap.Logger
}

// NewFileSource creates a file source.
func NewFileSource(path string, tailMode bool, parsers *parser.Registry, logger *zap.Logger) *FileSource {
	if parsers == nil {
		parsers = parser.NewRegistry()
	}
	return &FileSource{
		path:    path,
		tail:    tailMode,
		parsers: parsers,
		logger:  logger,
	}
}

// Name returns the source name.
func (f *FileSource) Name() string {
	return fmt.Sprintf("file:%s", f.path)
}

// Read reads log entries from the file.
func (f *FileSource) Read(ctx context.Context, entries chan<- *models.LogEntry) error {
	if f.tail {
		return f.readTail(ctx, entries)
	}
	return f.readBatch(ctx, entries)
}

func (f *FileSource) readBatch(ctx context.Context, entries chan<- *models.LogEntry) error {
	file, err := os.Open(f.path)
	if err != nil {
		return f.openError(err)
	}
	defer file.Close()

	if err := scanLines(ctx, file, f.path, f.parsers, entries); err != nil {
		if ctx.Err() != nil {
			return err
		}
		return agenterrors.NewIngestReadError(f.Name(), err)
	}
	return nil
}

func (f *FileSource) readTail(ctx context.Context, entries chan<- *models.LogEntry) error {
	t, err := tail.TailFile(f.path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return f.openError(err)
	}
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				f.logger.Warn("Error reading line", zap.Error(line.Err))
				continue
			}
			if line.Text == "" {
				continue
			}
			entries <- f.parsers.Parse(line.Text, f.path)
		}
	}
}

func (f *FileSource) openError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return agenterrors.NewIngestFileNotFoundError(f.path)
	case errors.Is(err, fs.ErrPermission):
		return agenterrors.NewIngestPermissionDeniedError(f.path)
	default:
		return agenterrors.NewIngestReadError(f.Name(), err)
	}
}

// Close releases resources.
func (f *FileSource) Close() error {
	return nil
}

// StdinSource reads entries from standard input.
type StdinSource struct {
	reader  io.Reader
	parsers *parser.Registry
	logger  *zap.Logger
}

// NewStdinSource creates a stdin source.
func NewStdinSource(parsers *parser.Registry, logger *zap.Logger) *StdinSource {
	if parsers == nil {
		parsers = parser.NewRegistry()
	}
	return &StdinSource{
		reader:  os.Stdin,
		parsers: parsers,
		logger:  logger,
	}
}

// Name returns the source name.
func (s *StdinSource) Name() string {
	return "stdin"
}

// Read reads log entries from stdin until EOF.
func (s *StdinSource) Read(ctx context.Context, entries chan<- *models.LogEntry) error {
	if err := scanLines(ctx, s.reader, "stdin", s.parsers, entries); err != nil {
		if ctx.Err() != nil {
			return err
		}
		return agenterrors.NewIngestReadError(s.Name(), err)
	}
	return nil
}

// Close releases resources.
func (s *StdinSource) Close() error {
	return nil
}

// scanLines parses each non-empty line and sends the entry. The scanner
// buffer is raised to cope with long application log lines.
func scanLines(ctx context.Context, r io.Reader, source string, parsers *parser.Registry, entries chan<- *models.LogEntry) error {
	scanner := bufio.NewScanner(r)
	const maxCapacity = 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Text()
		if line == "" {
			continue
		}
		entries <- parsers.Parse(line, source)
	}
	return scanner.Err()
}

// Collect drains a source into a slice. Intended for batch mode where
// the whole input is analyzed at once.
func Collect(ctx context.Context, src Source) ([]*models.LogEntry, error) {
	entries := make(chan *models.LogEntry, 64)
	errCh := make(chan error, 1)

	go func() {
		errCh <- src.Read(ctx, entries)
		close(entries)
	}()

	var out []*models.LogEntry
	for entry := range entries {
		out = append(out, entry)
	}
	if err := <-errCh; err != nil {
		return out, err
	}
	return out, nil
}
