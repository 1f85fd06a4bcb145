package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

type logOptions struct {
	level   *slog.LevelVar
	file    string
	journal bool
}

// newLogger fans records out to stderr and, when asked for, a JSON log
// file and the systemd journal. The returned function closes the log file.
func newLogger(stderr io.Writer, opts logOptions) (*slog.Logger, func() error, error) {
	var handlers []slog.Handler
	closeFn := func() error { return nil }

	terminalHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: opts.level,
	})
	handlers = append(handlers, terminalHandler)

	if opts.file != "" {
		f, err := os.OpenFile(opts.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closeFn = f.Close
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: opts.level,
		}))
	}

	if opts.journal {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
			record.Add("error", err)
			_ = terminalHandler.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeFn, nil
}

// toJournalKey maps an attribute key to the journal field charset.
func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
}
