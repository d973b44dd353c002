package supervisor

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"deskhost/internal/logging"
)

// Log files written into the user data directory.
const (
	StdoutLogName = "backend-out.log"
	StderrLogName = "backend-err.log"

	chunkSize = 8 * 1024
)

// Drain copies r into path in fixed-size chunks until EOF or a read error. The
// file is created (and truncated) on the first chunk, so a silent stream leaves
// no file behind. Write failures are logged and the stream keeps draining so
// the child never blocks on a full pipe.
func Drain(r io.Reader, path string) error {
	var (
		f       *os.File
		openErr error
	)
	defer func() {
		if f != nil {
			_ = f.Close()
		}
	}()

	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 && openErr == nil {
			if f == nil {
				f, openErr = os.Create(path)
				if openErr != nil {
					logging.Warn().Err(openErr).Str("path", path).Msg("open backend log failed")
				}
			}
			if f != nil {
				if _, werr := f.Write(buf[:n]); werr != nil {
					logging.Warn().Err(werr).Str("path", path).Msg("write backend log failed")
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

// Attach starts one drain goroutine per captured stream of p, writing into dir.
// It returns a channel closed once both drains finish. Processes without
// captured output get an already closed channel.
func Attach(p *Process, dir string) <-chan struct{} {
	done := make(chan struct{})
	if p == nil || (p.Stdout == nil && p.Stderr == nil) {
		close(done)
		return done
	}

	streams := []struct {
		r    io.ReadCloser
		name string
	}{
		{p.Stdout, StdoutLogName},
		{p.Stderr, StderrLogName},
	}

	pending := make(chan struct{}, len(streams))
	for _, s := range streams {
		if s.r == nil {
			pending <- struct{}{}
			continue
		}
		go func(r io.ReadCloser, path string) {
			defer func() { pending <- struct{}{} }()
			defer r.Close()
			if err := Drain(r, path); err != nil {
				logging.Debug().Err(err).Str("path", path).Msg("backend output drain stopped")
			}
		}(s.r, filepath.Join(dir, s.name))
	}

	go func() {
		for range streams {
			<-pending
		}
		close(done)
	}()
	return done
}
