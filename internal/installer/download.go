package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/HenriqueAssisDev/TCC-II/internal/apperr"
	"github.com/HenriqueAssisDev/TCC-II/internal/catalog"
)

var errEmptyBody = errors.New("empty response body")

// DownloadError reports that an installer could not be fetched.
type DownloadError struct {
	URL string
	// StatusCode is 0 when no response was received.
	StatusCode int
	// Local marks failures writing the installers folder; retrying the
	// transfer cannot fix them.
	Local bool
	Err   error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

func (e *DownloadError) Is(target error) bool { return target == apperr.ErrDownloadFailed }

// retryable reports whether another attempt could succeed.
func (e *DownloadError) retryable() bool {
	switch {
	case e.Local:
		return false
	case errors.Is(e.Err, context.Canceled), errors.Is(e.Err, errEmptyBody):
		return false
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return false
	}
	return true
}

func (o *Orchestrator) downloadWithRetry(ctx context.Context, p catalog.Program, progress func(written, total int64)) (string, error) {
	var lastErr error
	for attempt := 0; attempt < o.attempts; attempt++ {
		if attempt > 0 {
			o.logger.Warn("retrying download", "program", p.Key, "attempt", attempt+1, "error", lastErr)
			select {
			case <-ctx.Done():
				return "", &DownloadError{URL: p.DownloadURL, Err: ctx.Err()}
			case <-time.After(o.backoff << uint(attempt-1)):
			}
		}
		path, err := o.download(ctx, p, progress)
		if err == nil {
			return path, nil
		}
		lastErr = err
		var de *DownloadError
		if errors.As(err, &de) && !de.retryable() {
			break
		}
	}
	return "", lastErr
}

// download streams the body into a hidden temp file next to the final name
// and renames it into place only once the transfer is complete.
func (o *Orchestrator) download(ctx context.Context, p catalog.Program, progress func(written, total int64)) (string, error) {
	fail := func(status int, err error) (string, error) {
		return "", &DownloadError{URL: p.DownloadURL, StatusCode: status, Err: err}
	}
	local := func(err error) (string, error) {
		return "", &DownloadError{URL: p.DownloadURL, Local: true, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.DownloadURL, nil)
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("User-Agent", o.userAgent)

	resp, err := o.client.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, fmt.Errorf("server returned %s", resp.Status))
	}
	if resp.ContentLength == 0 {
		return fail(resp.StatusCode, errEmptyBody)
	}

	if err := os.MkdirAll(o.dir, 0755); err != nil {
		return local(err)
	}
	tmp, err := os.CreateTemp(o.dir, "."+p.InstallerFileName+"-*.part")
	if err != nil {
		return local(err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := &progressWriter{total: resp.ContentLength, report: progress}
	n, err := io.Copy(io.MultiWriter(tmp, w), resp.Body)
	if err != nil {
		return fail(resp.StatusCode, err)
	}
	if n == 0 {
		return fail(resp.StatusCode, errEmptyBody)
	}
	w.flush()
	if err := tmp.Close(); err != nil {
		return local(err)
	}

	final := filepath.Join(o.dir, p.InstallerFileName)
	if err := os.Rename(tmp.Name(), final); err != nil {
		return local(fmt.Errorf("replace %s: %w", final, err))
	}
	committed = true
	// Best effort; vendor installers are meant to be run directly.
	os.Chmod(final, 0755)
	return final, nil
}

// progressWriter reports every reportEvery bytes.
type progressWriter struct {
	written  int64
	reported int64
	total    int64
	report   func(written, total int64)
}

const reportEvery = 256 << 10

func (w *progressWriter) Write(b []byte) (int, error) {
	w.written += int64(len(b))
	if w.written-w.reported >= reportEvery {
		w.flush()
	}
	return len(b), nil
}

func (w *progressWriter) flush() {
	if w.report != nil && w.written != w.reported {
		w.reported = w.written
		w.report(w.written, w.total)
	}
}
