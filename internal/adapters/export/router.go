// Package export delivers CSV content to the destination named by a URI.
package export

import (
	"bufio"
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/unitstat/internal/core/domain"
	"go.trai.ch/unitstat/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	stdoutURI    = "-"
	stdoutScheme = "stdout"
	fileScheme   = "file"
)

var _ ports.Exporter = (*Router)(nil)

// Router picks a destination from the URI scheme.
//
// Supported forms are "-" and "stdout:" for the configured writer, "file:///abs/path" and
// plain filesystem paths. Files are replaced atomically.
type Router struct {
	mu     sync.Mutex
	stdout io.Writer
	tracer ports.Tracer
}

// NewRouter creates a Router writing "-" to stdout.
func NewRouter(stdout io.Writer, tracer ports.Tracer) *Router {
	return &Router{stdout: stdout, tracer: tracer}
}

// SetOutput changes the writer used for "-" and "stdout:".
func (r *Router) SetOutput(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stdout = w
}

// Export implements ports.Exporter.
func (r *Router) Export(ctx context.Context, uri, header string, lines []string) (err error) {
	ctx, span := r.tracer.Start(ctx, "usage.export", ports.WithAttribute("uri", uri))
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()
	span.SetAttribute("records", len(lines))

	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := resolve(uri)
	if err != nil {
		return err
	}

	if target == "" {
		r.mu.Lock()
		defer r.mu.Unlock()
		if err := writeLines(r.stdout, header, lines); err != nil {
			return zerr.With(domain.Cause(domain.ErrExportFailed, err), "uri", uri)
		}
		return nil
	}

	if err := writeFileAtomic(target, header, lines); err != nil {
		return zerr.With(domain.Cause(domain.ErrExportFailed, err), "path", target)
	}
	return nil
}

// resolve returns the file path for uri, or "" for the stdout destination.
func resolve(uri string) (string, error) {
	if uri == stdoutURI || uri == stdoutScheme+":" {
		return "", nil
	}
	if uri == "" {
		return "", domain.Tag(domain.ErrUnsupportedExportURI, "uri", uri)
	}

	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || isWindowsDrive(u.Scheme) {
		return filepath.Clean(uri), nil
	}

	switch u.Scheme {
	case fileScheme:
		if u.Host != "" && u.Host != "localhost" {
			return "", domain.Tag(domain.ErrUnsupportedExportURI, "uri", uri)
		}
		if u.Path == "" {
			return "", domain.Tag(domain.ErrUnsupportedExportURI, "uri", uri)
		}
		return filepath.FromSlash(u.Path), nil
	case stdoutScheme:
		return "", nil
	default:
		return "", zerr.With(domain.Tag(domain.ErrUnsupportedExportURI, "uri", uri), "scheme", u.Scheme)
	}
}

func isWindowsDrive(scheme string) bool {
	return len(scheme) == 1
}

func writeLines(w io.Writer, header string, lines []string) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(header + "\n"); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// writeFileAtomic writes into a temporary file next to path and renames it into place.
func writeFileAtomic(path, header string, lines []string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := writeLines(tmp, header, lines); err != nil {
		return err
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Describe returns a short human readable destination for uri.
func Describe(uri string) string {
	target, err := resolve(uri)
	switch {
	case err != nil:
		return uri
	case target == "":
		return "stdout"
	default:
		return target
	}
}
