// Package filesaver writes downloaded documents to disk.
package filesaver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Dir saves every download into one directory. An existing file is never
// overwritten: a numeric suffix is added instead, like a browser does.
type Dir struct {
	root string

	// Saved holds the path of the last file written.
	Saved string
}

func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) Save(ctx context.Context, filename, _ string, body io.Reader) error {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return err
	}

	name := sanitize(filename)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	var out *os.File
	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		f, err := os.OpenFile(filepath.Join(d.root, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return err
		}
		out = f
		break
	}

	if _, err := io.Copy(out, readerWithContext(ctx, body)); err != nil {
		out.Close()
		os.Remove(out.Name())
		return err
	}
	d.Saved = out.Name()
	return out.Close()
}

// sanitize keeps only the base name the server suggested.
func sanitize(name string) string {
	name = filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, `\`, "/")))
	if name == "/" || name == "." || name == "" {
		return "download"
	}
	return name
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
