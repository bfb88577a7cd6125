package watermark

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planhaus/planhaus/internal/pkg/storage"
)

type fakeStamper struct {
	calls int
	fail  bool
}

func (f *fakeStamper) Stamp(src io.Reader, dst io.Writer, text string) error {
	f.calls++
	if f.fail {
		return errors.New("stamp failed")
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	_, err = dst.Write(append(data, []byte("|"+text)...))
	return err
}

func TestResolveGeneratesDerivativeOnce(t *testing.T) {
	root := t.TempDir()
	store := storage.NewLocal(root)
	require.NoError(t, store.Save("free/a.pdf", strings.NewReader("original")))

	stamper := &fakeStamper{}
	svc := NewService(store, stamper, "PlanHaus preview")

	name := svc.Resolve("free/a.pdf", "free/a_watermarked.pdf")
	assert.Equal(t, "free/a_watermarked.pdf", name)
	assert.Equal(t, 1, stamper.calls)

	f, err := store.Open(name)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	f.Close()
	assert.Equal(t, "original|PlanHaus preview", string(data))

	// second resolve serves the cached copy
	name = svc.Resolve("free/a.pdf", "free/a_watermarked.pdf")
	assert.Equal(t, "free/a_watermarked.pdf", name)
	assert.Equal(t, 1, stamper.calls)
}

func TestResolveRegeneratesWhenSourceNewer(t *testing.T) {
	root := t.TempDir()
	store := storage.NewLocal(root)
	require.NoError(t, store.Save("free/a.pdf", strings.NewReader("v1")))

	stamper := &fakeStamper{}
	svc := NewService(store, stamper, "mark")
	svc.Resolve("free/a.pdf", "free/a_watermarked.pdf")
	require.Equal(t, 1, stamper.calls)

	// replace the source and bump its mtime past the derivative's
	require.NoError(t, store.Save("free/a.pdf", strings.NewReader("v2")))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(root, "free", "a.pdf"), future, future))

	name := svc.Resolve("free/a.pdf", "free/a_watermarked.pdf")
	assert.Equal(t, "free/a_watermarked.pdf", name)
	assert.Equal(t, 2, stamper.calls)
}

func TestResolveFallsBackToOriginal(t *testing.T) {
	store := storage.NewLocal(t.TempDir())
	require.NoError(t, store.Save("free/a.pdf", strings.NewReader("original")))

	// stamping failure serves the original
	svc := NewService(store, &fakeStamper{fail: true}, "mark")
	assert.Equal(t, "free/a.pdf", svc.Resolve("free/a.pdf", "free/a_watermarked.pdf"))

	// no stamper configured, original as well
	svc = NewService(store, nil, "mark")
	assert.Equal(t, "free/a.pdf", svc.Resolve("free/a.pdf", "free/a_watermarked.pdf"))
}
