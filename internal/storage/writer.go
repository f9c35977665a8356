package storage

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"

	"github.com/erazor-de/xtag/internal/model"
)

// CompressedSuffix marks catalog files written zstd compressed.
const CompressedSuffix = ".zst"

// CatalogWriter writes item catalogs in the format CatalogReader reads.
type CatalogWriter struct {
	encoder *zstd.Encoder
}

// NewCatalogWriter creates a writer with its own zstd encoder.
func NewCatalogWriter() (*CatalogWriter, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	return &CatalogWriter{encoder: enc}, nil
}

// Close releases the encoder.
func (cw *CatalogWriter) Close() error {
	return cw.encoder.Close()
}

// Write writes one line per item to w. Tags are written as a tag list.
func (cw *CatalogWriter) Write(w io.Writer, items []model.Item, compress bool) error {
	data := encodeItems(items)
	if compress {
		data = cw.encoder.EncodeAll(data, nil)
	}
	_, err := w.Write(data)
	return err
}

// WriteFile writes items to path, compressing when the name ends in
// CompressedSuffix.
func (cw *CatalogWriter) WriteFile(path string, items []model.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating catalog %s", path)
	}

	if err := cw.Write(f, items, strings.HasSuffix(path, CompressedSuffix)); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing catalog %s", path)
	}
	return f.Close()
}

func encodeItems(items []model.Item) []byte {
	var (
		a   fastjson.Arena
		buf []byte
	)
	for _, it := range items {
		obj := a.NewObject()
		obj.Set("path", a.NewString(it.Path))
		obj.Set("tags", a.NewString(it.Tags.String()))
		buf = obj.MarshalTo(buf)
		buf = append(buf, '\n')
		a.Reset()
	}
	return buf
}
