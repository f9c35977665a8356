package storage

import (
	"bytes"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"

	"github.com/erazor-de/xtag/internal/model"
	"github.com/erazor-de/xtag/pkg/tagql"
)

var (
	ErrMissingPath = errors.New("catalog entry has no path")
	ErrInvalidTags = errors.New("catalog tags must be a tag list string or an object")
)

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// CatalogReader reads item catalogs: one JSON object per line holding a
// "path" and its "tags". Input may be zstd compressed.
type CatalogReader struct {
	decoder *zstd.Decoder
	parser  fastjson.ParserPool
}

// NewCatalogReader creates a reader with its own zstd decoder.
func NewCatalogReader() (*CatalogReader, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &CatalogReader{decoder: dec}, nil
}

// Close releases the decoder.
func (cr *CatalogReader) Close() {
	cr.decoder.Close()
}

// NewIterator reads all of r and returns an iterator over its items.
func (cr *CatalogReader) NewIterator(r io.Reader) (*Iterator, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading catalog")
	}
	if bytes.HasPrefix(data, zstdMagic) {
		data, err = cr.decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, errors.Wrap(err, "decompressing catalog")
		}
	}
	return &Iterator{reader: cr, data: data}, nil
}

// Iterator walks the lines of a catalog. Malformed lines are skipped and
// collected; Err reports them once iteration is done.
type Iterator struct {
	reader *CatalogReader
	data   []byte
	line   int

	curr model.Item
	errs *multierror.Error
}

// Next advances to the next well-formed item and reports whether there is one.
func (it *Iterator) Next() bool {
	for len(it.data) > 0 {
		line := it.data
		if i := bytes.IndexByte(it.data, '\n'); i >= 0 {
			line, it.data = it.data[:i], it.data[i+1:]
		} else {
			it.data = nil
		}
		it.line++

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		item, err := it.reader.parseLine(line)
		if err != nil {
			it.errs = multierror.Append(it.errs, errors.Wrapf(err, "line %d", it.line))
			continue
		}
		it.curr = item
		return true
	}
	return false
}

// Item returns the item Next advanced to.
func (it *Iterator) Item() model.Item {
	return it.curr
}

// Err returns the skipped lines as a *multierror.Error, or nil.
func (it *Iterator) Err() error {
	return it.errs.ErrorOrNil()
}

// Read returns every well-formed item of r. If some lines were malformed
// the items are returned together with a *multierror.Error listing them.
func (cr *CatalogReader) Read(r io.Reader) ([]model.Item, error) {
	it, err := cr.NewIterator(r)
	if err != nil {
		return nil, err
	}

	var items []model.Item
	for it.Next() {
		items = append(items, it.Item())
	}
	return items, it.Err()
}

// ReadFile reads the catalog at path.
func (cr *CatalogReader) ReadFile(path string) ([]model.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening catalog %s", path)
	}
	defer f.Close()

	items, err := cr.Read(f)
	if err != nil {
		return items, errors.Wrapf(err, "catalog %s", path)
	}
	return items, nil
}

func (cr *CatalogReader) parseLine(line []byte) (model.Item, error) {
	p := cr.parser.Get()
	defer cr.parser.Put(p)

	v, err := p.ParseBytes(line)
	if err != nil {
		return model.Item{}, err
	}

	pathVal := v.Get("path")
	if pathVal == nil || pathVal.Type() != fastjson.TypeString || len(pathVal.GetStringBytes()) == 0 {
		return model.Item{}, ErrMissingPath
	}
	item := model.Item{Path: string(pathVal.GetStringBytes())}

	item.Tags, err = parseTags(v.Get("tags"))
	if err != nil {
		return model.Item{}, errors.Wrap(err, item.Path)
	}
	return item, nil
}

// parseTags accepts either a tag list ("a=1,b") or an object whose values
// are strings, numbers or null ({"a": "1", "b": null}).
func parseTags(v *fastjson.Value) (tagql.TagSet, error) {
	if v == nil {
		return tagql.TagSet{}, nil
	}

	switch v.Type() {
	case fastjson.TypeNull:
		return tagql.TagSet{}, nil
	case fastjson.TypeString:
		return tagql.ParseTagList(string(v.GetStringBytes()))
	case fastjson.TypeObject:
		obj, _ := v.Object()
		tags := make(tagql.TagSet, 0, obj.Len())
		var err error
		obj.Visit(func(key []byte, val *fastjson.Value) {
			if err != nil {
				return
			}
			name := string(key)
			switch val.Type() {
			case fastjson.TypeNull:
				tags = append(tags, tagql.NewTag(name))
			case fastjson.TypeString:
				tags = append(tags, tagql.NewValueTag(name, string(val.GetStringBytes())))
			case fastjson.TypeNumber:
				tags = append(tags, tagql.NewValueTag(name, string(val.MarshalTo(nil))))
			default:
				err = errors.Errorf("tag %q: unsupported value type %s", name, val.Type())
			}
		})
		if err != nil {
			return nil, err
		}
		return tags, nil
	}
	return nil, ErrInvalidTags
}
