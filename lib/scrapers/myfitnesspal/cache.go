package myfitnesspal

import (
	"bytes"
	"context"
	"encoding/gob"
	"net/url"

	"diary-export/lib/timezone"

	"github.com/PuerkitoBio/purell"
	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var errPageNotFound = badger.ErrKeyNotFound

type page struct {
	Contents  []byte
	ExpiresAt int64
}

type pageCache struct {
	db      *badger.DB
	baseUrl *url.URL
}

func (c pageCache) key(clientId, endpoint string) (string, error) {
	full, err := c.baseUrl.Parse(endpoint)
	if err != nil {
		return "", err
	}
	normalized := purell.NormalizeURL(
		full,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
	key := clientId + ":" + normalized
	return key, nil
}

func (c pageCache) get(ctx context.Context, clientId, endpoint string) (page, error) {
	ctx, span := tracer.Start(ctx, "cache:get")
	defer span.End()

	key, err := c.key(clientId, endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return page{}, err
	}
	span.SetAttributes(attribute.String("cache_key", key))

	var serialized []byte
	err = c.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if err != nil {
			return err
		}
		serialized, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return page{}, errPageNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read item from badger")
		return page{}, err
	}

	var cached page
	err = gob.NewDecoder(bytes.NewBuffer(serialized)).Decode(&cached)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to deserialize cached item")
		return page{}, err
	}

	if timezone.Now().Unix() >= cached.ExpiresAt {
		span.AddEvent("delete expired cache key", trace.WithAttributes(
			attribute.String("key", key),
		))
		err = c.db.Update(func(tx *badger.Txn) error {
			return tx.Delete([]byte(key))
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to delete expired key")
		}
		return page{}, errPageNotFound
	}

	span.AddEvent(
		"successfully returned cached page",
		trace.WithAttributes(attribute.Int("contentlength", len(cached.Contents))),
	)
	return cached, nil
}

func (c pageCache) set(ctx context.Context, clientId, endpoint string, p page) error {
	ctx, span := tracer.Start(ctx, "cache:set")
	defer span.End()

	key, err := c.key(clientId, endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return err
	}
	span.SetAttributes(attribute.String("cache_key", key))

	serialized := bytes.NewBuffer(nil)
	err = gob.NewEncoder(serialized).Encode(p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize page")
		return err
	}

	err = c.db.Update(func(tx *badger.Txn) error {
		return tx.Set([]byte(key), serialized.Bytes())
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set badger item")
		return err
	}
	return nil
}

// OpenCache opens (or creates) the badger database at dir. An empty dir
// opens an in-memory database.
func OpenCache(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	return badger.Open(opts)
}
