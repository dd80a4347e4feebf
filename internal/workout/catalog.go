package workout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/2beens/fitplanner/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const catalogCacheKey = "exercise-catalog::all"

type catalogSource interface {
	ListExercises(ctx context.Context) ([]Exercise, error)
}

// Catalog keeps the read-only exercise catalog in memory for ttl.
type Catalog struct {
	source catalogSource
	cache  *freecache.Cache
	ttl    time.Duration
}

func NewCatalog(source catalogSource, cacheSize int, ttl time.Duration) *Catalog {
	return &Catalog{
		source: source,
		cache:  freecache.NewCache(cacheSize),
		ttl:    ttl,
	}
}

func (c *Catalog) All(ctx context.Context) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workout.catalog.all")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if cached, err := c.cache.Get([]byte(catalogCacheKey)); err == nil {
		var exercises []Exercise
		if err := json.Unmarshal(cached, &exercises); err == nil {
			span.SetAttributes(attribute.Bool("cache-hit", true))
			return exercises, nil
		} else {
			log.Errorf("unmarshal cached exercise catalog: %s", err)
		}
	}
	span.SetAttributes(attribute.Bool("cache-hit", false))

	exercises, err := c.source.ListExercises(ctx)
	if err != nil {
		return nil, err
	}

	catalogBytes, err := json.Marshal(exercises)
	if err != nil {
		log.Errorf("marshal exercise catalog for cache: %s", err)
		return exercises, nil
	}
	if err := c.cache.Set([]byte(catalogCacheKey), catalogBytes, int(c.ttl.Seconds())); err != nil {
		log.Errorf("set exercise catalog cache: %s", err)
	} else {
		log.Tracef("exercise catalog cached, %d exercises", len(exercises))
	}

	return exercises, nil
}

// Invalidate drops the cached catalog.
func (c *Catalog) Invalidate() {
	c.cache.Del([]byte(catalogCacheKey))
}
