package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/carelink/internal/domain/directory"
	"github.com/BruksfildServices01/carelink/internal/models"
)

const doctorsKey = "carelink:directory:doctors"

// CachedDirectory is a read-through Redis cache in front of a Directory.
// Redis failures fall through to the source.
type CachedDirectory struct {
	source directory.Directory
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewCachedDirectory(
	source directory.Directory,
	client *redis.Client,
	ttl time.Duration,
	log zerolog.Logger,
) *CachedDirectory {
	return &CachedDirectory{
		source: source,
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func (c *CachedDirectory) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	raw, err := c.client.Get(ctx, doctorsKey).Bytes()
	if err == nil {
		var doctors []models.Doctor
		if jerr := json.Unmarshal(raw, &doctors); jerr == nil {
			return doctors, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Msg("directory cache read failed")
	}

	doctors, err := c.source.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}

	if b, jerr := json.Marshal(doctors); jerr == nil {
		if serr := c.client.Set(ctx, doctorsKey, b, c.ttl).Err(); serr != nil {
			c.log.Warn().Err(serr).Msg("directory cache write failed")
		}
	}

	return doctors, nil
}

func (c *CachedDirectory) GetDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	return c.source.GetDoctor(ctx, id)
}

func (c *CachedDirectory) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, doctorsKey).Err()
}

var (
	_ directory.Directory   = (*CachedDirectory)(nil)
	_ directory.Invalidator = (*CachedDirectory)(nil)
)
