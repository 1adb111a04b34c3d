//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"lowa/internal/listing/models"
	"lowa/pkg/testutil/containers"
)

type RedisViewCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *RedisViewCache
	ctx   context.Context
}

func TestRedisViewCacheSuite(t *testing.T) {
	suite.Run(t, new(RedisViewCacheSuite))
}

func (s *RedisViewCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = NewRedisViewCache(s.redis.Client, WithTTL(time.Minute))
	s.ctx = context.Background()
}

func (s *RedisViewCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisViewCacheSuite) TestRoundTrip() {
	views := []models.VisitorRequestView{{
		ID:           uuid.New(),
		Title:        "Hiking Bukhansan",
		Time:         "Sunday / Morning",
		Participants: 2,
	}}
	s.Require().NoError(s.cache.Set(s.ctx, "views:visitor_requests", views))

	var got []models.VisitorRequestView
	hit, err := s.cache.Get(s.ctx, "views:visitor_requests", &got)
	s.Require().NoError(err)
	s.True(hit)
	s.Equal(views[0].ID, got[0].ID)
	s.Equal("Sunday / Morning", got[0].Time)

	ttl, err := s.redis.Client.TTL(s.ctx, keyPrefix+"views:visitor_requests").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisViewCacheSuite) TestMiss() {
	var got []models.InvitationView
	hit, err := s.cache.Get(s.ctx, "views:invitations:0", &got)
	s.Require().NoError(err)
	s.False(hit)
}

func (s *RedisViewCacheSuite) TestGenerations() {
	gen, err := s.cache.Generation(s.ctx, "views:invitations")
	s.Require().NoError(err)
	s.Zero(gen)

	s.Require().NoError(s.cache.Invalidate(s.ctx, "views:invitations"))
	s.Require().NoError(s.cache.Invalidate(s.ctx, "views:invitations"))

	gen, err = s.cache.Generation(s.ctx, "views:invitations")
	s.Require().NoError(err)
	s.Equal(int64(2), gen)

	other, err := s.cache.Generation(s.ctx, "views:visitor_requests")
	s.Require().NoError(err)
	s.Zero(other)
}
