package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/kbsearch/internal/db"
)

// RPushCapped appends values and, when keep > 0, trims the list to its newest
// keep entries. Both commands go out in one pipelined round trip.
func (s *Store) RPushCapped(ctx context.Context, key string, keep int64, values ...string) error {
	if len(values) == 0 {
		return nil
	}

	cmds := []rueidis.Completed{s.client.B().Rpush().Key(key).Element(values...).Build()}
	if keep > 0 {
		cmds = append(cmds, s.client.B().Ltrim().Key(key).Start(-keep).Stop(-1).Build())
	}

	ops := [...]string{db.OpRPush, db.OpLTrim}
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: ops[i], Key: key, Err: err}
		}
	}
	return nil
}

// LRange returns list elements in [start, stop]; negative indexes count from the tail.
func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	cmd := s.client.B().Lrange().Key(key).Start(start).Stop(stop).Build()
	vals, err := s.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpLRange, Key: key, Err: err}
	}
	return vals, nil
}
