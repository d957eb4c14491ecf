// Package counter holds the near-real-time guest counts and enforces the
// capacity limits atomically. It is a derived accelerator over the durable
// roster: entries are ephemeral and can be rebuilt at any time.
package counter

import (
	"context"
	"strconv"

	"splashboard/internal/domain/guest"
	"splashboard/internal/domain/season"
	"splashboard/internal/infra"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// 検査と更新は不可分でなければならない。read-then-write では 2 ユーザーが
// 同時に空き容量を観測して両方書き込み、上限を超えてしまう。スクリプトは
// サーバー側で単一実行されるため同一 (season, day) への呼び出しは直列化される。
var setDesiredScript = redis.NewScript(`
local newCount = tonumber(ARGV[2])
local perUserMax = tonumber(ARGV[3])
local cap = tonumber(ARGV[4])
if newCount > perUserMax then
  return {0, "per_user_cap_exceeded"}
end
local old = tonumber(redis.call("HGET", KEYS[2], ARGV[1]) or "0")
local used = tonumber(redis.call("GET", KEYS[1]) or "0")
local delta = newCount - old
if used + delta > cap then
  return {0, "day_cap_exceeded"}
end
used = used + delta
if used < 0 then
  used = 0
end
redis.call("SET", KEYS[1], used)
if newCount > 0 then
  redis.call("HSET", KEYS[2], ARGV[1], newCount)
else
  redis.call("HDEL", KEYS[2], ARGV[1])
end
local ver = redis.call("INCR", KEYS[3])
return {1, used, newCount, ver}
`)

// 名簿合計からの全面書き直し。同じくサーバー側で不可分に実行されるため、
// 進行中の setDesiredCount と交錯しない。
var rebuildDayScript = redis.NewScript(`
redis.call("DEL", KEYS[2])
local total = 0
for i = 1, #ARGV, 2 do
  local c = tonumber(ARGV[i + 1])
  if c > 0 then
    redis.call("HSET", KEYS[2], ARGV[i], c)
    total = total + c
  end
end
redis.call("SET", KEYS[1], total)
local ver = redis.call("INCR", KEYS[3])
return {total, ver}
`)

// Result is the post-mutation state of a (season, day) counter.
type Result struct {
	Used    int
	Guests  int
	Version int64
}

type Store struct {
	rdb redis.UniversalClient
}

func NewStore(rdb redis.UniversalClient) *Store {
	return &Store{rdb: rdb}
}

// キーは (season, day) 単位でハッシュタグ化する。クラスタ構成でも 1 日分の
// 3 キーが同一スロットに乗り、スクリプトが実行できる。
func dayTag(s season.ID, d season.Day) string {
	return "{guest:" + s.String() + ":" + d.String() + "}"
}

func usedKey(s season.ID, d season.Day) string  { return "guest:used:" + dayTag(s, d) }
func usersKey(s season.ID, d season.Day) string { return "guest:users:" + dayTag(s, d) }
func verKey(s season.ID, d season.Day) string   { return "guest:ver:" + dayTag(s, d) }

// SetDesiredCount atomically sets a user's guest count for a day, enforcing
// the per-user and per-day caps. Refusals surface as repository errors of
// kind PER_USER_CAP_EXCEEDED or DAY_CAP_EXCEEDED.
func (s *Store) SetDesiredCount(
	ctx context.Context,
	sn season.ID,
	d season.Day,
	userID uuid.UUID,
	newCount, perUserMax, perDayCap int,
) (*Result, error) {
	keys := []string{usedKey(sn, d), usersKey(sn, d), verKey(sn, d)}
	args := []any{userID.String(), newCount, perUserMax, perDayCap}

	raw, err := setDesiredScript.Run(ctx, s.rdb, keys, args...).Result()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to run set-desired-count script", err)
	}

	reply, ok := raw.([]any)
	if !ok || len(reply) < 2 {
		return nil, infra.WrapRepoErr("unexpected counter script reply", nil)
	}

	if okFlag, _ := reply[0].(int64); okFlag != 1 {
		reason, _ := reply[1].(string)
		switch reason {
		case guest.ReasonPerUserCapExceeded:
			return nil, infra.WrapRepoErr("per-user guest cap exceeded", nil, infra.KindPerUserCapExceeded)
		case guest.ReasonDayCapExceeded:
			return nil, infra.WrapRepoErr("day guest cap exceeded", nil, infra.KindDayCapExceeded)
		default:
			return nil, infra.WrapRepoErr("counter script refused mutation: "+reason, nil)
		}
	}

	if len(reply) < 4 {
		return nil, infra.WrapRepoErr("unexpected counter script reply", nil)
	}

	used, _ := reply[1].(int64)
	guests, _ := reply[2].(int64)
	ver, _ := reply[3].(int64)

	return &Result{
		Used:    int(used),
		Guests:  int(guests),
		Version: ver,
	}, nil
}

// UsedForDays returns a best-effort snapshot of the used counts for the
// given days. Not atomic across the batch; missing entries read as zero.
func (s *Store) UsedForDays(ctx context.Context, sn season.ID, days []season.Day) ([]int, error) {
	if len(days) == 0 {
		return nil, nil
	}

	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = usedKey(sn, d)
	}

	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read used counts", err)
	}

	out := make([]int, len(days))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue // nil = キー未作成、0 扱い
		}
		n, convErr := strconv.Atoi(str)
		if convErr != nil {
			continue
		}
		out[i] = n
	}
	return out, nil
}

// RebuildDay overwrites a day's counter state from roster sums. Used by the
// recount maintenance operation after a suspected desynchronization; the
// version still increments so stream consumers pick up the rebuilt value.
func (s *Store) RebuildDay(ctx context.Context, sn season.ID, d season.Day, counts map[uuid.UUID]int) (*Result, error) {
	keys := []string{usedKey(sn, d), usersKey(sn, d), verKey(sn, d)}
	args := make([]any, 0, len(counts)*2)
	for id, c := range counts {
		args = append(args, id.String(), c)
	}

	raw, err := rebuildDayScript.Run(ctx, s.rdb, keys, args...).Result()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to run rebuild-day script", err)
	}

	reply, ok := raw.([]any)
	if !ok || len(reply) < 2 {
		return nil, infra.WrapRepoErr("unexpected rebuild script reply", nil)
	}

	total, _ := reply[0].(int64)
	ver, _ := reply[1].(int64)

	return &Result{Used: int(total), Version: ver}, nil
}
