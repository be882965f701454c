package shared

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"rento/shared/cache"
	"rento/shared/constant"
	"rento/shared/dto"
	"rento/shared/timezone"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

// ConvertStringToBool parses an optional boolean query value. Empty or malformed input means "not set".
func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Debug().Err(err).Str("value", value).Msg("ignoring malformed boolean")

		return nil
	}

	return &parsed
}

// CalculateTotalPage never reports fewer than one page.
func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

// TransformFields turns the non-zero db-tagged fields of a patch struct into an update map and stamps
// the modification metadata.
func TransformFields(data any, actorID string) map[string]any {
	val := reflect.ValueOf(data)
	typ := val.Type()

	fields := make(map[string]any, val.NumField()+2)

	for index := range val.NumField() {
		column := typ.Field(index).Tag.Get("db")
		if column == "" || column == "-" || val.Field(index).IsZero() {
			continue
		}

		fields[column] = val.Field(index).Interface()
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = actorID

	return fields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins a cache prefix with the parts identifying a single entry.
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a list cache key from paging and filter input. The filter is reduced to
// its where clause and named arguments, hashed so the key length stays bounded.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	// json.Marshal sorts map keys, which keeps the digest stable.
	raw, err := json.Marshal(struct {
		Params dto.QueryParams `json:"params"`
		Where  string          `json:"where"`
		Args   map[string]any  `json:"args"`
	}{params, where, args})
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to marshal cache key query")
	}

	sum := sha256.Sum256(raw)

	return BuildCacheKey(prefix, hex.EncodeToString(sum[:16]))
}

// InvalidateCaches removes every entry stored under prefix. Failures are logged, cached reads simply
// stay stale until their TTL.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+cacheKeySeparator+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// ActorID returns the authenticated user stored in ctx by the auth middleware.
func ActorID(ctx context.Context) string {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return userID
}
