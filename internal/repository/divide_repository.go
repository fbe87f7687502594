package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/domain"
)

type divideRecordRepository struct {
	db       *sqlx.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDivideRecordRepository returns an allocation lookup backed by Postgres
// with a Redis read-through cache. Cache failures degrade to the database.
func NewDivideRecordRepository(db *sqlx.DB, redisClient *redis.Client, cacheTTL time.Duration, logger *zap.Logger) DivideRecordRepository {
	return &divideRecordRepository{db: db, redis: redisClient, cacheTTL: cacheTTL, logger: logger}
}

func (r *divideRecordRepository) GetSupplierDivideAmount(ctx context.Context, orderNumber string) (domain.Money, error) {
	return r.cachedAmount(ctx, "divide:order:"+orderNumber, `
		SELECT COALESCE(SUM(supplier_amount_cents), 0)
		FROM divide_records
		WHERE order_number = $1
	`, orderNumber)
}

func (r *divideRecordRepository) GetSupplierDivideAmountByOrderID(ctx context.Context, orderID domain.OrderID) (domain.Money, error) {
	detailID, ok := orderID.OrderDetailID()
	if !ok {
		return r.GetSupplierDivideAmount(ctx, orderID.OrderNumber())
	}
	return r.cachedAmount(ctx, "divide:item:"+orderID.String(), `
		SELECT COALESCE(SUM(supplier_amount_cents), 0)
		FROM divide_records
		WHERE order_number = $1 AND order_detail_id = $2
	`, orderID.OrderNumber(), detailID)
}

func (r *divideRecordRepository) ExistsByOrderID(ctx context.Context, orderID domain.OrderID) (bool, error) {
	var exists bool
	var err error
	if detailID, ok := orderID.OrderDetailID(); ok {
		err = r.db.GetContext(ctx, &exists, `
			SELECT EXISTS (SELECT 1 FROM divide_records WHERE order_number = $1 AND order_detail_id = $2)
		`, orderID.OrderNumber(), detailID)
	} else {
		err = r.db.GetContext(ctx, &exists, `
			SELECT EXISTS (SELECT 1 FROM divide_records WHERE order_number = $1)
		`, orderID.OrderNumber())
	}
	return exists, err
}

func (r *divideRecordRepository) cachedAmount(ctx context.Context, cacheKey, query string, args ...any) (domain.Money, error) {
	if r.redis != nil {
		cached, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			if cents, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return domain.NewMoneyFromCents(cents)
			}
		} else if err != redis.Nil {
			r.logger.Warn("divide amount cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	var cents int64
	if err := r.db.GetContext(ctx, &cents, query, args...); err != nil {
		return domain.ZeroMoney, err
	}
	amount, err := domain.NewMoneyFromCents(cents)
	if err != nil {
		return domain.ZeroMoney, err
	}

	if r.redis != nil {
		if err := r.redis.Set(ctx, cacheKey, strconv.FormatInt(cents, 10), r.cacheTTL).Err(); err != nil {
			r.logger.Warn("divide amount cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return amount, nil
}
