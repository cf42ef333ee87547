package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/repository"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/sse"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	idempotencyPrefix  = "idem:txn:"
	idempotencyTTL     = 24 * time.Hour
	idempotencyPending = "pending"
	maxIdempotencyKey  = 64
)

// StockService records check-ins and check-outs.
type StockService struct {
	db           *gorm.DB
	materials    *repository.MaterialRepository
	transactions *repository.TransactionRepository
	rdb          *redis.Client
	hub          *sse.Hub
	logger       *zap.Logger
	now          func() time.Time
}

func NewStockService(repos *repository.Repositories, rdb *redis.Client, hub *sse.Hub, logger *zap.Logger) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hub == nil {
		hub = sse.NewHub(logger)
	}
	return &StockService{
		db:           repos.DB(),
		materials:    repos.Material,
		transactions: repos.Transaction,
		rdb:          rdb,
		hub:          hub,
		logger:       logger.Named("stock"),
		now:          time.Now,
	}
}

// RecordRequest transactions.php POST body
type RecordRequest struct {
	MaterialID       string `json:"materialId" binding:"required"`
	Type             string `json:"type" binding:"required,oneof=check-in check-out"`
	Quantity         int    `json:"quantity" binding:"required,gt=0"`
	Reason           string `json:"reason" binding:"required"`
	ConstructionSite string `json:"constructionSite"`
	IdempotencyKey   string `json:"idempotencyKey"`
}

// RecordResult is returned for both the first submission and its replays.
type RecordResult struct {
	ID       string `json:"id"`
	NewStock int    `json:"newStock"`
	Status   string `json:"status"`
	Replayed bool   `json:"replayed,omitempty"`
}

// List returns transactions newest first.
func (s *StockService) List(ctx context.Context, materialID string) ([]entity.Transaction, error) {
	return s.transactions.List(ctx, materialID)
}

// Record applies one stock movement atomically. A repeated idempotency key returns
// the first transaction id with the material's current stock, without touching
// stock again. A key reused for a different request is a conflict.
func (s *StockService) Record(ctx context.Context, req RecordRequest, actor Actor) (*RecordResult, error) {
	if err := s.authorize(req.Type, actor); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, invalid("reason is required")
	}
	site := strings.TrimSpace(req.ConstructionSite)
	if req.Type == entity.TxTypeCheckOut && site == "" {
		return nil, invalid("construction site is required for check-out")
	}
	key := strings.TrimSpace(req.IdempotencyKey)
	if len(key) > maxIdempotencyKey {
		return nil, invalid("idempotency key is too long")
	}

	if key != "" {
		if prior, err := s.replay(ctx, key, req, actor); err != nil || prior != nil {
			return prior, err
		}
		reserved, err := s.reserve(ctx, key)
		if err != nil {
			return nil, err
		}
		if reserved {
			defer func() {
				// an unfinished reservation must not block a retry
				if s.rdb != nil {
					s.rdb.Del(context.Background(), idempotencyPrefix+key+":lock")
				}
			}()
		}
	}

	now := s.now()
	tx := &entity.Transaction{
		ID:               newID(),
		MaterialID:       req.MaterialID,
		Type:             req.Type,
		Quantity:         req.Quantity,
		Reason:           reason,
		ConstructionSite: site,
		User:             actor.DisplayName(),
		UserID:           actor.ID,
		UserRole:         actor.Role,
		Timestamp:        now,
	}
	if key != "" {
		tx.IdempotencyKey = &key
	}

	var material *entity.Material
	err := s.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		var err error
		material, err = s.materials.WithTx(dbTx).LockByID(ctx, req.MaterialID)
		if err != nil {
			return missing(err, "Material")
		}
		next, err := entity.NextStock(material.CurrentStock, req.Type, req.Quantity)
		if err != nil {
			return err
		}
		material.ApplyStock(next, now)
		if err := s.materials.WithTx(dbTx).UpdateStock(ctx, material); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		tx.StockAfter = material.CurrentStock
		return s.transactions.WithTx(dbTx).Create(ctx, tx)
	})
	if errors.Is(err, repository.ErrDuplicate) && key != "" {
		// lost a race on the same key; the winner's row is authoritative
		prior, findErr := s.transactions.FindByIdempotencyKey(ctx, key)
		if findErr != nil {
			return nil, fmt.Errorf("load replayed transaction: %w", findErr)
		}
		return s.replayed(ctx, recordOf(prior), req, actor)
	}
	if err != nil {
		return nil, err
	}

	result := &RecordResult{ID: tx.ID, NewStock: material.CurrentStock, Status: material.Status}
	if key != "" {
		s.remember(ctx, key, recordOf(tx))
	}

	s.logger.Info("stock recorded",
		zap.String("material_id", material.ID),
		zap.String("type", tx.Type),
		zap.Int("quantity", tx.Quantity),
		zap.Int("new_stock", material.CurrentStock),
		zap.String("user", tx.User),
	)
	if material.Status != entity.StatusInStock {
		s.logger.Warn("material below minimum",
			zap.String("material_id", material.ID),
			zap.String("name", material.Name),
			zap.String("status", material.Status),
		)
	}
	s.hub.PublishStockUpdate(material.ID, material.CurrentStock, material.Status)
	return result, nil
}

func (s *StockService) authorize(txType string, actor Actor) error {
	switch txType {
	case entity.TxTypeCheckIn:
		if !actor.Can(entity.CapAddToStock) {
			return fmt.Errorf("%w: your role cannot add to stock", ErrForbidden)
		}
	case entity.TxTypeCheckOut:
		if !actor.Can(entity.CapWithdrawFromStock) {
			return fmt.Errorf("%w: your role cannot withdraw from stock", ErrForbidden)
		}
	default:
		return entity.ErrInvalidTxType
	}
	return nil
}

// idempotencyRecord is what a key remembers about its first submission.
type idempotencyRecord struct {
	TransactionID string `json:"transactionId"`
	MaterialID    string `json:"materialId"`
	Type          string `json:"type"`
	Quantity      int    `json:"quantity"`
	UserID        string `json:"userId"`
}

func recordOf(tx *entity.Transaction) idempotencyRecord {
	return idempotencyRecord{
		TransactionID: tx.ID,
		MaterialID:    tx.MaterialID,
		Type:          tx.Type,
		Quantity:      tx.Quantity,
		UserID:        tx.UserID,
	}
}

// matches reports whether req by actor is a retry of the remembered submission.
func (r idempotencyRecord) matches(req RecordRequest, actor Actor) bool {
	return r.MaterialID == req.MaterialID &&
		r.Type == req.Type &&
		r.Quantity == req.Quantity &&
		r.UserID == actor.ID
}

// replay looks key up, in redis first and then the database. It returns nil when
// the key has not been used.
func (s *StockService) replay(ctx context.Context, key string, req RecordRequest, actor Actor) (*RecordResult, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, idempotencyPrefix+key).Result()
		if err == nil {
			var rec idempotencyRecord
			if json.Unmarshal([]byte(cached), &rec) == nil && rec.TransactionID != "" {
				return s.replayed(ctx, rec, req, actor)
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("idempotency cache read failed", zap.Error(err))
		}
	}

	prior, err := s.transactions.FindByIdempotencyKey(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load transaction by idempotency key: %w", err)
	}
	return s.replayed(ctx, recordOf(prior), req, actor)
}

// replayed answers a retry with the first transaction id and the stock as it is now.
func (s *StockService) replayed(ctx context.Context, rec idempotencyRecord, req RecordRequest, actor Actor) (*RecordResult, error) {
	if !rec.matches(req, actor) {
		return nil, fmt.Errorf("%w: idempotency key was already used for a different transaction", ErrConflict)
	}
	material, err := s.materials.FindByID(ctx, rec.MaterialID)
	if err != nil {
		return nil, missing(err, "Material")
	}
	return &RecordResult{
		ID:       rec.TransactionID,
		NewStock: material.CurrentStock,
		Status:   material.Status,
		Replayed: true,
	}, nil
}

// reserve takes a short lock on key so concurrent retries do not race the database.
func (s *StockService) reserve(ctx context.Context, key string) (bool, error) {
	if s.rdb == nil {
		return false, nil
	}
	ok, err := s.rdb.SetNX(ctx, idempotencyPrefix+key+":lock", idempotencyPending, time.Minute).Result()
	if err != nil {
		// the unique column still guards the write
		s.logger.Warn("idempotency reservation failed", zap.Error(err))
		return false, nil
	}
	if !ok {
		return false, fmt.Errorf("%w: this transaction is already being processed", ErrConflict)
	}
	return true, nil
}

func (s *StockService) remember(ctx context.Context, key string, rec idempotencyRecord) {
	if s.rdb == nil {
		return
	}
	data, _ := json.Marshal(rec)
	if err := s.rdb.Set(ctx, idempotencyPrefix+key, data, idempotencyTTL).Err(); err != nil {
		s.logger.Warn("idempotency cache write failed", zap.Error(err))
	}
}
