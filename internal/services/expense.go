package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/expense-tracker/internal/logger"
	"github.com/sbilibin2017/expense-tracker/internal/models"
)

//go:generate mockgen -source=expense.go -destination=mock_expense.go -package=services

// ExpenseReader defines read operations for expenses.
type ExpenseReader interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Expense, error)
	GetByID(ctx context.Context, id int64) (*models.Expense, error)
}

// ExpenseWriter defines write operations for expenses.
type ExpenseWriter interface {
	Save(ctx context.Context, e models.Expense) (models.Expense, error)
	Delete(ctx context.Context, id int64) error
}

// ExpenseCache caches per-user expense lists.
// Set must drop the list when Invalidate ran after Version returned.
type ExpenseCache interface {
	Get(ctx context.Context, userID int64) ([]models.Expense, bool, error)
	Version(ctx context.Context, userID int64) (int64, error)
	Set(ctx context.Context, userID int64, version int64, expenses []models.Expense) error
	Invalidate(ctx context.Context, userID int64) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ExpenseService handles expense operations, list caching and event publishing.
// cache and kafkaWriter are optional.
type ExpenseService struct {
	reader      ExpenseReader
	writer      ExpenseWriter
	cache       ExpenseCache
	kafkaWriter KafkaWriter
	now         func() time.Time
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(
	reader ExpenseReader,
	writer ExpenseWriter,
	cache ExpenseCache,
	kafkaWriter KafkaWriter,
) *ExpenseService {
	return &ExpenseService{
		reader:      reader,
		writer:      writer,
		cache:       cache,
		kafkaWriter: kafkaWriter,
		now:         time.Now,
	}
}

// List returns the user's expenses, latest first.
func (s *ExpenseService) List(ctx context.Context, userID int64) ([]models.Expense, error) {
	cacheable := false
	var version int64
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			logger.Log.Warnw("expense cache read failed", "userID", userID, "error", err)
		} else if ok {
			return cached, nil
		}

		// read before the database so a concurrent invalidation is detected
		if version, err = s.cache.Version(ctx, userID); err != nil {
			logger.Log.Warnw("expense cache version read failed", "userID", userID, "error", err)
		} else {
			cacheable = true
		}
	}

	expenses, err := s.reader.ListByUser(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list expenses", "userID", userID, "error", err)
		return nil, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, userID, version, expenses); err != nil {
			logger.Log.Warnw("expense cache write failed", "userID", userID, "error", err)
		}
	}
	return expenses, nil
}

// Create stores a new expense and returns the persisted row.
func (s *ExpenseService) Create(ctx context.Context, e models.Expense) (models.Expense, error) {
	saved, err := s.writer.Save(ctx, e)
	if err != nil {
		logger.Log.Errorw("failed to save expense", "userID", e.UserID, "item", e.ItemName, "error", err)
		return models.Expense{}, err
	}

	s.invalidate(ctx, saved.UserID)
	s.publish(ctx, models.ExpenseEvent{
		EventID:   uuid.NewString(),
		Operation: models.ExpenseCreated,
		ExpenseID: saved.ID,
		UserID:    saved.UserID,
		Amount:    saved.Amount,
		Currency:  saved.Currency,
		Timestamp: s.now().Unix(),
	})

	return saved, nil
}

// Delete removes the expense with the given id. Deleting an id that does
// not exist is not an error.
func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	existing, err := s.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to look up expense", "id", id, "error", err)
		return err
	}

	if err := s.writer.Delete(ctx, id); err != nil {
		logger.Log.Errorw("failed to delete expense", "id", id, "error", err)
		return err
	}

	if existing == nil {
		logger.Log.Infow("deleted expense did not exist", "id", id)
		return nil
	}

	s.invalidate(ctx, existing.UserID)
	s.publish(ctx, models.ExpenseEvent{
		EventID:   uuid.NewString(),
		Operation: models.ExpenseDeleted,
		ExpenseID: existing.ID,
		UserID:    existing.UserID,
		Amount:    existing.Amount,
		Currency:  existing.Currency,
		Timestamp: s.now().Unix(),
	})
	return nil
}

func (s *ExpenseService) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Log.Warnw("expense cache invalidation failed", "userID", userID, "error", err)
	}
}

// publish writes the event to Kafka keyed by user so a user's events stay ordered.
func (s *ExpenseService) publish(ctx context.Context, event models.ExpenseEvent) {
	if s.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "event_id", event.EventID)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal expense event", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.UserID, 10)),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish expense event", "event_id", event.EventID, "error", err)
	} else {
		logger.Log.Infow("Expense event published", "event_id", event.EventID, "operation", event.Operation)
	}
}
