package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/possax-admin/internal/models"
)

// CreateTransaction вставляет новую транзакцию подписки и возвращает её ID.
func (s *Storage) CreateTransaction(ctx context.Context, tx models.SubscriptionTransaction) (int, error) {
	const op = "storage.CreateTransaction"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscription_transactions (store_id, type, start_date,
			      end_date, amount_paid, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING subscription_id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		tx.StoreID, tx.Type, tx.StartDate, tx.EndDate, tx.AmountPaid, tx.IsActive).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateStoreSubscriptionType выставляет магазину текущий тариф подписки.
func (s *Storage) UpdateStoreSubscriptionType(ctx context.Context, storeID int, t models.SubscriptionType) error {
	const op = "storage.UpdateStoreSubscriptionType"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE stores SET subscription_type = $1 WHERE store_id = $2`
	result, err := s.DB.ExecContext(ctx, query, t, storeID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: store %d not found", op, storeID)
	}
	return nil
}

// CancelTransaction помечает транзакцию магазина отменённой, не удаляя
// историю, и возвращает количество затронутых записей. Повторная отмена
// уже отменённой транзакции не затрагивает ни одной записи.
func (s *Storage) CancelTransaction(ctx context.Context, storeID, txnID int, reason *string) (int, error) {
	const op = "storage.CancelTransaction"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscription_transactions
			  SET is_active = FALSE, cancel_reason = $1
			  WHERE subscription_id = $2 AND store_id = $3 AND is_active = TRUE`
	result, err := s.DB.ExecContext(ctx, query, reason, txnID, storeID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
