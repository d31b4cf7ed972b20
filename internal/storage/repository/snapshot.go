package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/possax-admin/internal/models"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
)

// LoadSnapshot читает все три набора записей и собирает снимок цикла.
// Производные поля в снимке не заполняются — это работа движка деривации.
func (s *Storage) LoadSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	const op = "storage.LoadSnapshot"

	users, err := s.listUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	stores, err := s.listStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	txns, err := s.listTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.attachUserStores(ctx, users); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return snapshot.New(users, stores, txns, time.Now()), nil
}

func (s *Storage) listUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT user_id, name, created_at, last_activity, role, device_type,
				phone, email, referral_code, city, latitude, longitude, total_transactions
			  FROM users
			  ORDER BY user_id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.UserID, &u.Name, &u.CreatedAt, &u.LastActivity, &u.Role,
			&u.DeviceType, &u.Phone, &u.Email, &u.ReferralCode, &u.City,
			&u.Latitude, &u.Longitude, &u.TotalTransactions); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (s *Storage) listStores(ctx context.Context) ([]models.Store, error) {
	query := `SELECT store_id, store_name, store_type, owner_user_id, city,
				created_at, subscription_type, is_branch
			  FROM stores
			  ORDER BY store_id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Store
	for rows.Next() {
		var st models.Store
		if err := rows.Scan(&st.StoreID, &st.StoreName, &st.StoreType, &st.OwnerUserID,
			&st.City, &st.CreatedAt, &st.SubscriptionType, &st.IsBranch); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, rows.Err()
}

func (s *Storage) listTransactions(ctx context.Context) ([]models.SubscriptionTransaction, error) {
	query := `SELECT subscription_id, store_id, type, start_date, end_date,
				amount_paid, is_active, cancel_reason
			  FROM subscription_transactions
			  ORDER BY subscription_id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.SubscriptionTransaction
	for rows.Next() {
		var tx models.SubscriptionTransaction
		if err := rows.Scan(&tx.SubscriptionID, &tx.StoreID, &tx.Type, &tx.StartDate,
			&tx.EndDate, &tx.AmountPaid, &tx.IsActive, &tx.CancelReason); err != nil {
			return nil, err
		}
		result = append(result, tx)
	}
	return result, rows.Err()
}

// attachUserStores заполняет списки связанных магазинов пользователей
// из таблицы связей user_stores.
func (s *Storage) attachUserStores(ctx context.Context, users []models.User) error {
	query := `SELECT user_id, store_id FROM user_stores ORDER BY user_id, store_id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	byUser := make(map[int][]int)
	for rows.Next() {
		var userID, storeID int
		if err := rows.Scan(&userID, &storeID); err != nil {
			return err
		}
		byUser[userID] = append(byUser[userID], storeID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range users {
		users[i].Stores = byUser[users[i].UserID]
	}
	return nil
}
