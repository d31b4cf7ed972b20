package report

import (
	"sort"
	"time"

	"github.com/magabrotheeeer/possax-admin/internal/lib/expiry"
	"github.com/magabrotheeeer/possax-admin/internal/models"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
)

// DefaultTopN — размер выборки для лидербордов по умолчанию.
const DefaultTopN = 10

// Summary считает ключевые метрики по отфильтрованному снимку.
// В доход входят только платные транзакции (Pro и Basic).
func Summary(s *snapshot.Snapshot) models.Summary {
	var sum models.Summary
	sum.TotalUsers = len(s.Users)
	sum.TotalStores = len(s.Stores)
	for _, st := range s.Stores {
		switch st.SubscriptionType {
		case models.SubscriptionPro:
			sum.TotalProStores++
		case models.SubscriptionBasic:
			sum.TotalBasicStores++
		}
	}
	for _, tx := range s.Transactions {
		if tx.Type == models.SubscriptionPro || tx.Type == models.SubscriptionBasic {
			sum.TotalIncome += tx.AmountPaid
		}
	}
	return sum
}

// MonthlyUserTrend группирует пользователей по календарному месяцу регистрации
// и производному тарифу. Строки отсортированы по месяцу по возрастанию,
// внутри месяца — по рангу тарифа по убыванию.
func MonthlyUserTrend(s *snapshot.Snapshot) []models.UserTrendRow {
	type key struct {
		month time.Time
		tier  models.SubscriptionType
	}
	counts := make(map[key]int)
	for _, u := range s.Users {
		counts[key{month: monthOf(u.CreatedAt), tier: u.UserSubscriptionType}]++
	}

	rows := make([]models.UserTrendRow, 0, len(counts))
	for k, c := range counts {
		rows = append(rows, models.UserTrendRow{Month: k.month, Tier: k.tier, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Month.Equal(rows[j].Month) {
			return rows[i].Month.Before(rows[j].Month)
		}
		return rows[i].Tier.Rank() > rows[j].Tier.Rank()
	})
	return rows
}

// MonthlyStoreTrend группирует магазины по календарному месяцу создания.
func MonthlyStoreTrend(s *snapshot.Snapshot) []models.StoreTrendRow {
	counts := make(map[time.Time]int)
	for _, st := range s.Stores {
		counts[monthOf(st.CreatedAt)]++
	}

	rows := make([]models.StoreTrendRow, 0, len(counts))
	for m, c := range counts {
		rows = append(rows, models.StoreTrendRow{Month: m, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Month.Before(rows[j].Month)
	})
	return rows
}

// TopActiveUsers возвращает первых n пользователей по TotalTransactions
// по убыванию, при равенстве — по UserID по возрастанию.
func TopActiveUsers(s *snapshot.Snapshot, n int) []models.User {
	users := make([]models.User, len(s.Users))
	copy(users, s.Users)
	sort.Slice(users, func(i, j int) bool {
		if users[i].TotalTransactions != users[j].TotalTransactions {
			return users[i].TotalTransactions > users[j].TotalTransactions
		}
		return users[i].UserID < users[j].UserID
	})
	if n > 0 && len(users) > n {
		users = users[:n]
	}
	return users
}

// TopCities возвращает первые n городов по количеству пользователей.
func TopCities(s *snapshot.Snapshot, n int) []models.CategoryCount {
	counts := make(map[string]int)
	for _, u := range s.Users {
		counts[u.City]++
	}
	return topCategories(counts, n)
}

// TopReferralCodes возвращает первые n реферальных кодов по числу
// использований. Пользователи без кода не учитываются.
func TopReferralCodes(s *snapshot.Snapshot, n int) []models.CategoryCount {
	counts := make(map[string]int)
	for _, u := range s.Users {
		if u.ReferralCode == nil {
			continue
		}
		counts[*u.ReferralCode]++
	}
	return topCategories(counts, n)
}

// topCategories сортирует счётчики по убыванию, при равенстве —
// лексикографически по ключу, и отрезает первые n.
func topCategories(counts map[string]int, n int) []models.CategoryCount {
	rows := make([]models.CategoryCount, 0, len(counts))
	for k, c := range counts {
		rows = append(rows, models.CategoryCount{Key: k, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Key < rows[j].Key
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// ExpiringStores раскладывает магазины отфильтрованного снимка по окну
// истечения подписки. Магазин без текущего окна попадает только в окно "all".
// Имя владельца берётся из базового снимка цикла, а не из отфильтрованного:
// владелец мог не пройти пользовательские фильтры. Строки отсортированы
// по DaysToExpiry по возрастанию, магазины без окна — в конце.
func ExpiringStores(filtered, base *snapshot.Snapshot, w expiry.Window, now time.Time) []models.ExpiringStoreRow {
	var rows []models.ExpiringStoreRow
	for _, st := range filtered.Stores {
		if st.CurrentEnd == nil {
			if w == expiry.WindowAll {
				rows = append(rows, models.ExpiringStoreRow{Store: st, OwnerName: ownerName(base, st.OwnerUserID)})
			}
			continue
		}
		days := expiry.DaysTo(*st.CurrentEnd, now)
		if !w.Contains(days) {
			continue
		}
		d := days
		rows = append(rows, models.ExpiringStoreRow{
			Store:        st,
			OwnerName:    ownerName(base, st.OwnerUserID),
			DaysToExpiry: &d,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		di, dj := rows[i].DaysToExpiry, rows[j].DaysToExpiry
		switch {
		case di == nil && dj == nil:
			return rows[i].Store.StoreID < rows[j].Store.StoreID
		case di == nil:
			return false
		case dj == nil:
			return true
		case *di != *dj:
			return *di < *dj
		default:
			return rows[i].Store.StoreID < rows[j].Store.StoreID
		}
	})
	return rows
}

// ExpiringTrend группирует истекающие магазины по дате окончания подписки
// и тарифу. Строки отсортированы по дате по возрастанию, внутри даты —
// по рангу тарифа по убыванию.
func ExpiringTrend(rows []models.ExpiringStoreRow) []models.ExpiringTrendRow {
	type key struct {
		day  time.Time
		tier models.SubscriptionType
	}
	counts := make(map[key]int)
	for _, r := range rows {
		if r.Store.CurrentEnd == nil {
			continue
		}
		counts[key{day: dayOf(*r.Store.CurrentEnd), tier: r.Store.SubscriptionType}]++
	}

	trend := make([]models.ExpiringTrendRow, 0, len(counts))
	for k, c := range counts {
		trend = append(trend, models.ExpiringTrendRow{EndDate: k.day, Tier: k.tier, Count: c})
	}
	sort.Slice(trend, func(i, j int) bool {
		if !trend[i].EndDate.Equal(trend[j].EndDate) {
			return trend[i].EndDate.Before(trend[j].EndDate)
		}
		return trend[i].Tier.Rank() > trend[j].Tier.Rank()
	})
	return trend
}

// AffectedOwners возвращает записи владельцев магазинов из истекающей выборки
// без дубликатов, отсортированные по UserID. Пустой результат — корректное
// состояние отчёта, а не ошибка.
func AffectedOwners(rows []models.ExpiringStoreRow, base *snapshot.Snapshot) []models.User {
	seen := make(map[int]struct{})
	var owners []models.User
	for _, r := range rows {
		id := r.Store.OwnerUserID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if u, ok := base.UserByID(id); ok {
			owners = append(owners, u)
		}
	}
	sort.Slice(owners, func(i, j int) bool {
		return owners[i].UserID < owners[j].UserID
	})
	return owners
}

func ownerName(s *snapshot.Snapshot, ownerID int) string {
	if u, ok := s.UserByID(ownerID); ok {
		return u.Name
	}
	return ""
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
