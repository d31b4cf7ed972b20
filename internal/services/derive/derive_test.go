package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/possax-admin/internal/apperr"
	"github.com/magabrotheeeer/possax-admin/internal/models"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
)

func day(d int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func TestEnrich_CurrentWindowFromLatestActiveTransaction(t *testing.T) {
	// Две активные транзакции: окно берётся из той, что кончается позже,
	// счётчики — по всей истории.
	snap := snapshot.New(
		nil,
		[]models.Store{{StoreID: 1, SubscriptionType: models.SubscriptionBasic}},
		[]models.SubscriptionTransaction{
			{SubscriptionID: 1, StoreID: 1, Type: models.SubscriptionPro,
				StartDate: day(10), EndDate: day(20), AmountPaid: 400_000, IsActive: true},
			{SubscriptionID: 2, StoreID: 1, Type: models.SubscriptionBasic,
				StartDate: day(40), EndDate: day(70), AmountPaid: 200_000, IsActive: true},
		},
		time.Now(),
	)

	enriched, err := Enrich(snap)
	require.NoError(t, err)

	store := enriched.Stores[0]
	require.NotNil(t, store.CurrentStart)
	require.NotNil(t, store.CurrentEnd)
	assert.Equal(t, day(40), *store.CurrentStart)
	assert.Equal(t, day(70), *store.CurrentEnd)
	assert.Equal(t, models.SubscriptionBasic, store.SubscriptionType)
	assert.Equal(t, 2, store.RecurringCount)
	assert.Equal(t, 600_000, store.TotalMoneySpent)
}

func TestEnrich_TieBrokenByHighestSubscriptionID(t *testing.T) {
	snap := snapshot.New(
		nil,
		[]models.Store{{StoreID: 1, SubscriptionType: models.SubscriptionPro}},
		[]models.SubscriptionTransaction{
			{SubscriptionID: 7, StoreID: 1, Type: models.SubscriptionBasic,
				StartDate: day(0), EndDate: day(30), IsActive: true},
			{SubscriptionID: 9, StoreID: 1, Type: models.SubscriptionPro,
				StartDate: day(1), EndDate: day(30), IsActive: true},
		},
		time.Now(),
	)

	enriched, err := Enrich(snap)
	require.NoError(t, err)
	assert.Equal(t, day(1), *enriched.Stores[0].CurrentStart)
}

func TestEnrich_CancelledTransactionsCountButDoNotDefineWindow(t *testing.T) {
	snap := snapshot.New(
		nil,
		[]models.Store{{StoreID: 1, SubscriptionType: models.SubscriptionBasic}},
		[]models.SubscriptionTransaction{
			{SubscriptionID: 1, StoreID: 1, Type: models.SubscriptionBasic,
				StartDate: day(0), EndDate: day(30), AmountPaid: 200_000, IsActive: true},
			{SubscriptionID: 2, StoreID: 1, Type: models.SubscriptionPro,
				StartDate: day(30), EndDate: day(60), AmountPaid: 400_000, IsActive: false},
		},
		time.Now(),
	)

	enriched, err := Enrich(snap)
	require.NoError(t, err)

	store := enriched.Stores[0]
	assert.Equal(t, day(30), *store.CurrentEnd)
	assert.Equal(t, models.SubscriptionBasic, store.SubscriptionType)
	assert.Equal(t, 2, store.RecurringCount)
	assert.Equal(t, 600_000, store.TotalMoneySpent)
}

func TestEnrich_StoreWithoutActiveTransactions(t *testing.T) {
	old := day(5)
	snap := snapshot.New(
		nil,
		[]models.Store{{StoreID: 1, SubscriptionType: models.SubscriptionPro,
			CurrentStart: &old, CurrentEnd: &old}},
		[]models.SubscriptionTransaction{
			{SubscriptionID: 1, StoreID: 1, Type: models.SubscriptionPro,
				StartDate: day(0), EndDate: day(30), AmountPaid: 400_000, IsActive: false},
		},
		time.Now(),
	)

	enriched, err := Enrich(snap)
	require.NoError(t, err)

	store := enriched.Stores[0]
	assert.Nil(t, store.CurrentStart)
	assert.Nil(t, store.CurrentEnd)
	assert.Equal(t, models.SubscriptionNonPaid, store.SubscriptionType)
	assert.Equal(t, 1, store.RecurringCount)
	assert.Equal(t, 400_000, store.TotalMoneySpent)
}

func TestEnrich_IntegrityMismatch(t *testing.T) {
	snap := snapshot.New(
		nil,
		[]models.Store{{StoreID: 3, SubscriptionType: models.SubscriptionPro}},
		[]models.SubscriptionTransaction{
			{SubscriptionID: 1, StoreID: 3, Type: models.SubscriptionBasic,
				StartDate: day(0), EndDate: day(30), IsActive: true},
		},
		time.Now(),
	)

	_, err := Enrich(snap)
	require.Error(t, err)
	assert.True(t, apperr.IsIntegrity(err))

	var ie *apperr.IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 3, ie.StoreID)
}

func TestEnrich_UserTierIsMaxOverStores(t *testing.T) {
	snap := snapshot.New(
		[]models.User{
			{UserID: 1, Stores: []int{1, 2}},
			{UserID: 2, Stores: nil},
			{UserID: 3, Stores: []int{99}}, // ссылка на несуществующий магазин
		},
		[]models.Store{
			{StoreID: 1, SubscriptionType: models.SubscriptionTrial},
			{StoreID: 2, SubscriptionType: models.SubscriptionPro},
		},
		[]models.SubscriptionTransaction{
			{SubscriptionID: 1, StoreID: 1, Type: models.SubscriptionTrial,
				StartDate: day(0), EndDate: day(30), IsActive: true},
			{SubscriptionID: 2, StoreID: 2, Type: models.SubscriptionPro,
				StartDate: day(0), EndDate: day(30), IsActive: true},
		},
		time.Now(),
	)

	enriched, err := Enrich(snap)
	require.NoError(t, err)

	assert.Equal(t, models.SubscriptionPro, enriched.Users[0].UserSubscriptionType)
	assert.Equal(t, models.SubscriptionNonPaid, enriched.Users[1].UserSubscriptionType)
	assert.Equal(t, models.SubscriptionNonPaid, enriched.Users[2].UserSubscriptionType)
}

func TestEnrich_DoesNotMutateSource(t *testing.T) {
	snap := snapshot.New(
		nil,
		[]models.Store{{StoreID: 1, SubscriptionType: models.SubscriptionBasic}},
		[]models.SubscriptionTransaction{
			{SubscriptionID: 1, StoreID: 1, Type: models.SubscriptionBasic,
				StartDate: day(0), EndDate: day(30), AmountPaid: 200_000, IsActive: true},
		},
		time.Now(),
	)

	_, err := Enrich(snap)
	require.NoError(t, err)

	assert.Nil(t, snap.Stores[0].CurrentEnd)
	assert.Equal(t, 0, snap.Stores[0].RecurringCount)
	assert.Equal(t, 0, snap.Stores[0].TotalMoneySpent)
}
