package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/possax-admin/internal/models"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestLookupsReturnCopies(t *testing.T) {
	snap := New(
		[]models.User{{UserID: 1, Name: "Ayu"}},
		[]models.Store{{StoreID: 1, StoreName: "Warung Ayu"}},
		nil, time.Now(),
	)

	u, ok := snap.UserByID(1)
	require.True(t, ok)
	u.Name = "changed"
	assert.Equal(t, "Ayu", snap.Users[0].Name)

	st, ok := snap.StoreByID(1)
	require.True(t, ok)
	st.StoreName = "changed"
	assert.Equal(t, "Warung Ayu", snap.Stores[0].StoreName)

	_, ok = snap.UserByID(42)
	assert.False(t, ok)
	_, ok = snap.StoreByID(42)
	assert.False(t, ok)
}

func TestTransactionsForStore_SortedByEndDateThenID(t *testing.T) {
	snap := New(nil, nil,
		[]models.SubscriptionTransaction{
			{SubscriptionID: 3, StoreID: 1, EndDate: date(2025, 3, 1)},
			{SubscriptionID: 1, StoreID: 1, EndDate: date(2025, 5, 1)},
			{SubscriptionID: 2, StoreID: 1, EndDate: date(2025, 3, 1)},
			{SubscriptionID: 4, StoreID: 2, EndDate: date(2025, 1, 1)},
		},
		time.Now(),
	)

	txns := snap.TransactionsForStore(1)

	require.Len(t, txns, 3)
	assert.Equal(t, 2, txns[0].SubscriptionID)
	assert.Equal(t, 3, txns[1].SubscriptionID)
	assert.Equal(t, 1, txns[2].SubscriptionID)

	assert.Nil(t, snap.TransactionsForStore(99))
}

func TestClone_DeepCopy(t *testing.T) {
	end := date(2025, 4, 1)
	code := "PROMO1"
	snap := New(
		[]models.User{{UserID: 1, Stores: []int{1}, ReferralCode: &code}},
		[]models.Store{{StoreID: 1, CurrentEnd: &end}},
		nil, time.Now(),
	)

	clone := snap.Clone()
	clone.Users[0].Stores[0] = 99
	*clone.Users[0].ReferralCode = "OTHER"
	*clone.Stores[0].CurrentEnd = date(2030, 1, 1)

	assert.Equal(t, 1, snap.Users[0].Stores[0])
	assert.Equal(t, "PROMO1", *snap.Users[0].ReferralCode)
	assert.Equal(t, end, *snap.Stores[0].CurrentEnd)
}

func TestClone_FreshVersionSameTakenAt(t *testing.T) {
	takenAt := date(2025, 6, 1)
	snap := New(nil, nil, nil, takenAt)

	clone := snap.Clone()

	assert.NotEqual(t, snap.Version, clone.Version)
	assert.Equal(t, takenAt, clone.TakenAt)
}
