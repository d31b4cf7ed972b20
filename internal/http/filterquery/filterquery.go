// Package filterquery разбирает query-параметры глобального фильтра панели
// в DummyFilter для последующей валидации и преобразования.
package filterquery

import (
	"net/url"

	"github.com/magabrotheeeer/possax-admin/internal/models"
)

// FromQuery собирает DummyFilter из query-параметров запроса.
// Повторяющиеся параметры cities, roles и subscription_types накапливаются;
// отсутствующий параметр означает «без ограничения».
func FromQuery(values url.Values) models.DummyFilter {
	return models.DummyFilter{
		From:              values.Get("from"),
		To:                values.Get("to"),
		Cities:            values["cities"],
		Roles:             values["roles"],
		SubscriptionTypes: values["subscription_types"],
	}
}
