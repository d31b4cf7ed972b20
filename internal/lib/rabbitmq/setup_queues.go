package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди уведомлений панели.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.store.expiring", RoutingKey: "store.expiring"},
	}
}
