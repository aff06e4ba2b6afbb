package rabbitmq

// QueueConfig связывает имя очереди с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// PublishedQueue — очередь уведомлений об опубликованных статьях.
const (
	PublishedQueue      = "notifications.published"
	PublishedRoutingKey = "published"
)

// GetNotificationQueues возвращает очереди уведомлений сервиса.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: PublishedQueue, RoutingKey: PublishedRoutingKey},
	}
}
