package notify

// Event topics published by the notify plugin.
const (
	TopicDelivered         = "notify.delivery.succeeded"
	TopicDeliveryExhausted = "notify.delivery.exhausted"
)
