package maintenance

// Event topics published by the maintenance plugin.
const (
	TopicTaskScheduled = "maintenance.task.scheduled"
	TopicTaskStarted   = "maintenance.task.started"
	TopicTaskCompleted = "maintenance.task.completed"
	TopicTaskCancelled = "maintenance.task.cancelled"
)
