package predict

// Event topics published by the predict module.
const (
	TopicPredictionGenerated = "predict.prediction.generated"
)
