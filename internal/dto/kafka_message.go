package dto

type KafkaMessage struct {
	ID         string      `json:"id"`
	EventType  string      `json:"event_type"`
	OccurredAt int64       `json:"occurred_at"`
	Data       interface{} `json:"data"`
}
