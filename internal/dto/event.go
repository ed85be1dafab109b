package dto

type UserRegisteredEvent struct {
	UserID     int64  `json:"userId"`
	ExternalID string `json:"externalId"`
	Username   string `json:"username"`
	Email      string `json:"email"`
}

type SalesOrderStatusEvent struct {
	SalesOrderID int64  `json:"salesOrderId"`
	SoNumber     string `json:"soNumber"`
	Status       string `json:"status"`
	ActorID      int64  `json:"actorId"`
}

type SalesOrderStageEvent struct {
	SalesOrderID int64  `json:"salesOrderId"`
	StageName    string `json:"stageName"`
	IsApproved   bool   `json:"isApproved"`
	ActorID      int64  `json:"actorId"`
}
