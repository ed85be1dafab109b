package dto

type SalesOrderResponse struct {
	ID            int64   `json:"id"`
	SoNumber      string  `json:"soNumber"`
	IsSubmitted   bool    `json:"isSubmitted"`
	SoStatus      *string `json:"soStatus"`
	CurrentStatus *string `json:"currentStatus"`
	UpdatedAt     int64   `json:"updatedAt"`
}

type SalesOrderStageResponse struct {
	ID           int64  `json:"id"`
	SalesOrderID int64  `json:"salesOrderId"`
	StageName    string `json:"stageName"`
	IsApproved   bool   `json:"isApproved"`
	UpdatedAt    int64  `json:"updatedAt"`
}
