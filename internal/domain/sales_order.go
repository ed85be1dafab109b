package domain

const (
	SalesOrderStatusSubmitted = "Submitted"
	SalesOrderStatusApproved  = "Approved"
	SalesOrderStatusRejected  = "Rejected"
)

type SalesOrder struct {
	ID            int64   `db:"id"`
	SoNumber      string  `db:"so_number"`
	IsSubmitted   bool    `db:"is_submitted"`
	SoStatus      *string `db:"so_status"`
	CurrentStatus *string `db:"current_status"`
	IsDeleted     bool    `db:"is_deleted"`
	CreatedAt     int64   `db:"created_at"`
	UpdatedAt     int64   `db:"updated_at"`
	UpdatedBy     *int64  `db:"updated_by"`
}

// IsTerminal reports whether the order has already been approved or rejected.
func (s SalesOrder) IsTerminal() bool {
	if s.SoStatus == nil {
		return false
	}
	return *s.SoStatus == SalesOrderStatusApproved || *s.SoStatus == SalesOrderStatusRejected
}

type SalesOrderStage struct {
	ID           int64  `db:"id"`
	SalesOrderID int64  `db:"sales_order_id"`
	StageName    string `db:"stage_name"`
	IsApproved   bool   `db:"is_approved"`
	CreatedAt    int64  `db:"created_at"`
	UpdatedAt    int64  `db:"updated_at"`
	UpdatedBy    *int64 `db:"updated_by"`
}
