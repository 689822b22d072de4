package period

type CreatePeriodRequest struct {
	Year      int    `json:"year" binding:"required,min=2000,max=2100"`
	Month     int    `json:"month" binding:"required,min=1,max=12"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	PayDate   string `json:"pay_date"`
	Status    string `json:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS CLOSED PAID"`
}

// UpdatePeriodRequest only touches pay date and status; the calendar range
// of a period is fixed once created.
type UpdatePeriodRequest struct {
	PayDate *string `json:"pay_date"`
	Status  *string `json:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS CLOSED PAID"`
}

type PeriodFilter struct {
	Year   int    `form:"year" binding:"omitempty,min=2000,max=2100"`
	Status string `form:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS CLOSED PAID"`
}

type PeriodResponse struct {
	ID        string `json:"id"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Label     string `json:"label"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	PayDate   string `json:"pay_date"`
	Status    string `json:"status"`
	IsClosed  bool   `json:"is_closed"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
