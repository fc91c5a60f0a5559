package attendance

import (
	"context"
)

// Service is the attendance pipeline: punches in, day rollups out.
type Service interface {
	CheckIn(ctx context.Context, employeeID string) (CheckInResponse, error)
	CheckOut(ctx context.Context, employeeID string) (CheckOutResponse, error)
	TodayStatus(ctx context.Context, employeeID string) (TodayStatusResponse, error)
	MonthView(ctx context.Context, employeeID string, year, month int) (MonthViewResponse, error)

	// Administrative operations
	RecomputeRange(ctx context.Context, req RecomputeRangeRequest) (RecomputeRangeResponse, error)
	RangeReport(ctx context.Context, req RangeReportRequest) ([]DayResponse, error)
	OverrideDay(ctx context.Context, req OverrideDayRequest) (DayResponse, error)
	SetDayLock(ctx context.Context, employeeID, date string, locked bool) (DayResponse, error)
}
