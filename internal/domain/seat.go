package domain

import "time"

type SeatType string

const (
	SeatTypeWindow SeatType = "WINDOW"
	SeatTypeMiddle SeatType = "MIDDLE"
	SeatTypeAisle  SeatType = "AISLE"
)

type SeatSection string

const (
	SeatSectionFront  SeatSection = "FRONT"
	SeatSectionMiddle SeatSection = "MIDDLE"
	SeatSectionBack   SeatSection = "BACK"
)

type SeatDetails struct {
	Type            SeatType
	Section         SeatSection
	Row             int
	Column          string
	IsEmergencyExit bool
	IsReclinable    bool
	ExtraLegroom    bool
}

type Seat struct {
	ID         string
	FlightID   string
	UserID     string
	SeatNumber string
	Details    SeatDetails
	OpenToSwap bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
