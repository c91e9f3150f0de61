package config

// FacilityConfig is the static operating schedule shown on the status
// card.  The reservation core never reads it.
type FacilityConfig struct {
	OpenHour         int // opening hour, 24h clock
	CloseHour        int // closing hour, 24h clock
	CloseMinute      int // closing minute within CloseHour
	LunchHour        int // lunch break start hour
	LunchDurationMin int // lunch break length in minutes
}

// LoadFacilityConfig reads the schedule from the environment with the
// house defaults: open 10:00–19:30, lunch 13:00–14:00.
func LoadFacilityConfig() FacilityConfig {
	return FacilityConfig{
		OpenHour:         envInt("FACILITY_OPEN_HOUR", 10),
		CloseHour:        envInt("FACILITY_CLOSE_HOUR", 19),
		CloseMinute:      envInt("FACILITY_CLOSE_MINUTE", 30),
		LunchHour:        envInt("FACILITY_LUNCH_HOUR", 13),
		LunchDurationMin: envInt("FACILITY_LUNCH_DURATION_MIN", 60),
	}
}
