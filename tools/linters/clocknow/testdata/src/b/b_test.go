package b

import realtime "time"

func fixtureNow() realtime.Time {
	return realtime.Now()
}
