package export

import "fmt"

// clockTS formats seconds as m:ss with floor-based fields, e.g. 75.9 ->
// "1:15". Minutes are unpadded, matching the on-screen time display.
func clockTS(seconds float64) string {
	totalSecs := int(seconds)
	mins := totalSecs / 60
	secs := totalSecs % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// srtTS formats seconds in the HH:MM:SS,mmm subtitle timestamp format.
// Hours, minutes and seconds are floor-based; milliseconds come from the
// fractional part. All fields are zero-padded to fixed widths.
func srtTS(seconds float64) string {
	totalSecs := int(seconds)
	hours := totalSecs / 3600
	minutes := (totalSecs % 3600) / 60
	secs := totalSecs % 60
	ms := int((seconds - float64(totalSecs)) * 1000)

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, ms)
}
