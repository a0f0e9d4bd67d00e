package extract

import "regexp"

// timestampShape pairs a detection regex with the strptime-style format string
// reported for it.
type timestampShape struct {
	re     *regexp.Regexp
	format string
}

// timestampShapes is the fixed priority order for timestamp recipe detection.
// The first shape that matches anywhere in the sample wins.
var timestampShapes = []timestampShape{
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`), "%Y-%m-%dT%H:%M:%S"}, // ISO 8601
	{regexp.MustCompile(`\w{3} \d{1,2} \d{2}:\d{2}:\d{2}`), "%b %d %H:%M:%S"},        // syslog
	{regexp.MustCompile(`\d{1,2}/\w{3}/\d{4}:\d{2}:\d{2}:\d{2}`), "%d/%b/%Y:%H:%M:%S"}, // Apache
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`), "%Y-%m-%d %H:%M:%S"},   // space-separated
}

// DetectTimeFormat returns the format string of the first built-in timestamp
// shape matching the sample, or an empty string when none match.
func DetectTimeFormat(sample string) string {
	for _, shape := range timestampShapes {
		if shape.re.MatchString(sample) {
			return shape.format
		}
	}
	return ""
}
