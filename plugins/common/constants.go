package common

const (
	// LogSystemToken describes system log entry.
	LogSystemToken = "system"
	// LogProviderToken describes provider log entry.
	LogProviderToken = "provider"
	// LogErrorToken describes error log entry.
	LogErrorToken = "error"
	// LogFieldToken describes field log entry.
	LogFieldToken = "field"
)

const (
	// LogChannelToken describes hardware channel log entry.
	LogChannelToken = "channel"
	// LogPinToken describes pin log entry.
	LogPinToken = "pin"
	// LogGroupToken describes bus group log entry.
	LogGroupToken = "group"
	// LogClassToken describes bus message class log entry.
	LogClassToken = "class"
	// LogNodeToken describes event node log entry.
	LogNodeToken = "node"
	// LogEventToken describes light event log entry.
	LogEventToken = "event"
	// LogLightKindToken describes light kind log entry.
	LogLightKindToken = "light_kind"
	// LogMemberToken describes composite member log entry.
	LogMemberToken = "member"
	// LogValueToken describes light value log entry.
	LogValueToken = "value"
	// LogDurationToken describes fade duration log entry.
	LogDurationToken = "duration"
)
