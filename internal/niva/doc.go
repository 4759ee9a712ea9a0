package niva

// Package niva decodes NIVA positional data readings into geo.Waypoints.
//
// A reading looks like
//
//	#NEIL[+45.67,-23.24,231.56,19:44:21]3B;
//
// - '#' marker, then a format code of ASCII letters (case-insensitive)
// - '[' payload of comma-separated fields ']'
// - two hex digits: XOR of the payload bytes
// - ';' terminator
//
// Decoding is staged: IsWellformedDataReading, HasMatchingChecksum,
// ParseDataReading, IsKnownFormat, HasCorrectNumberOfFields and
// ExtractWaypointFromReading. Scanner drives the stages over a whole log and
// drops any fragment that fails one of them.
