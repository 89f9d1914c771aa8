// Package color assigns avatar colors to users.
package color

import "hash/fnv"

// palette holds the avatar colors clients render behind user initials.
// Hues are spaced for contrast against a light UI.
//
//nolint:gochecknoglobals // Static palette
var palette = []string{
	"#E57373", // red
	"#F06292", // pink
	"#BA68C8", // purple
	"#7986CB", // indigo
	"#4FC3F7", // light blue
	"#4DB6AC", // teal
	"#81C784", // green
	"#DCE775", // lime
	"#FFB74D", // orange
	"#A1887F", // brown
}

// ForUser returns a stable color for a user. The same ID always maps to
// the same palette entry, so avatars keep their color across sessions
// and devices without storing anything.
func ForUser(userID string) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return palette[h.Sum32()%uint32(len(palette))]
}
