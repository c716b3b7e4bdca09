package players

import "strings"

// Canonical position names.
const (
	PointGuard    = "Point Guard"
	ShootingGuard = "Shooting Guard"
	SmallForward  = "Small Forward"
	PowerForward  = "Power Forward"
	Center        = "Center"
	Guard         = "Guard"
	Forward       = "Forward"
	GuardForward  = "Guard-Forward"
	ForwardCenter = "Forward-Center"
)

var positionNames = map[string]string{
	"1": PointGuard, "2": ShootingGuard, "3": SmallForward, "4": PowerForward, "5": Center,

	"pg": PointGuard, "sg": ShootingGuard, "sf": SmallForward, "pf": PowerForward, "c": Center,
	"g": Guard, "f": Forward,
	"g-f": GuardForward, "f-g": GuardForward,
	"f-c": ForwardCenter, "c-f": ForwardCenter,

	"point guard": PointGuard, "shooting guard": ShootingGuard, "small forward": SmallForward,
	"power forward": PowerForward, "center": Center, "centre": Center,
	"guard": Guard, "forward": Forward,
	"guard-forward": GuardForward, "forward-center": ForwardCenter,
}

var positionAbbrevs = map[string]string{
	PointGuard:    "PG",
	ShootingGuard: "SG",
	SmallForward:  "SF",
	PowerForward:  "PF",
	Center:        "C",
	Guard:         "G",
	Forward:       "F",
	GuardForward:  "G-F",
	ForwardCenter: "F-C",
}

// PositionName maps a numeric, abbreviated or spelled-out position to its
// canonical name. Unknown values come back unchanged.
func PositionName(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if name, ok := positionNames[key]; ok {
		return name
	}
	return strings.TrimSpace(raw)
}

// PositionAbbrev returns the short form of a position, or "" when unknown.
func PositionAbbrev(raw string) string {
	return positionAbbrevs[PositionName(raw)]
}
