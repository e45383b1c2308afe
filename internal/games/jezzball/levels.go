package jezzball

// ArenaType is the cosmetic theme of a level.
type ArenaType string

const (
	ArenaCube    ArenaType = "cube"
	ArenaSphere  ArenaType = "sphere"
	ArenaPyramid ArenaType = "pyramid"
	ArenaHexagon ArenaType = "hexagon"
)

// Icon returns the display glyph for the arena type.
func (a ArenaType) Icon() string {
	switch a {
	case ArenaSphere:
		return "●"
	case ArenaPyramid:
		return "▲"
	case ArenaHexagon:
		return "⬡"
	default:
		return "■"
	}
}

// LevelInfo is static presentation data for a campaign level.
// It does not influence the simulation.
type LevelInfo struct {
	Number     int
	Name       string
	Arena      ArenaType
	Difficulty string // Easy, Medium, Hard, Expert
	Unlocked   bool   // Selectable without having reached it
}

var levelInfos = []LevelInfo{
	{1, "First Steps", ArenaCube, "Easy", true},
	{2, "Building Momentum", ArenaCube, "Easy", true},
	{3, "Triple Threat", ArenaCube, "Medium", true},
	{4, "Sphere Challenge", ArenaSphere, "Medium", true},
	{5, "Curved Chaos", ArenaSphere, "Medium", false},
	{6, "Pyramid Power", ArenaPyramid, "Hard", false},
	{7, "Angular Assault", ArenaPyramid, "Hard", false},
	{8, "Hexagon Haven", ArenaHexagon, "Expert", false},
	{9, "Master's Trial", ArenaHexagon, "Expert", false},
	{10, "Ultimate Challenge", ArenaCube, "Expert", false},
}

// LevelCount returns the number of campaign levels.
func LevelCount() int {
	return len(levelInfos)
}

// Levels returns the campaign level table.
func Levels() []LevelInfo {
	return append([]LevelInfo(nil), levelInfos...)
}

// LevelByNumber returns metadata for a 1-based level.
// Levels past the campaign reuse the last entry's theme.
func LevelByNumber(n int) LevelInfo {
	if n < 1 {
		n = 1
	}
	if n > len(levelInfos) {
		info := levelInfos[len(levelInfos)-1]
		info.Number = n
		info.Name = "Endless"
		return info
	}
	return levelInfos[n-1]
}

// LevelUnlocked reports whether a level can be selected given the highest
// level the player has reached.
func LevelUnlocked(n, reached int) bool {
	if n < 1 || n > len(levelInfos) {
		return false
	}
	return levelInfos[n-1].Unlocked || n <= reached
}
