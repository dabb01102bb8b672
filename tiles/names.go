package tiles

import "strconv"

// suitRank fixes the suit ordering used by SortDefault.
var suitRank = map[Suit]int{
	SuitBamboo:    0,
	SuitCharacter: 1,
	SuitDot:       2,
	SuitDragon:    3,
	SuitWind:      4,
}

// nameRank fixes the name ordering within a suit used by SortDefault.
var nameRank = map[string]int{
	"1": 1, "2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9,
	WindEast: 1, WindSouth: 2, WindWest: 3, WindNorth: 4,
	DragonGreen: 1, DragonRed: 2, DragonWhite: 3,
}

// NextWind returns the wind following the given one in turn order.
func NextWind(name string) string {
	switch name {
	case WindEast:
		return WindSouth
	case WindSouth:
		return WindWest
	case WindWest:
		return WindNorth
	default:
		return WindEast
	}
}

// PrevWind returns the wind preceding the given one in turn order.
func PrevWind(name string) string {
	switch name {
	case WindEast:
		return WindNorth
	case WindSouth:
		return WindEast
	case WindWest:
		return WindSouth
	default:
		return WindWest
	}
}

// NextDragon cycles green -> red -> white -> green.
func NextDragon(name string) string {
	switch name {
	case DragonGreen:
		return DragonRed
	case DragonRed:
		return DragonWhite
	default:
		return DragonGreen
	}
}

// NextNumber returns the successor of a numeric tile name, wrapping 9 to 1.
func NextNumber(name string) string {
	n, _ := strconv.Atoi(name)
	return strconv.Itoa(n%9 + 1)
}

// PrevNumber returns the predecessor of a numeric tile name, wrapping 1 to 9.
func PrevNumber(name string) string {
	n, _ := strconv.Atoi(name)
	if n == 1 {
		return "9"
	}
	return strconv.Itoa(n - 1)
}

// NextTileName returns the dora successor of a tile: the next number in its
// suit, the next wind in wind order, or the next dragon in dragon order.
func NextTileName(suit Suit, name string) string {
	switch suit {
	case SuitWind:
		return NextWind(name)
	case SuitDragon:
		return NextDragon(name)
	default:
		return NextNumber(name)
	}
}
