package mlb

// KnownBallparkFactors returns the static park factor table for all MLB
// venues. Factors are home-run indexes relative to a league average of
// 100; sources don't publish these through the Stats API, so the table
// is maintained by hand.
func KnownBallparkFactors() BallparkFactors {
	return BallparkFactors{
		"Yankee Stadium":              101,
		"Fenway Park":                 96,
		"Tropicana Field":             92,
		"Rogers Centre":               95,
		"Oriole Park at Camden Yards": 105,
		"Progressive Field":           98,
		"Guaranteed Rate Field":       100,
		"Comerica Park":               94,
		"Kauffman Stadium":            96,
		"Target Field":                99,
		"Minute Maid Park":            103,
		"Angel Stadium":               97,
		"Oakland Coliseum":            89,
		"T-Mobile Park":               93,
		"Globe Life Field":            106,
		"Coors Field":                 112,
		"Chase Field":                 102,
		"Dodger Stadium":              95,
		"PETCO Park":                  91,
		"Oracle Park":                 88,
		"American Family Field":       102,
		"Wrigley Field":               104,
		"Great American Ball Park":    105,
		"PNC Park":                    96,
		"Busch Stadium":               97,
		"Truist Park":                 103,
		"loanDepot park":              95,
		"Citi Field":                  94,
		"Citizens Bank Park":          107,
		"Nationals Park":              99,
		"Sutter Health Park":          113, // Athletics temporary stadium
		"Steinbrenner Field":          108, // Rays temporary stadium
	}
}
