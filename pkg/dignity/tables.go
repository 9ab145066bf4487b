package dignity

import "github.com/calder-ross/almagest/pkg/zodiac"

// Classical rulership tables. Domicile, exaltation, detriment and fall are
// keyed by sign; triplicities follow the Dorothean day/night rulers keyed by
// element; terms use the Egyptian bounds; faces follow the Chaldean order.

// domicileRulers maps each sign to its domicile ruler.
var domicileRulers = map[zodiac.Sign]zodiac.Planet{
	zodiac.Aries:       zodiac.Mars,
	zodiac.Taurus:      zodiac.Venus,
	zodiac.Gemini:      zodiac.Mercury,
	zodiac.Cancer:      zodiac.Moon,
	zodiac.Leo:         zodiac.Sun,
	zodiac.Virgo:       zodiac.Mercury,
	zodiac.Libra:       zodiac.Venus,
	zodiac.Scorpio:     zodiac.Mars,
	zodiac.Sagittarius: zodiac.Jupiter,
	zodiac.Capricorn:   zodiac.Saturn,
	zodiac.Aquarius:    zodiac.Saturn,
	zodiac.Pisces:      zodiac.Jupiter,
}

// detrimentPlanets maps each sign to the planet in detriment there (the
// domicile ruler of the opposite sign).
var detrimentPlanets = map[zodiac.Sign]zodiac.Planet{
	zodiac.Aries:       zodiac.Venus,
	zodiac.Taurus:      zodiac.Mars,
	zodiac.Gemini:      zodiac.Jupiter,
	zodiac.Cancer:      zodiac.Saturn,
	zodiac.Leo:         zodiac.Saturn,
	zodiac.Virgo:       zodiac.Jupiter,
	zodiac.Libra:       zodiac.Mars,
	zodiac.Scorpio:     zodiac.Venus,
	zodiac.Sagittarius: zodiac.Mercury,
	zodiac.Capricorn:   zodiac.Moon,
	zodiac.Aquarius:    zodiac.Sun,
	zodiac.Pisces:      zodiac.Mercury,
}

// exaltations maps each classical planet to its sign of exaltation.
var exaltations = map[zodiac.Planet]zodiac.Sign{
	zodiac.Sun:     zodiac.Aries,
	zodiac.Moon:    zodiac.Taurus,
	zodiac.Mercury: zodiac.Virgo,
	zodiac.Venus:   zodiac.Pisces,
	zodiac.Mars:    zodiac.Capricorn,
	zodiac.Jupiter: zodiac.Cancer,
	zodiac.Saturn:  zodiac.Libra,
}

// falls maps each classical planet to its sign of fall (opposite the
// exaltation sign).
var falls = map[zodiac.Planet]zodiac.Sign{
	zodiac.Sun:     zodiac.Libra,
	zodiac.Moon:    zodiac.Scorpio,
	zodiac.Mercury: zodiac.Pisces,
	zodiac.Venus:   zodiac.Virgo,
	zodiac.Mars:    zodiac.Cancer,
	zodiac.Jupiter: zodiac.Capricorn,
	zodiac.Saturn:  zodiac.Aries,
}

// triplicityRulers holds the Dorothean day and night triplicity rulers per
// element. The participating ruler is not scored.
var triplicityRulers = map[zodiac.Element]struct {
	day   zodiac.Planet
	night zodiac.Planet
}{
	zodiac.Fire:  {day: zodiac.Sun, night: zodiac.Jupiter},
	zodiac.Earth: {day: zodiac.Venus, night: zodiac.Moon},
	zodiac.Air:   {day: zodiac.Saturn, night: zodiac.Mercury},
	zodiac.Water: {day: zodiac.Venus, night: zodiac.Mars},
}

// termBound is one Egyptian term: ruler holds from the previous bound's end
// (or 0°) up to but not including upTo degrees within the sign.
type termBound struct {
	upTo  float64
	ruler zodiac.Planet
}

// egyptianTerms lists the five term bounds per sign. Bounds are cumulative
// and the last always ends at 30°.
var egyptianTerms = map[zodiac.Sign][5]termBound{
	zodiac.Aries: {
		{6, zodiac.Jupiter}, {12, zodiac.Venus}, {20, zodiac.Mercury}, {25, zodiac.Mars}, {30, zodiac.Saturn},
	},
	zodiac.Taurus: {
		{8, zodiac.Venus}, {14, zodiac.Mercury}, {22, zodiac.Jupiter}, {27, zodiac.Saturn}, {30, zodiac.Mars},
	},
	zodiac.Gemini: {
		{6, zodiac.Mercury}, {12, zodiac.Jupiter}, {17, zodiac.Venus}, {24, zodiac.Mars}, {30, zodiac.Saturn},
	},
	zodiac.Cancer: {
		{7, zodiac.Mars}, {13, zodiac.Venus}, {19, zodiac.Mercury}, {26, zodiac.Jupiter}, {30, zodiac.Saturn},
	},
	zodiac.Leo: {
		{6, zodiac.Jupiter}, {11, zodiac.Venus}, {18, zodiac.Saturn}, {24, zodiac.Mercury}, {30, zodiac.Mars},
	},
	zodiac.Virgo: {
		{7, zodiac.Mercury}, {17, zodiac.Venus}, {21, zodiac.Jupiter}, {28, zodiac.Mars}, {30, zodiac.Saturn},
	},
	zodiac.Libra: {
		{6, zodiac.Saturn}, {14, zodiac.Mercury}, {21, zodiac.Jupiter}, {28, zodiac.Venus}, {30, zodiac.Mars},
	},
	zodiac.Scorpio: {
		{7, zodiac.Mars}, {11, zodiac.Venus}, {19, zodiac.Mercury}, {24, zodiac.Jupiter}, {30, zodiac.Saturn},
	},
	zodiac.Sagittarius: {
		{12, zodiac.Jupiter}, {17, zodiac.Venus}, {21, zodiac.Mercury}, {26, zodiac.Saturn}, {30, zodiac.Mars},
	},
	zodiac.Capricorn: {
		{7, zodiac.Mercury}, {14, zodiac.Jupiter}, {22, zodiac.Venus}, {26, zodiac.Saturn}, {30, zodiac.Mars},
	},
	zodiac.Aquarius: {
		{7, zodiac.Mercury}, {13, zodiac.Venus}, {20, zodiac.Jupiter}, {25, zodiac.Mars}, {30, zodiac.Saturn},
	},
	zodiac.Pisces: {
		{12, zodiac.Venus}, {16, zodiac.Jupiter}, {19, zodiac.Mercury}, {28, zodiac.Mars}, {30, zodiac.Saturn},
	},
}

// chaldeanOrder is the planetary order used by the face (decan) rulers,
// starting from the first decan of Aries.
var chaldeanOrder = [7]zodiac.Planet{
	zodiac.Mars, zodiac.Sun, zodiac.Venus, zodiac.Mercury,
	zodiac.Moon, zodiac.Saturn, zodiac.Jupiter,
}

// termRuler returns the Egyptian term ruler for a degree within a sign.
func termRuler(sign zodiac.Sign, degree float64) zodiac.Planet {
	bounds := egyptianTerms[sign]
	for _, b := range bounds {
		if degree < b.upTo {
			return b.ruler
		}
	}
	// degree == 30 cannot occur for a normalized longitude; treat as the
	// final bound rather than failing.
	return bounds[4].ruler
}

// faceRuler returns the Chaldean face (decan) ruler for a degree within a
// sign. Decans advance through the Chaldean order continuously around the
// zodiac: Aries I is Mars, Aries II the Sun, and so on through all 36.
func faceRuler(sign zodiac.Sign, degree float64) zodiac.Planet {
	decan := int(sign)*3 + int(degree/10)
	return chaldeanOrder[decan%7]
}
