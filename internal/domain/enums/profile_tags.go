package enums

type Interest string

const (
	InterestMusic    Interest = "Music"
	InterestFood     Interest = "Food"
	InterestTravel   Interest = "Travel"
	InterestGym      Interest = "Gym"
	InterestMovies   Interest = "Movies"
	InterestDance    Interest = "Dance"
	InterestBars     Interest = "Bars"
	InterestClub     Interest = "Club"
	InterestAnime    Interest = "Anime"
	InterestBeaches  Interest = "Beaches"
	InterestMountain Interest = "Mountain"
	InterestReading  Interest = "Reading"
)

var interests = []Interest{
	InterestMusic,
	InterestFood,
	InterestTravel,
	InterestGym,
	InterestMovies,
	InterestDance,
	InterestBars,
	InterestClub,
	InterestAnime,
	InterestBeaches,
	InterestMountain,
	InterestReading,
}

func Interests() []Interest {
	out := make([]Interest, len(interests))
	copy(out, interests)
	return out
}

func (i Interest) Valid() bool {
	for _, known := range interests {
		if known == i {
			return true
		}
	}
	return false
}

type LookingFor string

const (
	LookingForLongTerm    LookingFor = "Long time partner"
	LookingForShortTerm   LookingFor = "Short time partner"
	LookingForNoCommit    LookingFor = "No commitment"
	LookingForFiguringOut LookingFor = "Still figuring it out"
	LookingForHookUp      LookingFor = "Hook up type"
	LookingForChill       LookingFor = "Chill type"
)

var lookingFor = []LookingFor{
	LookingForLongTerm,
	LookingForShortTerm,
	LookingForNoCommit,
	LookingForFiguringOut,
	LookingForHookUp,
	LookingForChill,
}

func LookingForOptions() []LookingFor {
	out := make([]LookingFor, len(lookingFor))
	copy(out, lookingFor)
	return out
}

// Valid reports whether l is a known tag. Empty is valid since the tag is optional.
func (l LookingFor) Valid() bool {
	if l == "" {
		return true
	}
	for _, known := range lookingFor {
		if known == l {
			return true
		}
	}
	return false
}

type Religion string

const (
	ReligionHindu     Religion = "Hindu"
	ReligionChristian Religion = "Christian"
	ReligionMuslim    Religion = "Muslim"
	ReligionSikh      Religion = "Sikh"
)

var religions = []Religion{ReligionHindu, ReligionChristian, ReligionMuslim, ReligionSikh}

func Religions() []Religion {
	out := make([]Religion, len(religions))
	copy(out, religions)
	return out
}

func (r Religion) Valid() bool {
	if r == "" {
		return true
	}
	for _, known := range religions {
		if known == r {
			return true
		}
	}
	return false
}

func InterestStrings(in []Interest) []string {
	out := make([]string, 0, len(in))
	for _, interest := range in {
		out = append(out, string(interest))
	}
	return out
}

func InterestsFromStrings(in []string) []Interest {
	out := make([]Interest, 0, len(in))
	for _, value := range in {
		out = append(out, Interest(value))
	}
	return out
}
