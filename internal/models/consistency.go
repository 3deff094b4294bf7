package models

type ConsistencyLevel struct {
	Rating int
	Name   string
	Color  string
}

func ConsistencyLevels() []ConsistencyLevel {
	return []ConsistencyLevel{
		{Rating: 1, Name: "Watery", Color: "#DFB065"},
		{Rating: 2, Name: "Soft", Color: "#EAC995"},
		{Rating: 3, Name: "Normal", Color: "#8CA99B"},
		{Rating: 4, Name: "Firm", Color: "#8F6D32"},
		{Rating: 5, Name: "Hard", Color: "#5C4620"},
	}
}

func ConsistencyLevelFor(rating int) (ConsistencyLevel, bool) {
	if !IsValidConsistencyRating(rating) {
		return ConsistencyLevel{}, false
	}
	return ConsistencyLevels()[rating-1], true
}
