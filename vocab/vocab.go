// Package vocab holds the static vocabulary tables driving category
// inference, image/category matching, urgency tagging and the profanity
// filter. The tables are read-only at runtime.
package vocab

// Category names recognized by the pipeline. CategoryOther is the sentinel
// returned when no category is recognized and is always rejected.
const (
	CategoryRoadTraffic       = "Road & Traffic"
	CategoryGarbageSanitation = "Garbage & Sanitation"
	CategoryStreetLighting    = "Street Lighting"
	CategoryWaterDrainage     = "Water & Drainage"
	CategoryParksRecreation   = "Parks & Recreation"
	CategoryPublicSafety      = "Public Safety"
	CategoryElectricity       = "Electricity"
	CategoryOther             = "Other"
)

// CategoryPriority is the fixed tie-break order for category scoring.
// When two categories score the same, the one listed first wins.
var CategoryPriority = []string{
	CategoryPublicSafety,
	CategoryRoadTraffic,
	CategoryGarbageSanitation,
	CategoryWaterDrainage,
	CategoryStreetLighting,
	CategoryElectricity,
	CategoryParksRecreation,
}

// CategoryKeywords maps each category to the descriptive terms matched as
// case-insensitive substrings of the report description. Multi-word phrases
// carry extra weight during scoring.
var CategoryKeywords = map[string][]string{
	CategoryRoadTraffic: {
		"pothole", "damaged road", "broken road", "broken footpath", "footpath",
		"pavement", "sidewalk", "asphalt", "speed breaker", "speed bump",
		"zebra crossing", "crosswalk", "pedestrian", "traffic signal",
		"traffic jam", "traffic", "illegal parking", "road accident",
		"road caved", "road sinking", "uneven road", "congestion", "junction",
		"crossroad", "intersection", "divider", "highway", "bridge", "road",
		"street",
	},
	CategoryGarbageSanitation: {
		"garbage dump", "garbage pile", "garbage", "trash", "waste pile",
		"waste", "overflowing dustbin", "overflowing bin", "dustbin", "bin",
		"sanitation", "dirty", "filthy", "unclean", "cleanliness", "dump",
		"dumping", "bad smell", "foul smell", "toxic smell", "dead animal",
		"animal carcass", "dead dog", "dead cat", "dead cow", "mosquito",
		"flies", "manhole", "toilet",
	},
	CategoryStreetLighting: {
		"streetlight not working", "broken streetlight", "streetlight",
		"street light", "street lamp", "lamp post", "lamppost", "lamp",
		"broken light", "flickering light", "dim light", "non-working light",
		"street lighting", "public lighting", "night lighting", "dark area",
		"no lighting", "illumination", "bulb", "flickering", "lighting",
		"light",
	},
	CategoryWaterDrainage: {
		"waterlogging", "water logging", "pipe burst", "burst pipe",
		"broken pipe", "pipe leak", "leaking pipe", "water supply", "no water",
		"drinking water", "contaminated water", "stagnant water",
		"sewage water", "sewage overflow", "sewage", "sewer", "open drain",
		"blocked drain", "overflowing drain", "drainage", "drain", "leakage",
		"leaking", "leak", "flood", "low pressure", "water pipe", "water",
	},
	CategoryParksRecreation: {
		"park maintenance", "fallen tree", "tree fallen", "playground",
		"garden bench", "broken fence", "walking path", "walking track",
		"green space", "public park", "children park", "park", "garden",
		"tree", "bench", "lawn", "grass", "fountain", "swing", "slide",
		"encroachment", "illegal construction", "recreation",
	},
	CategoryPublicSafety: {
		"gas leak", "cylinder leak", "building collapse", "wall collapse",
		"roof falling", "accident site", "life risk", "fire", "smoke",
		"burning", "explosion", "crime", "robbery", "theft", "violence",
		"assault", "harassment", "hazard", "danger", "unsafe", "emergency",
		"fight",
	},
	CategoryElectricity: {
		"short circuit", "electric shock", "electrocution", "live wire",
		"loose wire", "power line", "power outage", "power cut", "no power",
		"fallen electric pole", "electric pole", "transformer", "voltage",
		"electrical", "electricity", "electric", "spark", "wire", "cable",
		"meter", "outage",
	},
}

// ImageLabels maps each category to the image-classifier labels considered
// consistent with it.
var ImageLabels = map[string][]string{
	CategoryRoadTraffic: {
		"pothole", "damaged road", "illegal parking", "broken footpath",
		"traffic signal not working", "road accident", "road", "street",
		"traffic", "speed breaker", "crosswalk", "footpath", "pavement",
		"crack", "broken road", "road caved", "road sinking", "uneven road",
		"traffic jam", "congestion", "signal", "junction", "crossroad",
		"accident", "collision", "crash", "speed bump", "divider", "sidewalk",
		"zebra crossing", "pedestrian", "highway", "bridge", "intersection",
		"asphalt",
	},
	CategoryGarbageSanitation: {
		"garbage dump", "overflowing dustbin", "open drain", "sewage overflow",
		"dead animal", "toilet issue", "garbage", "trash", "waste", "bin",
		"sanitation", "dirty", "sewage", "cleanliness", "dustbin", "dump",
		"dumping", "garbage pile", "waste pile", "filthy", "unclean",
		"bad smell", "overflowing bin", "sewer", "manhole", "animal carcass",
		"mosquito", "flies",
	},
	CategoryStreetLighting: {
		"streetlight not working", "fallen electric pole", "loose wire",
		"power outage", "streetlight", "lamp", "bulb", "pole", "light",
		"electric pole", "street lamp", "lighting", "dark area", "electricity",
		"power", "broken streetlight", "non-working light", "flickering light",
		"dim light", "street lighting", "outdoor lighting", "public lighting",
		"night lighting", "lamp post", "pole light", "broken light",
		"flickering", "dark", "no lighting", "illumination",
	},
	CategoryWaterDrainage: {
		"waterlogging", "pipe burst", "no water supply", "drainage issue",
		"flood", "drain", "drainage", "sewage", "sewer", "leak", "leaking",
		"leakage", "pipe", "water", "overflow", "water supply",
		"drainage system", "no water", "low pressure", "drinking water",
		"contaminated water", "pipe leak", "broken pipe", "blocked drain",
		"overflowing drain", "stagnant water", "sewage water", "rain water",
		"water pipe",
	},
	CategoryParksRecreation: {
		"tree fallen", "illegal construction", "park maintenance",
		"encroachment", "park", "garden", "playground", "tree", "bench",
		"grass", "lawn", "recreation", "green space", "park area",
		"garden area", "flooded park", "playground equipment", "walking path",
		"fountain", "pond", "lake", "outdoor space", "public space",
		"children park", "public park", "swing", "slide", "walking track",
		"fallen tree", "broken fence", "garden bench",
	},
	CategoryPublicSafety: {
		"fire", "gas leak", "building collapse", "accident site", "crime",
		"robbery", "theft", "violence", "hazard", "danger", "safety",
		"harassment", "emergency", "accident", "smoke", "burning", "gas",
		"cylinder leak", "collapse", "wall collapse", "roof falling", "fight",
		"assault", "unsafe", "life risk", "explosion",
	},
	CategoryElectricity: {
		"electric", "electricity", "power", "outage", "wire", "transformer",
		"short circuit", "shock", "cable", "meter", "electrical", "voltage",
		"current", "no power", "power cut", "pole", "electric pole", "spark",
		"electrocution", "electric shock", "live wire", "power line",
	},
}

// GenericImageLabels are labels too vague to reject a report over.
var GenericImageLabels = map[string]bool{
	"other":         true,
	"outdoor":       true,
	"outdoor space": true,
	"public space":  true,
	"area":          true,
	"scene":         true,
	"general":       true,
}

// ProfanityKeywords are matched as case-insensitive substrings of the
// description. Any match rejects the report.
var ProfanityKeywords = []string{
	"fuck", "shit", "bitch", "asshole", "bastard", "cunt", "dickhead",
	"motherfucker", "piss off", "wtf", "damn", "idiot", "stupid", "moron",
	"crap", "the hell", "go to hell",
}

// GlobalUrgencyKeywords mark a report urgent regardless of category.
var GlobalUrgencyKeywords = []string{
	"urgent", "emergency", "immediately", "danger", "dangerous", "life risk",
	"life threatening", "injured", "severe", "critical", "asap", "right now",
}

// CategoryUrgencyKeywords mark a report urgent only within its category.
var CategoryUrgencyKeywords = map[string][]string{
	CategoryRoadTraffic: {
		"accident", "collision", "crash", "road caved", "road sinking",
	},
	CategoryGarbageSanitation: {
		"dead animal", "animal carcass", "disease", "infection", "toxic",
	},
	CategoryStreetLighting: {
		"completely dark", "no lighting", "dark area",
	},
	CategoryWaterDrainage: {
		"pipe burst", "burst", "flood", "contaminated", "sewage overflow",
	},
	CategoryParksRecreation: {
		"fallen tree", "tree fallen", "collapsed",
	},
	CategoryPublicSafety: {
		"fire", "gas leak", "explosion", "collapse", "violence", "assault",
		"robbery",
	},
	CategoryElectricity: {
		"live wire", "electric shock", "electrocution", "spark",
		"short circuit",
	},
}
