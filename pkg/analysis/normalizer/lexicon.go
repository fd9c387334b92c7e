package normalizer

import "sort"

// Substitution maps a literal sequence to its replacement text.
type Substitution struct {
	From string
	To   string
}

// Lexicon holds the read-only lookup tables used by the Normalizer.
type Lexicon struct {
	Emoji         []Substitution
	Slang         map[string]string
	Abbreviations map[string]string
	Misspellings  map[string]string
}

func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Emoji:         defaultEmoji(),
		Slang:         defaultSlang(),
		Abbreviations: defaultAbbreviations(),
		Misspellings:  defaultMisspellings(),
	}
}

// orderEmoji sorts substitutions so longer sequences are replaced first.
// Equal lengths keep their table order.
func orderEmoji(subs []Substitution) []Substitution {
	out := make([]Substitution, len(subs))
	copy(out, subs)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].From) > len(out[j].From)
	})
	return out
}

func defaultEmoji() []Substitution {
	return []Substitution{
		{"😀", "happy face"},
		{"😊", "smiling face"},
		{"😂", "laughing"},
		{"😍", "heart eyes"},
		{"😎", "cool"},
		{"😡", "angry face"},
		{"😠", "angry"},
		{"🤬", "swearing"},
		{"💩", "poop"},
		{"🖕", "middle finger"},
		{"👎", "thumbs down"},
		{"👍", "thumbs up"},
		{"❤️", "heart"},
		{"💔", "broken heart"},
		{"🔥", "fire"},
		{"💯", "hundred percent"},
		{"🤮", "vomiting"},
		{"🤢", "nauseated"},
		{"😤", "huffing"},
		{"😭", "crying"},
		{"🙄", "eye roll"},
		{"😏", "smirk"},
		{"😈", "devil"},
		{"👹", "monster"},
		{"💀", "skull"},
		{"☠️", "skull and crossbones"},
	}
}

func defaultSlang() map[string]string {
	return map[string]string{
		"lol":        "laugh out loud",
		"lmao":       "laughing my ass off",
		"rofl":       "rolling on floor laughing",
		"wtf":        "what the fuck",
		"omg":        "oh my god",
		"fml":        "fuck my life",
		"smh":        "shaking my head",
		"tbh":        "to be honest",
		"imo":        "in my opinion",
		"imho":       "in my humble opinion",
		"afaik":      "as far as I know",
		"tl;dr":      "too long did not read",
		"brb":        "be right back",
		"gtg":        "got to go",
		"ttyl":       "talk to you later",
		"irl":        "in real life",
		"ngl":        "not gonna lie",
		"fr":         "for real",
		"periodt":    "period",
		"salty":      "bitter or angry",
		"lit":        "excellent or exciting",
		"fire":       "excellent",
		"sus":        "suspicious",
		"cap":        "lie",
		"facts":      "truth",
		"bet":        "yes or okay",
		"vibes":      "feelings or atmosphere",
		"flex":       "show off",
		"stan":       "obsessive fan",
		"simp":       "someone who does too much for someone they like",
		"karen":      "entitled demanding person",
		"boomer":     "older person",
		"zoomer":     "young person",
		"millennial": "person born 1981-1996",
		// offensive
		"mofo":   "motherfucker",
		"pos":    "piece of shit",
		"sob":    "son of a bitch",
		"mf":     "motherfucker",
		"prick":  "jerk",
		"douche": "jerk",
		"tard":   "idiot",
	}
}

func defaultAbbreviations() map[string]string {
	return map[string]string{
		"u":       "you",
		"ur":      "your",
		"r":       "are",
		"n":       "and",
		"w/":      "with",
		"w/o":     "without",
		"b4":      "before",
		"2":       "to",
		"4":       "for",
		"8":       "ate",
		"c":       "see",
		"y":       "why",
		"bc":      "because",
		"bcuz":    "because",
		"cuz":     "because",
		"luv":     "love",
		"gud":     "good",
		"gr8":     "great",
		"thru":    "through",
		"ppl":     "people",
		"plz":     "please",
		"thx":     "thanks",
		"thanx":   "thanks",
		"tho":     "though",
		"altho":   "although",
		"gonna":   "going to",
		"wanna":   "want to",
		"gotta":   "got to",
		"kinda":   "kind of",
		"sorta":   "sort of",
		"outta":   "out of",
		"shoulda": "should have",
		"coulda":  "could have",
		"woulda":  "would have",
	}
}

func defaultMisspellings() map[string]string {
	return map[string]string{
		"recieve":    "receive",
		"seperate":   "separate",
		"definately": "definitely",
		"alot":       "a lot",
		"teh":        "the",
		"thier":      "their",
		"thats":      "that is",
		"its":        "it is",
		"youre":      "you are",
		"dont":       "do not",
		"cant":       "can not",
		"wont":       "will not",
		"isnt":       "is not",
		"arent":      "are not",
		"wasnt":      "was not",
		"werent":     "were not",
		"hasnt":      "has not",
		"havent":     "have not",
		"hadnt":      "had not",
		"shouldnt":   "should not",
		"couldnt":    "could not",
		"wouldnt":    "would not",
		"mustnt":     "must not",
	}
}
