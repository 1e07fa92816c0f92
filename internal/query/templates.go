package query

import "regexp"

// expansion maps a canonical label to its synonym list. Tables below are
// ordered slices rather than maps so classification is deterministic:
// earlier entries win when several match.
type expansion struct {
	base  string
	terms []string
}

// period is a named historical era with its year range.
type period struct {
	name       string
	start, end int
}

// genreExpansions maps canonical genres to their synonyms and subgenres.
var genreExpansions = []expansion{
	{"fantasy", []string{"fantasy", "epic fantasy", "high fantasy", "sword and sorcery", "magical realism", "urban fantasy", "dark fantasy"}},
	{"sci-fi", []string{"science fiction", "sci-fi", "scifi", "space opera", "cyberpunk", "dystopian", "post-apocalyptic", "hard science fiction", "soft science fiction"}},
	{"mystery", []string{"mystery", "detective", "crime", "thriller", "suspense", "whodunit", "noir", "cozy mystery", "police procedural"}},
	{"romance", []string{"romance", "love story", "romantic", "contemporary romance", "historical romance", "romantic comedy", "paranormal romance"}},
	{"horror", []string{"horror", "scary", "terror", "supernatural horror", "psychological horror", "gothic", "dark", "creepy"}},
	{"historical", []string{"historical fiction", "historical", "period piece", "historical drama", "historical novel"}},
	{"biography", []string{"biography", "memoir", "autobiography", "life story", "true story", "biographical"}},
	{"self-help", []string{"self-help", "personal development", "self-improvement", "motivational", "psychology", "self care"}},
	{"business", []string{"business", "entrepreneurship", "management", "leadership", "finance", "economics", "startup"}},
	{"philosophy", []string{"philosophy", "philosophical", "ethics", "metaphysics", "existential", "epistemology"}},
	{"young adult", []string{"young adult", "ya", "teen", "coming of age", "ya fiction", "teenage"}},
	{"children", []string{"children", "kids", "juvenile", "picture book", "middle grade", "chapter book"}},
	{"poetry", []string{"poetry", "poems", "verse", "poetic", "collection of poems"}},
	{"drama", []string{"drama", "dramatic", "play", "theater", "theatrical"}},
	{"adventure", []string{"adventure", "action", "quest", "journey", "expedition", "exploration"}},
	{"literary", []string{"literary fiction", "literary", "contemporary fiction", "serious fiction", "literary novel"}},
	{"thriller", []string{"thriller", "suspense", "action thriller", "spy thriller", "techno-thriller"}},
	{"western", []string{"western", "wild west", "frontier", "cowboy"}},
	{"satire", []string{"satire", "satirical", "parody", "social satire"}},
	{"graphic novel", []string{"graphic novel", "comic", "manga", "comics", "illustrated novel"}},
	{"true crime", []string{"true crime", "crime", "criminal", "murder case"}},
	{"travel", []string{"travel", "travelogue", "travel writing", "journey"}},
	{"cookbook", []string{"cookbook", "cooking", "recipes", "culinary"}},
	{"spirituality", []string{"spirituality", "spiritual", "new age", "mindfulness", "meditation"}},
	{"science", []string{"science", "popular science", "scientific", "physics", "biology", "chemistry", "astronomy"}},
	{"history", []string{"history", "historical", "world history", "military history"}},
	{"politics", []string{"politics", "political", "government", "political science"}},
	{"art", []string{"art", "art history", "visual arts", "photography", "painting"}},
	{"music", []string{"music", "musical", "music history", "music theory"}},
}

// Author name patterns. The first capture group is the author name.
var authorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:books?\s+)?(?:written\s+)?by\s+([a-zA-Z\s.'-]+?)(?:\s+books?|\s+novels?|\s*$)`),
	regexp.MustCompile(`(?i)(?:works?\s+)?(?:of|from)\s+([a-zA-Z\s.'-]+?)(?:\s+books?|\s+novels?|\s*$)`),
	regexp.MustCompile(`(?i)([a-zA-Z\s.'-]+?)'s\s+(?:books?|novels?|works?|writings?)`),
	regexp.MustCompile(`(?i)author:?\s*([a-zA-Z\s.'-]+?)(?:\s|$)`),
}

// Genre phrasing patterns. The first capture group is the genre text.
var genrePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([a-zA-Z\s-]+?)\s+(?:books?|novels?|fiction|literature|stories)`),
	regexp.MustCompile(`(?i)(?:books?|novels?)\s+(?:in\s+)?([a-zA-Z\s-]+?)\s+(?:genre|category)`),
	regexp.MustCompile(`(?i)genre:?\s*([a-zA-Z\s-]+?)(?:\s|$)`),
}

var moodPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:feel|feeling|mood|atmosphere|vibe|tone)\s+(?:like\s+)?([a-zA-Z\s-]+)`),
	regexp.MustCompile(`(?i)\b(cozy|dark|light|uplifting|depressing|happy|sad|emotional|funny|humorous|serious|intense|relaxing|heartwarming|bittersweet|melancholic|optimistic|pessimistic|suspenseful|tense|peaceful|violent|gritty|whimsical|playful)\b`),
}

var similarPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:similar\s+to|like)\s+(.+)`),
	regexp.MustCompile(`(?i)(?:more|another)\s+(?:book|books)\s+like\s+(.+)`),
	regexp.MustCompile(`(?i)if\s+(?:I|you)\s+liked?\s+(.+)`),
	regexp.MustCompile(`(?i)reminds?\s+me\s+of\s+(.+)`),
	regexp.MustCompile(`(?i)in\s+the\s+style\s+of\s+(.+)`),
}

var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(recent|new|latest|modern|contemporary|current|2020s|2010s)\b`),
	regexp.MustCompile(`(?i)\b(classic|old|vintage|timeless|traditional|golden age)\b`),
	regexp.MustCompile(`(?i)(?:published|released|written|from)\s+(?:in|around|after|before)\s+(\d{4})`),
}

var audiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:for\s+)?(?:kids|children|child)`),
	regexp.MustCompile(`(?i)(?:for\s+)?(?:teens?|teenagers?|young\s+adults?|ya)`),
	regexp.MustCompile(`(?i)(?:for\s+)?(?:adults?|grown-ups?|mature)`),
}

var lengthPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(short|quick|brief|concise|novella)\b`),
	regexp.MustCompile(`(?i)\b(long|lengthy|epic|extensive|saga|trilogy|series)\b`),
}

var pacePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(fast[\s-]?paced|quick[\s-]?paced|action[\s-]?packed|thrilling|exciting)\b`),
	regexp.MustCompile(`(?i)\b(slow[\s-]?paced|slow[\s-]?burn|contemplative|meditative|leisurely)\b`),
}

var complexityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(easy|simple|light|accessible|beginner|straightforward|uncomplicated)\b`),
	regexp.MustCompile(`(?i)\b(complex|difficult|challenging|dense|deep|intellectual|advanced|sophisticated|cerebral)\b`),
}

// Setting patterns. The first capture group is the place.
var settingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)set\s+in\s+([a-zA-Z\s]+)`),
	regexp.MustCompile(`(?i)takes?\s+place\s+in\s+([a-zA-Z\s]+)`),
	regexp.MustCompile(`(?i)(?:located|based)\s+in\s+([a-zA-Z\s]+)`),
}

var perspectivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(first[\s-]?person|1st\s+person)\b`),
	regexp.MustCompile(`(?i)\b(third[\s-]?person|3rd\s+person)\b`),
	regexp.MustCompile(`(?i)\b(multiple\s+(?:pov|perspectives?|viewpoints?)|alternating\s+perspectives?)\b`),
	regexp.MustCompile(`(?i)\b(unreliable\s+narrator)\b`),
}

// themeKeywords maps canonical themes to the keywords that signal them.
// Single-word keywords match on word boundaries, multi-word keywords as
// substrings.
var themeKeywords = []expansion{
	// Relationships and emotions
	{"friendship", []string{"friendship", "friends", "companionship", "buddy", "camaraderie"}},
	{"love", []string{"love", "romance", "relationship", "romantic", "passion"}},
	{"family", []string{"family", "parent", "mother", "father", "sibling", "child", "familial"}},
	{"betrayal", []string{"betrayal", "betrayed", "backstab", "treachery", "deception"}},
	{"loss", []string{"loss", "grief", "mourning", "bereavement", "death of loved one"}},
	{"redemption", []string{"redemption", "redemptive", "second chance", "forgiveness"}},

	// Conflict and power
	{"war", []string{"war", "battle", "conflict", "military", "soldier", "combat", "warfare"}},
	{"politics", []string{"politics", "political", "government", "power", "corruption", "conspiracy"}},
	{"revolution", []string{"revolution", "rebellion", "uprising", "revolt", "resistance"}},
	{"revenge", []string{"revenge", "vengeance", "retribution", "payback"}},
	{"murder", []string{"murder", "killing", "death", "assassination", "homicide"}},

	// Deception and truth
	{"lies", []string{"lies", "lying", "liar", "lie", "dishonesty", "falsehood", "untruth"}},
	{"deception", []string{"deception", "deceive", "deceit", "deceiving", "trickery", "fraud", "manipulation"}},
	{"secrets", []string{"secrets", "secret", "hidden", "concealed", "mystery"}},
	{"truth", []string{"truth", "honesty", "revealing", "uncovering", "expose"}},

	// Fantasy and sci-fi elements
	{"magic", []string{"magic", "magical", "wizard", "witch", "sorcery", "spell", "enchantment"}},
	{"dragon", []string{"dragon", "dragons", "drake", "wyvern"}},
	{"space", []string{"space", "galaxy", "planet", "spaceship", "star", "cosmos", "interstellar"}},
	{"time-travel", []string{"time travel", "time machine", "temporal", "time loop"}},
	{"artificial-intelligence", []string{"artificial intelligence", "a.i.", "robot", "android", "cyborg", "machine intelligence", "artificial-intelligence"}},
	{"dystopia", []string{"dystopia", "dystopian", "apocalypse", "post-apocalyptic", "end of world"}},
	{"utopia", []string{"utopia", "utopian", "perfect society", "ideal world"}},
	{"parallel-worlds", []string{"parallel world", "alternate reality", "multiverse", "parallel universe"}},

	// Coming of age and identity
	{"coming-of-age", []string{"coming of age", "growing up", "adolescence", "youth", "maturity"}},
	{"identity", []string{"identity", "self-discovery", "finding oneself", "who am i"}},
	{"lgbtq", []string{"lgbtq", "lgbt", "queer", "gay", "lesbian", "transgender", "bisexual"}},
	{"race", []string{"race", "racism", "racial", "discrimination", "prejudice"}},
	{"gender", []string{"gender", "feminism", "feminist", "patriarchy", "women's rights"}},

	// Social issues
	{"mental-health", []string{"mental health", "depression", "anxiety", "ptsd", "trauma", "therapy"}},
	{"addiction", []string{"addiction", "alcoholism", "drug abuse", "substance abuse"}},
	{"poverty", []string{"poverty", "poor", "homelessness", "inequality", "class struggle"}},
	{"immigration", []string{"immigration", "immigrant", "refugee", "migration", "diaspora"}},
	{"climate-change", []string{"climate change", "global warming", "environment", "ecological"}},

	// Historical periods
	{"victorian", []string{"victorian", "victorian era", "19th century", "1800s"}},
	{"medieval", []string{"medieval", "middle ages", "dark ages", "knights", "castles"}},
	{"renaissance", []string{"renaissance", "elizabethan", "tudor"}},
	{"world-war", []string{"world war", "wwi", "wwii", "ww1", "ww2", "great war"}},
	{"ancient", []string{"ancient", "antiquity", "classical", "roman", "greek"}},

	// Adventure and quest
	{"survival", []string{"survival", "survive", "surviving", "wilderness"}},
	{"exploration", []string{"exploration", "explore", "discovery", "expedition", "adventure"}},
	{"quest", []string{"quest", "journey", "pilgrimage", "odyssey"}},
	{"heist", []string{"heist", "robbery", "theft", "con", "caper"}},

	// Supernatural and paranormal
	{"vampire", []string{"vampire", "vampires", "bloodsucker", "undead"}},
	{"werewolf", []string{"werewolf", "werewolves", "lycanthrope", "shapeshifter"}},
	{"ghost", []string{"ghost", "ghosts", "haunted", "haunting", "spirit", "specter"}},
	{"demon", []string{"demon", "demons", "devil", "demonic", "hell"}},
	{"angel", []string{"angel", "angels", "angelic", "heaven", "divine"}},

	// Mystery and crime
	{"detective", []string{"detective", "investigation", "investigator", "sleuth", "private eye"}},
	{"serial-killer", []string{"serial killer", "psychopath", "murderer"}},
	{"conspiracy", []string{"conspiracy", "cover-up", "secret society", "illuminati"}},

	// Character types
	{"female-protagonist", []string{"female lead", "female protagonist", "strong woman", "heroine", "female character"}},
	{"male-protagonist", []string{"male lead", "male protagonist", "hero", "male character"}},
	{"anti-hero", []string{"anti-hero", "antihero", "morally gray", "morally ambiguous"}},
	{"chosen-one", []string{"chosen one", "prophecy", "destined", "savior"}},

	// Religion and philosophy
	{"religion", []string{"religion", "religious", "faith", "spiritual", "god", "deity"}},
	{"atheism", []string{"atheism", "atheist", "secular", "non-believer"}},
	{"existentialism", []string{"existential", "existentialism", "meaning of life", "absurdism"}},
}

// historicalPeriods maps named eras to publication-year ranges.
var historicalPeriods = []period{
	{"ancient", 0, 500},
	{"medieval", 500, 1500},
	{"renaissance", 1400, 1600},
	{"victorian", 1837, 1901},
	{"edwardian", 1901, 1910},
	{"world war i", 1914, 1918},
	{"world war ii", 1939, 1945},
	{"cold war", 1947, 1991},
	{"modern", 1950, 2000},
	{"contemporary", 2000, 2030},
}

// stopWords are ignored when extracting general terms.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true,
	"of": true, "with": true, "by": true, "from": true, "about": true,
	"as": true, "into": true, "through": true, "during": true,
	"please": true, "recommend": true, "suggest": true, "find": true,
	"looking": true, "want": true, "need": true,
	"book": true, "books": true, "novel": true, "novels": true,
	"read": true, "reading": true, "good": true, "great": true, "best": true,
	"can": true, "you": true, "give": true, "me": true, "some": true,
	"any": true, "show": true,
}
