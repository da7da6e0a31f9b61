package domain

type TeacherID string
type TopicID string
type LevelID string

type VoiceGender string

const (
	VoiceFemale VoiceGender = "Female"
	VoiceMale   VoiceGender = "Male"
)

const (
	TeacherEmma  TeacherID = "teacher1"
	TeacherJames TeacherID = "teacher2"
	TeacherSofia TeacherID = "teacher3"
	TeacherAlex  TeacherID = "teacher4"
)

const (
	TopicBusiness     TopicID = "business"
	TopicTravel       TopicID = "travel"
	TopicNews         TopicID = "news"
	TopicTechnology   TopicID = "technology"
	TopicPresentation TopicID = "presentation"
)

const (
	LevelBeginner     LevelID = "beginner"
	LevelIntermediate LevelID = "intermediate"
	LevelAdvanced     LevelID = "advanced"
	LevelFluent       LevelID = "fluent"
)

const (
	DefaultTopic   = TopicBusiness
	DefaultLevel   = LevelIntermediate
	DefaultTeacher = TeacherEmma
)

// TeacherProfile is a persona the student can talk to.
type TeacherProfile struct {
	ID        TeacherID   `json:"id"`
	Name      string      `json:"name"`
	AvatarRef string      `json:"avatar"`
	Bio       string      `json:"bio"`
	Voice     VoiceGender `json:"voice"`
}

func (t TeacherProfile) IsFemale() bool {
	return t.Voice == VoiceFemale
}

type TopicProfile struct {
	ID   TopicID `json:"id"`
	Name string  `json:"name"`
	Icon string  `json:"icon"`
	Desc string  `json:"desc"`
}

// LevelProfile carries the native display name shown in the UI and the English label used in prompts.
type LevelProfile struct {
	ID    LevelID `json:"id"`
	Name  string  `json:"name"`
	Label string  `json:"level"`
}

// NeedsGrammarCheck reports whether replies at this level should flag grammar mistakes.
func (l LevelID) NeedsGrammarCheck() bool {
	return l == LevelBeginner || l == LevelIntermediate
}

type Catalog struct {
	Teachers []TeacherProfile `json:"teachers"`
	Topics   []TopicProfile   `json:"topics"`
	Levels   []LevelProfile   `json:"levels"`
}

// Teachers, topics and levels are listed in display order.
var (
	Teachers = []TeacherProfile{
		{
			ID:        TeacherEmma,
			Name:      "Emma",
			AvatarRef: "https://api.dicebear.com/7.x/avataaars/svg?seed=Emma_Teacher&backgroundColor=ffb6c1&scale=90&mood=happy",
			Bio:       "English Culture Expert",
			Voice:     VoiceFemale,
		},
		{
			ID:        TeacherJames,
			Name:      "James",
			AvatarRef: "https://api.dicebear.com/7.x/avataaars/svg?seed=James_Teacher&backgroundColor=add8e6&scale=90&mood=happy",
			Bio:       "Business English Teacher",
			Voice:     VoiceMale,
		},
		{
			ID:        TeacherSofia,
			Name:      "Sofia",
			AvatarRef: "https://api.dicebear.com/7.x/avataaars/svg?seed=Sofia_Teacher&backgroundColor=dda0dd&scale=90&mood=happy",
			Bio:       "Travel English Guide",
			Voice:     VoiceFemale,
		},
		{
			ID:        TeacherAlex,
			Name:      "Alex",
			AvatarRef: "https://api.dicebear.com/7.x/avataaars/svg?seed=Alex_Teacher&backgroundColor=90ee90&scale=90&mood=happy",
			Bio:       "Technology Expert",
			Voice:     VoiceMale,
		},
	}

	Topics = []TopicProfile{
		{ID: TopicBusiness, Name: "Business", Icon: "💼", Desc: "Business communication"},
		{ID: TopicTravel, Name: "Travel", Icon: "✈️", Desc: "Travel and tourism"},
		{ID: TopicNews, Name: "News", Icon: "📰", Desc: "News discussion"},
		{ID: TopicTechnology, Name: "Technology", Icon: "🚀", Desc: "Tech trends"},
		{ID: TopicPresentation, Name: "Presentation", Icon: "📊", Desc: "English presentation practice"},
	}

	Levels = []LevelProfile{
		{ID: LevelBeginner, Name: "初級", Label: "Beginner"},
		{ID: LevelIntermediate, Name: "中級", Label: "Intermediate"},
		{ID: LevelAdvanced, Name: "高級", Label: "Advanced"},
		{ID: LevelFluent, Name: "流暢", Label: "Fluent"},
	}
)

func FindTeacher(id TeacherID) (TeacherProfile, bool) {
	for _, t := range Teachers {
		if t.ID == id {
			return t, true
		}
	}
	return TeacherProfile{}, false
}

func FindTopic(id TopicID) (TopicProfile, bool) {
	for _, t := range Topics {
		if t.ID == id {
			return t, true
		}
	}
	return TopicProfile{}, false
}

func FindLevel(id LevelID) (LevelProfile, bool) {
	for _, l := range Levels {
		if l.ID == id {
			return l, true
		}
	}
	return LevelProfile{}, false
}
