package projection

// Pointer fields are nullable and always serialized, so every snapshot has a
// fixed key set.

type ImageInfo struct {
	ImageKey      string `json:"imageKey"`
	Sizes         []int  `json:"sizes"`
	BaseURL       string `json:"baseUrl"`
	FileExtension string `json:"fileExtension"`
}

type Participant struct {
	UserAccountID           *int64     `json:"userAccountId"`
	ThirdPartyParticipantID *int64     `json:"thirdPartyParticipantId"`
	Identity                string     `json:"identity"`
	ParticipantType         int        `json:"participantType"`
	ImageInfo               *ImageInfo `json:"imageInfo"`
	RequiredName            string     `json:"requiredName"`
	Rating                  *float64   `json:"rating"`
	CompanyName             string     `json:"companyName"`
	State                   int        `json:"state"`
	IsAudioEnabled          bool       `json:"isAudioEnabled"`
	IsVideoEnabled          bool       `json:"isVideoEnabled"`
	MuteActionIsEnabled     bool       `json:"muteActionIsEnabled"`
	RemoveActionIsEnabled   bool       `json:"removeActionIsEnabled"`
}

type Call struct {
	CallID           *int64        `json:"callId"`
	CurrentUserID    int64         `json:"currentUserId"`
	IsVideo          bool          `json:"isVideo"`
	IsInProgress     bool          `json:"isInProgress"`
	InterlocutorInfo *Participant  `json:"interlocutorInfo"`
	IsMuted          bool          `json:"isMuted"`
	AccessToken      string        `json:"accessToken"`
	Identity         string        `json:"identity"`
	Participants     []Participant `json:"participants"`
	CanAddThirdParty bool          `json:"canAddThirdParty"`
	IsVideoEnabled   *bool         `json:"isVideoEnabled"`
	RoomID           *string       `json:"roomId"`
}

type Language struct {
	ID                     int    `json:"id"`
	Code                   string `json:"code"`
	Name                   string `json:"name"`
	EnglishName            string `json:"englishName"`
	NativeName             string `json:"nativeName"`
	LocalizedName          string `json:"localizedName"`
	Enabled                bool   `json:"enabled"`
	IsSignLanguage         bool   `json:"isSignLanguage"`
	IsVideoBackstopStaffed bool   `json:"isVideoBackstopStaffed"`
	VRIPolicyOrder         *int   `json:"vriPolicyOrder"`
	OPIPolicyOrder         *int   `json:"opiPolicyOrder"`
}

type ServiceType struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Enable bool   `json:"enable"`
}

type Gender struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CallDictionaries struct {
	Languages    []Language    `json:"languages"`
	ServiceTypes []ServiceType `json:"serviceTypes"`
	Genders      []Gender      `json:"genders"`
}

type Profile struct {
	AccountName      string     `json:"accountName"`
	UserAccountID    int64      `json:"userAccountId"`
	CompanyAccountID int64      `json:"companyAccountId"`
	Email            string     `json:"email"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	RequiredName     string     `json:"requiredName"`
	ImageInfo        *ImageInfo `json:"imageInfo"`
}

type CallDetails struct {
	CallID          int64   `json:"callId"`
	AccountUniqueID int64   `json:"accountUniqueId"`
	Duration        float64 `json:"duration"`
	TimeRequested   int64   `json:"timeRequested"`
	TimeAnswered    *int64  `json:"timeAnswered"`
	TimeConnected   *int64  `json:"timeConnected"`
}

type ChatUser struct {
	ID        int64      `json:"id"`
	ImageInfo *ImageInfo `json:"imageInfo"`
}

type ChatMessage struct {
	User     ChatUser `json:"user"`
	Text     string   `json:"text"`
	SentTime int64    `json:"sentTime"`
}
