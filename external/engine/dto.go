package engine

import (
	"time"

	enginepkg "github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
)

type imageInfoDTO struct {
	ImageKey      string `json:"imageKey"`
	Sizes         []int  `json:"sizes"`
	BaseURL       string `json:"baseUrl"`
	FileExtension string `json:"fileExtension"`
}

type participantDTO struct {
	Identity              string        `json:"identity"`
	ParticipantType       string        `json:"participantType"`
	AccountID             int64         `json:"accountId"`
	State                 string        `json:"state"`
	RequiredName          string        `json:"requiredName"`
	CompanyName           string        `json:"companyName"`
	Rating                *float64      `json:"rating"`
	ImageInfo             *imageInfoDTO `json:"imageInfo"`
	IsAudioEnabled        bool          `json:"isAudioEnabled"`
	IsVideoEnabled        bool          `json:"isVideoEnabled"`
	MuteActionIsEnabled   bool          `json:"muteActionIsEnabled"`
	RemoveActionIsEnabled bool          `json:"removeActionIsEnabled"`
}

type callDTO struct {
	Ref              string           `json:"ref"`
	CallID           *int64           `json:"callId"`
	CurrentUserID    int64            `json:"currentUserId"`
	IsVideo          bool             `json:"isVideo"`
	IsInProgress     bool             `json:"isInProgress"`
	IsMuted          bool             `json:"isMuted"`
	AccessToken      string           `json:"accessToken"`
	Identity         string           `json:"identity"`
	Interlocutor     *participantDTO  `json:"interlocutorInfo"`
	Participants     []participantDTO `json:"participants"`
	CanAddThirdParty bool             `json:"canAddThirdParty"`
	IsVideoEnabled   bool             `json:"isVideoEnabled"`
	RoomID           *string          `json:"roomId"`
}

type languageDTO struct {
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

type dictionariesDTO struct {
	Languages    []languageDTO `json:"languages"`
	ServiceTypes []struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Enable bool   `json:"enable"`
	} `json:"serviceTypes"`
	Genders []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genders"`
}

type profileDTO struct {
	AccountName      string        `json:"accountName"`
	UserAccountID    int64         `json:"userAccountId"`
	CompanyAccountID int64         `json:"companyAccountId"`
	Email            string        `json:"email"`
	FirstName        string        `json:"firstName"`
	LastName         string        `json:"lastName"`
	RequiredName     string        `json:"requiredName"`
	ImageInfo        *imageInfoDTO `json:"imageInfo"`
}

type callDetailsDTO struct {
	CallID          int64      `json:"callId"`
	AccountUniqueID int64      `json:"accountUniqueId"`
	Duration        float64    `json:"duration"`
	TimeRequested   time.Time  `json:"timeRequested"`
	TimeAnswered    *time.Time `json:"timeAnswered"`
	TimeConnected   *time.Time `json:"timeConnected"`
}

type chatMessageDTO struct {
	User struct {
		ID        int64         `json:"id"`
		ImageInfo *imageInfoDTO `json:"imageInfo"`
	} `json:"user"`
	Text     string    `json:"text"`
	SentTime time.Time `json:"sentTime"`
}

type additionalFieldDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type callRequestDTO struct {
	LanguageFromID int                  `json:"languageFromId"`
	LanguageToID   int                  `json:"languageToId"`
	ServiceTypeID  int                  `json:"serviceTypeId"`
	GenderID       *int                 `json:"genderId,omitempty"`
	IsVideo        bool                 `json:"isVideo"`
	Data           []additionalFieldDTO `json:"data,omitempty"`
}

type errorBodyDTO struct {
	Message string `json:"message"`
}

func newCallRequestDTO(req enginepkg.CallRequest, isVideo bool) callRequestDTO {
	out := callRequestDTO{
		LanguageFromID: req.LanguageFromID,
		LanguageToID:   req.LanguageToID,
		ServiceTypeID:  req.ServiceTypeID,
		GenderID:       req.GenderID,
		IsVideo:        isVideo,
	}
	for _, f := range req.Data {
		out.Data = append(out.Data, additionalFieldDTO(f))
	}
	return out
}

var participantTypes = map[string]enginepkg.ParticipantType{
	"client":      enginepkg.ParticipantTypeClient,
	"interpreter": enginepkg.ParticipantTypeInterpreter,
	"thirdParty":  enginepkg.ParticipantTypeThirdParty,
}

var participantStates = map[string]enginepkg.ParticipantState{
	"confirmation": enginepkg.ParticipantStateConfirmation,
	"connecting":   enginepkg.ParticipantStateConnecting,
	"connected":    enginepkg.ParticipantStateConnected,
	"disconnected": enginepkg.ParticipantStateDisconnected,
}

func (d *imageInfoDTO) toEngine() *enginepkg.ImageInfo {
	if d == nil {
		return nil
	}
	return &enginepkg.ImageInfo{
		ImageKey:      d.ImageKey,
		Sizes:         append([]int(nil), d.Sizes...),
		BaseURL:       d.BaseURL,
		FileExtension: d.FileExtension,
	}
}

func (d *participantDTO) toEngine() *enginepkg.Participant {
	if d == nil {
		return nil
	}
	return &enginepkg.Participant{
		Identity:              d.Identity,
		Type:                  participantTypes[d.ParticipantType],
		AccountID:             d.AccountID,
		State:                 participantStates[d.State],
		RequiredName:          d.RequiredName,
		CompanyName:           d.CompanyName,
		Rating:                d.Rating,
		ImageInfo:             d.ImageInfo.toEngine(),
		IsAudioEnabled:        d.IsAudioEnabled,
		IsVideoEnabled:        d.IsVideoEnabled,
		MuteActionIsEnabled:   d.MuteActionIsEnabled,
		RemoveActionIsEnabled: d.RemoveActionIsEnabled,
	}
}

func (d languageDTO) toEngine() enginepkg.Language {
	return enginepkg.Language(d)
}

func toEngineLanguages(ls []languageDTO) []enginepkg.Language {
	out := make([]enginepkg.Language, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.toEngine())
	}
	return out
}

func (d *dictionariesDTO) toEngine() *enginepkg.CallDictionaries {
	out := &enginepkg.CallDictionaries{Languages: toEngineLanguages(d.Languages)}
	for _, st := range d.ServiceTypes {
		out.ServiceTypes = append(out.ServiceTypes, enginepkg.ServiceType{ID: st.ID, Name: st.Name, Enable: st.Enable})
	}
	for _, g := range d.Genders {
		out.Genders = append(out.Genders, enginepkg.Gender{ID: g.ID, Name: g.Name})
	}
	return out
}

func (d *profileDTO) toEngine() *enginepkg.Profile {
	return &enginepkg.Profile{
		AccountName:      d.AccountName,
		UserAccountID:    d.UserAccountID,
		CompanyAccountID: d.CompanyAccountID,
		Email:            d.Email,
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		RequiredName:     d.RequiredName,
		ImageInfo:        d.ImageInfo.toEngine(),
	}
}

func (d *callDetailsDTO) toEngine() *enginepkg.CallDetails {
	return &enginepkg.CallDetails{
		CallID:          d.CallID,
		AccountUniqueID: d.AccountUniqueID,
		Duration:        d.Duration,
		TimeRequested:   d.TimeRequested,
		TimeAnswered:    d.TimeAnswered,
		TimeConnected:   d.TimeConnected,
	}
}

func (d *chatMessageDTO) toEngine() *enginepkg.ChatMessage {
	if d == nil {
		return nil
	}
	return &enginepkg.ChatMessage{
		User:     enginepkg.ChatUser{ID: d.User.ID, ImageInfo: d.User.ImageInfo.toEngine()},
		Text:     d.Text,
		SentTime: d.SentTime,
	}
}
