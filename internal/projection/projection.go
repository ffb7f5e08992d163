// Package projection converts live engine entities into serializable
// snapshots. Every function is pure and total: a nil input yields nil.
package projection

import (
	"time"

	"github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
)

const (
	participantTypeCodeNone        = 0
	participantTypeCodeClient      = 1
	participantTypeCodeInterpreter = 2
	participantTypeCodeThirdParty  = 3
)

const (
	participantStateCodeNone         = 0
	participantStateCodeConfirmation = 1
	participantStateCodeConnecting   = 2
	participantStateCodeConnected    = 3
	participantStateCodeDisconnected = 4
)

func ProjectCall(c engine.Call) *Call {
	if c == nil {
		return nil
	}
	out := &Call{
		CallID:           copyPtr(c.CallID()),
		CurrentUserID:    c.CurrentUserID(),
		IsVideo:          c.IsVideo(),
		IsInProgress:     c.IsInProgress(),
		InterlocutorInfo: ProjectParticipant(c.InterlocutorInfo()),
		IsMuted:          c.IsMuted(),
		AccessToken:      c.AccessToken(),
		Identity:         c.Identity(),
		Participants:     ProjectParticipants(c.Participants()),
		CanAddThirdParty: c.CanAddThirdParty(),
	}
	if vc, ok := c.(engine.VideoCall); ok {
		enabled := vc.IsVideoEnabled()
		out.IsVideoEnabled = &enabled
		out.RoomID = copyPtr(vc.RoomID())
	}
	return out
}

func ProjectParticipant(p *engine.Participant) *Participant {
	if p == nil {
		return nil
	}
	out := &Participant{
		Identity:              p.Identity,
		ParticipantType:       ParticipantTypeCode(p.Type),
		ImageInfo:             ProjectImageInfo(p.ImageInfo),
		RequiredName:          p.RequiredName,
		Rating:                copyPtr(p.Rating),
		CompanyName:           p.CompanyName,
		State:                 ParticipantStateCode(p.State),
		IsAudioEnabled:        p.IsAudioEnabled,
		IsVideoEnabled:        p.IsVideoEnabled,
		MuteActionIsEnabled:   p.MuteActionIsEnabled,
		RemoveActionIsEnabled: p.RemoveActionIsEnabled,
	}
	accountID := p.AccountID
	if p.Type == engine.ParticipantTypeThirdParty {
		out.ThirdPartyParticipantID = &accountID
	} else {
		out.UserAccountID = &accountID
	}
	return out
}

func ProjectParticipants(ps []engine.Participant) []Participant {
	out := make([]Participant, 0, len(ps))
	for i := range ps {
		out = append(out, *ProjectParticipant(&ps[i]))
	}
	return out
}

func ProjectImageInfo(info *engine.ImageInfo) *ImageInfo {
	if info == nil {
		return nil
	}
	sizes := make([]int, len(info.Sizes))
	copy(sizes, info.Sizes)
	return &ImageInfo{
		ImageKey:      info.ImageKey,
		Sizes:         sizes,
		BaseURL:       info.BaseURL,
		FileExtension: info.FileExtension,
	}
}

func ProjectLanguage(l *engine.Language) *Language {
	if l == nil {
		return nil
	}
	return &Language{
		ID:                     l.ID,
		Code:                   l.Code,
		Name:                   l.Name,
		EnglishName:            l.EnglishName,
		NativeName:             l.NativeName,
		LocalizedName:          l.LocalizedName,
		Enabled:                l.Enabled,
		IsSignLanguage:         l.IsSignLanguage,
		IsVideoBackstopStaffed: l.IsVideoBackstopStaffed,
		VRIPolicyOrder:         copyPtr(l.VRIPolicyOrder),
		OPIPolicyOrder:         copyPtr(l.OPIPolicyOrder),
	}
}

func ProjectLanguages(ls []engine.Language) []Language {
	out := make([]Language, 0, len(ls))
	for i := range ls {
		out = append(out, *ProjectLanguage(&ls[i]))
	}
	return out
}

func ProjectCallDictionaries(d *engine.CallDictionaries) *CallDictionaries {
	if d == nil {
		return nil
	}
	out := &CallDictionaries{
		Languages:    ProjectLanguages(d.Languages),
		ServiceTypes: make([]ServiceType, 0, len(d.ServiceTypes)),
		Genders:      make([]Gender, 0, len(d.Genders)),
	}
	for _, st := range d.ServiceTypes {
		out.ServiceTypes = append(out.ServiceTypes, ServiceType{ID: st.ID, Name: st.Name, Enable: st.Enable})
	}
	for _, g := range d.Genders {
		out.Genders = append(out.Genders, Gender{ID: g.ID, Name: g.Name})
	}
	return out
}

func ProjectProfile(p *engine.Profile) *Profile {
	if p == nil {
		return nil
	}
	return &Profile{
		AccountName:      p.AccountName,
		UserAccountID:    p.UserAccountID,
		CompanyAccountID: p.CompanyAccountID,
		Email:            p.Email,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		RequiredName:     p.RequiredName,
		ImageInfo:        ProjectImageInfo(p.ImageInfo),
	}
}

func ProjectCallDetails(d *engine.CallDetails) *CallDetails {
	if d == nil {
		return nil
	}
	return &CallDetails{
		CallID:          d.CallID,
		AccountUniqueID: d.AccountUniqueID,
		Duration:        d.Duration,
		TimeRequested:   d.TimeRequested.UnixMilli(),
		TimeAnswered:    unixMilli(d.TimeAnswered),
		TimeConnected:   unixMilli(d.TimeConnected),
	}
}

func ProjectChatMessage(m *engine.ChatMessage) *ChatMessage {
	if m == nil {
		return nil
	}
	return &ChatMessage{
		User: ChatUser{
			ID:        m.User.ID,
			ImageInfo: ProjectImageInfo(m.User.ImageInfo),
		},
		Text:     m.Text,
		SentTime: m.SentTime.UnixMilli(),
	}
}

func ParticipantTypeCode(t engine.ParticipantType) int {
	switch t {
	case engine.ParticipantTypeClient:
		return participantTypeCodeClient
	case engine.ParticipantTypeInterpreter:
		return participantTypeCodeInterpreter
	case engine.ParticipantTypeThirdParty:
		return participantTypeCodeThirdParty
	default:
		return participantTypeCodeNone
	}
}

func ParticipantTypeFromCode(code int) engine.ParticipantType {
	switch code {
	case participantTypeCodeClient:
		return engine.ParticipantTypeClient
	case participantTypeCodeInterpreter:
		return engine.ParticipantTypeInterpreter
	case participantTypeCodeThirdParty:
		return engine.ParticipantTypeThirdParty
	default:
		return engine.ParticipantTypeNone
	}
}

func ParticipantStateCode(s engine.ParticipantState) int {
	switch s {
	case engine.ParticipantStateConfirmation:
		return participantStateCodeConfirmation
	case engine.ParticipantStateConnecting:
		return participantStateCodeConnecting
	case engine.ParticipantStateConnected:
		return participantStateCodeConnected
	case engine.ParticipantStateDisconnected:
		return participantStateCodeDisconnected
	default:
		return participantStateCodeNone
	}
}

func ParticipantStateFromCode(code int) engine.ParticipantState {
	switch code {
	case participantStateCodeConfirmation:
		return engine.ParticipantStateConfirmation
	case participantStateCodeConnecting:
		return engine.ParticipantStateConnecting
	case participantStateCodeConnected:
		return engine.ParticipantStateConnected
	case participantStateCodeDisconnected:
		return engine.ParticipantStateDisconnected
	default:
		return engine.ParticipantStateNone
	}
}

func unixMilli(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
