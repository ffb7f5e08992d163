package engine

import (
	"context"
	"time"
)

// Renderer is an opaque platform rendering surface. The bridge never looks inside it.
type Renderer any

type ParticipantType int

const (
	ParticipantTypeNone ParticipantType = iota
	ParticipantTypeClient
	ParticipantTypeInterpreter
	ParticipantTypeThirdParty
)

type ParticipantState int

const (
	ParticipantStateNone ParticipantState = iota
	ParticipantStateConfirmation
	ParticipantStateConnecting
	ParticipantStateConnected
	ParticipantStateDisconnected
)

type ImageInfo struct {
	ImageKey      string
	Sizes         []int
	BaseURL       string
	FileExtension string
}

type Participant struct {
	Identity              string
	Type                  ParticipantType
	AccountID             int64
	State                 ParticipantState
	RequiredName          string
	CompanyName           string
	Rating                *float64
	ImageInfo             *ImageInfo
	IsAudioEnabled        bool
	IsVideoEnabled        bool
	MuteActionIsEnabled   bool
	RemoveActionIsEnabled bool
}

type Language struct {
	ID                     int
	Code                   string
	Name                   string
	EnglishName            string
	NativeName             string
	LocalizedName          string
	Enabled                bool
	IsSignLanguage         bool
	IsVideoBackstopStaffed bool
	VRIPolicyOrder         *int
	OPIPolicyOrder         *int
}

type ServiceType struct {
	ID     int
	Name   string
	Enable bool
}

type Gender struct {
	ID   int
	Name string
}

type CallDictionaries struct {
	Languages    []Language
	ServiceTypes []ServiceType
	Genders      []Gender
}

type Profile struct {
	AccountName      string
	UserAccountID    int64
	CompanyAccountID int64
	Email            string
	FirstName        string
	LastName         string
	RequiredName     string
	ImageInfo        *ImageInfo
}

type CallDetails struct {
	CallID          int64
	AccountUniqueID int64
	Duration        float64
	TimeRequested   time.Time
	TimeAnswered    *time.Time
	TimeConnected   *time.Time
}

type ChatUser struct {
	ID        int64
	ImageInfo *ImageInfo
}

type ChatMessage struct {
	User     ChatUser
	Text     string
	SentTime time.Time
}

type AdditionalField struct {
	Key   string
	Value string
}

type CallRequest struct {
	LanguageFromID int
	LanguageToID   int
	ServiceTypeID  int
	GenderID       *int
	Data           []AdditionalField
}

// Call is a live handle. Accessors reflect the engine's current view of the call.
type Call interface {
	CallID() *int64
	CurrentUserID() int64
	IsVideo() bool
	IsInProgress() bool
	IsMuted() bool
	AccessToken() string
	Identity() string
	InterlocutorInfo() *Participant
	Participants() []Participant
	CanAddThirdParty() bool

	SetMuted(ctx context.Context, muted bool) error
	DialThirdParty(ctx context.Context, phone string) error
	HangUpThirdParty(ctx context.Context, identity string) error
	MuteThirdParty(ctx context.Context, identity string, mute bool) error
}

type VideoCall interface {
	Call
	IsVideoEnabled() bool
	RoomID() *string
	SetVideoEnabled(ctx context.Context, enabled bool) error
	SwitchCamera(ctx context.Context) error
	AddRenderer(identity string, r Renderer) error
}

type EventKind int

const (
	EventCallConnected EventKind = iota + 1
	EventCallDisconnected
	EventCallFailedToConnect
	EventChatConnected
	EventChatDisconnected
	EventChatMessageReceived
	EventParticipantAdded
	EventParticipantUpdated
	EventParticipantRemoved
	// EventStreamError reports a failure of the event stream itself.
	EventStreamError
)

// Event is one item of the engine's event stream. Call is nil when the
// engine cannot attribute the event to a call. Err carries the reason of
// terminal and stream-error events.
type Event struct {
	Kind        EventKind
	Call        Call
	Participant *Participant
	Message     *ChatMessage
	Err         error
}

type Client interface {
	Initialize(ctx context.Context) error
	// Subscribe registers handler for the event stream. Events are delivered
	// in engine order from a single goroutine. The returned func cancels.
	Subscribe(handler func(Event)) (unsubscribe func())
	MakeVoiceCall(ctx context.Context, req CallRequest) (Call, error)
	MakeVideoCall(ctx context.Context, req CallRequest, local Renderer) (VideoCall, error)
	HangUp(ctx context.Context) error
	SendChatMessage(ctx context.Context, text string) (*ChatMessage, error)
	CallDictionaries(ctx context.Context) (*CallDictionaries, error)
	Profile(ctx context.Context) (*Profile, error)
	VoiceLanguages(ctx context.Context) ([]Language, error)
	VideoLanguages(ctx context.Context) ([]Language, error)
	CallDetails(ctx context.Context, callID int64) (*CallDetails, error)
	Dispose() error
}

// Factory is the static surface of the engine: it needs no session.
type Factory interface {
	NewClient(authToken, region string) (Client, error)
	Regions() []string
	Version() string
}
